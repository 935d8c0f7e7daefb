package response

import (
	"time"

	"digistore/internal/usecase/commands"
	"digistore/internal/usecase/queries"

	"github.com/google/uuid"
)

type LicenseValidationResponse struct {
	Valid             bool       `json:"valid"`
	Reason            string     `json:"reason,omitempty"`
	PurchaseID        *uuid.UUID `json:"purchase_id,omitempty"`
	ProductID         *uuid.UUID `json:"product_id,omitempty"`
	Status            string     `json:"status,omitempty"`
	ActiveActivations int32      `json:"active_activations"`
	ActivationLimit   int32      `json:"activation_limit"`
}

func FromValidationResult(result *commands.LicenseValidationResult) LicenseValidationResponse {
	return LicenseValidationResponse{
		Valid:             result.Valid,
		Reason:            result.Reason,
		PurchaseID:        result.PurchaseID,
		ProductID:         result.ProductID,
		Status:            result.Status,
		ActiveActivations: result.ActiveActivations,
		ActivationLimit:   result.ActivationLimit,
	}
}

type ActivationResponse struct {
	ActivationID uuid.UUID `json:"activation_id"`
	LicenseKey   string    `json:"license_key"`
	MachineID    string    `json:"machine_id"`
	IsReplayed   bool      `json:"is_replayed"`
}

func FromActivationResult(result *commands.ActivationResult) ActivationResponse {
	return ActivationResponse{
		ActivationID: result.ActivationID,
		LicenseKey:   result.LicenseKey,
		MachineID:    result.MachineID,
		IsReplayed:   result.IsReplayed,
	}
}

type RevokeResponse struct {
	DeactivatedCount int64 `json:"deactivated_count"`
}

func FromRevokeResult(result *commands.RevokeResult) RevokeResponse {
	return RevokeResponse{DeactivatedCount: result.DeactivatedCount}
}

type ActivationViewResponse struct {
	ID            uuid.UUID  `json:"id"`
	MachineID     string     `json:"machine_id"`
	DeviceName    *string    `json:"device_name,omitempty"`
	OSInfo        *string    `json:"os_info,omitempty"`
	IPAddress     *string    `json:"ip_address,omitempty"`
	IsActive      bool       `json:"is_active"`
	ActivatedAt   time.Time  `json:"activated_at"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
}

func FromActivationViews(views []*queries.ActivationView) []ActivationViewResponse {
	result := make([]ActivationViewResponse, len(views))
	for i, v := range views {
		result[i] = ActivationViewResponse{
			ID:            v.ID,
			MachineID:     v.MachineID,
			DeviceName:    v.DeviceName,
			OSInfo:        v.OSInfo,
			IPAddress:     v.IPAddress,
			IsActive:      v.IsActive,
			ActivatedAt:   v.ActivatedAt,
			DeactivatedAt: v.DeactivatedAt,
		}
	}
	return result
}
