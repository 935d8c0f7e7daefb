package license

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingMachineID = errors.New("machine id required")
	ErrAlreadyInactive  = errors.New("activation is already inactive")
)

const DefaultActivationLimit = 5

// DeviceInfo is the optional metadata recorded with an activation.
type DeviceInfo struct {
	DeviceName *string
	OSInfo     *string
	IPAddress  *string
}

type Activation struct {
	id            uuid.UUID
	licenseKey    Key
	machineID     string
	deviceInfo    DeviceInfo
	isActive      bool
	activatedAt   time.Time
	deactivatedAt *time.Time
}

func NewActivation(licenseKey Key, machineID string, info DeviceInfo, now time.Time) (*Activation, error) {
	if machineID == "" {
		return nil, ErrMissingMachineID
	}
	return &Activation{
		id:          uuid.New(),
		licenseKey:  licenseKey,
		machineID:   machineID,
		deviceInfo:  info,
		isActive:    true,
		activatedAt: now,
	}, nil
}

func ReconstructActivation(
	id uuid.UUID,
	licenseKey Key,
	machineID string,
	info DeviceInfo,
	isActive bool,
	activatedAt time.Time,
	deactivatedAt *time.Time,
) *Activation {
	return &Activation{
		id:            id,
		licenseKey:    licenseKey,
		machineID:     machineID,
		deviceInfo:    info,
		isActive:      isActive,
		activatedAt:   activatedAt,
		deactivatedAt: deactivatedAt,
	}
}

func (a *Activation) Deactivate(now time.Time) error {
	if !a.isActive {
		return ErrAlreadyInactive
	}
	a.isActive = false
	a.deactivatedAt = &now
	return nil
}

func (a *Activation) ID() uuid.UUID             { return a.id }
func (a *Activation) LicenseKey() Key           { return a.licenseKey }
func (a *Activation) MachineID() string         { return a.machineID }
func (a *Activation) DeviceInfo() DeviceInfo    { return a.deviceInfo }
func (a *Activation) IsActive() bool            { return a.isActive }
func (a *Activation) ActivatedAt() time.Time    { return a.activatedAt }
func (a *Activation) DeactivatedAt() *time.Time { return a.deactivatedAt }
