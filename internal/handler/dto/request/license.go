package request

type ValidateLicenseRequest struct {
	LicenseKey string  `json:"license_key" binding:"required"`
	MachineID  *string `json:"machine_id,omitempty"`
}

type ActivateLicenseRequest struct {
	LicenseKey string  `json:"license_key" binding:"required"`
	MachineID  string  `json:"machine_id" binding:"required"`
	DeviceName *string `json:"device_name,omitempty"`
	OSInfo     *string `json:"os_info,omitempty"`
	// IPAddress is filled by the handler from the connection, never the body.
	IPAddress *string `json:"-"`
}

type DeactivateLicenseRequest struct {
	LicenseKey string `json:"license_key" binding:"required"`
	MachineID  string `json:"machine_id" binding:"required"`
}
