package readstore

import (
	"context"

	"digistore/internal/infra"
	"digistore/internal/infra/db"
	"digistore/internal/pkg/pgconv"
	"digistore/internal/usecase/queries"
	"digistore/internal/usecase/shared"
)

type ActivationReadStore struct {
	db db.DBTX
}

func NewActivationReadStore(db db.DBTX) *ActivationReadStore {
	return &ActivationReadStore{db: db}
}

func (r *ActivationReadStore) FindActive(ctx context.Context, key, machineID string) (*shared.ActivationSnapshot, error) {
	var snap shared.ActivationSnapshot
	err := r.db.QueryRow(ctx, `
SELECT id, license_key, machine_id, device_name, os_info, ip_address, is_active, activated_at
FROM license_activations
WHERE license_key = $1 AND machine_id = $2 AND is_active = TRUE
`, key, machineID).Scan(
		&snap.ID, &snap.LicenseKey, &snap.MachineID, &snap.DeviceName,
		&snap.OSInfo, &snap.IPAddress, &snap.IsActive, &snap.ActivatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("activation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find active activation", err)
	}
	return &snap, nil
}

func (r *ActivationReadStore) FindByLicenseKey(ctx context.Context, key string) ([]*queries.ActivationView, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, machine_id, device_name, os_info, ip_address, is_active, activated_at, deactivated_at
FROM license_activations
WHERE license_key = $1
ORDER BY activated_at DESC, id DESC
`, key)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find activations by license key", err)
	}
	defer rows.Close()

	var result []*queries.ActivationView
	for rows.Next() {
		var view queries.ActivationView
		if err := rows.Scan(
			&view.ID, &view.MachineID, &view.DeviceName, &view.OSInfo,
			&view.IPAddress, &view.IsActive, &view.ActivatedAt, &view.DeactivatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan activation row", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read activation rows", err)
	}
	return result, nil
}

// ActiveCount reports how many devices currently hold the key.
func (r *ActivationReadStore) ActiveCount(ctx context.Context, key string) (int32, error) {
	var count int32
	err := r.db.QueryRow(ctx, `
SELECT COUNT(*) FROM license_activations WHERE license_key = $1 AND is_active = TRUE
`, key).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count active activations", err)
	}
	return count, nil
}
