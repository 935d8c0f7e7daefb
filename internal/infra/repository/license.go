package repository

import (
	"context"
	"errors"
	"time"

	"digistore/internal/domain/license"
	"digistore/internal/infra"
	"digistore/internal/infra/db"

	"github.com/jackc/pgx/v5/pgconn"
)

type ActivationRepository struct{}

func NewActivationRepository() *ActivationRepository {
	return &ActivationRepository{}
}

// InsertWithLimit enforces the per-key activation cap in one statement: the
// insert only happens while the active count is below the limit. The count
// subquery reads the statement snapshot, so callers must hold the per-key
// advisory lock or the cap can overshoot under concurrent distinct-machine
// inserts. A partial unique index on (license_key, machine_id) WHERE
// is_active backstops concurrent re-activation races; a duplicate there is
// reported as conflict and treated by the caller as an idempotent success.
func (r *ActivationRepository) InsertWithLimit(ctx context.Context, dbtx db.DBTX, act *license.Activation, limit int32) (bool, error) {
	info := act.DeviceInfo()
	tag, err := dbtx.Exec(ctx, `
INSERT INTO license_activations (
	id, license_key, machine_id, device_name, os_info, ip_address, is_active, activated_at
)
SELECT $1, $2, $3, $4, $5, $6, TRUE, $7
WHERE (
	SELECT COUNT(*) FROM license_activations
	WHERE license_key = $2 AND is_active = TRUE
) < $8
`,
		act.ID(), act.LicenseKey().String(), act.MachineID(),
		info.DeviceName, info.OSInfo, info.IPAddress, act.ActivatedAt(), limit,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return false, infra.WrapRepoErr("machine already activated", err, infra.KindConflict)
		}
		return false, infra.WrapRepoErr("failed to insert activation", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ActivationRepository) Deactivate(ctx context.Context, dbtx db.DBTX, key, machineID string, now time.Time) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
UPDATE license_activations
SET is_active = FALSE, deactivated_at = $3
WHERE license_key = $1 AND machine_id = $2 AND is_active = TRUE
`, key, machineID, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to deactivate activation", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ActivationRepository) DeactivateAll(ctx context.Context, dbtx db.DBTX, key string, now time.Time) (int64, error) {
	tag, err := dbtx.Exec(ctx, `
UPDATE license_activations
SET is_active = FALSE, deactivated_at = $2
WHERE license_key = $1 AND is_active = TRUE
`, key, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to deactivate license activations", err)
	}
	return tag.RowsAffected(), nil
}
