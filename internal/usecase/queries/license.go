package queries

import (
	"context"

	"digistore/internal/domain/actor"
	"digistore/internal/infra"
	"digistore/internal/pkg/errs"

	"github.com/google/uuid"
)

type LicenseQueries interface {
	// ListActivations returns the device roster for a key. Restricted to the
	// creator who sold the license and to admins.
	ListActivations(ctx context.Context, viewer uuid.UUID, role actor.Role, licenseKey string) ([]*ActivationView, error)
}

type ActivationViewRepo interface {
	FindByLicenseKey(ctx context.Context, licenseKey string) ([]*ActivationView, error)
}

// LicenseOwnershipRepo resolves which creator a license key belongs to.
type LicenseOwnershipRepo interface {
	CreatorOfLicense(ctx context.Context, licenseKey string) (uuid.UUID, error)
}

type licenseQueriesImpl struct {
	activations ActivationViewRepo
	ownership   LicenseOwnershipRepo
}

func NewLicenseQueries(activations ActivationViewRepo, ownership LicenseOwnershipRepo) LicenseQueries {
	return &licenseQueriesImpl{activations: activations, ownership: ownership}
}

func (q *licenseQueriesImpl) ListActivations(ctx context.Context, viewer uuid.UUID, role actor.Role, licenseKey string) ([]*ActivationView, error) {
	creatorID, err := q.ownership.CreatorOfLicense(ctx, licenseKey)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrLicenseNotFound)
		}
		return nil, err
	}
	if role != actor.RoleAdmin && creatorID != viewer {
		return nil, errs.Mark(errs.New("license not owned by viewer"), errs.ErrNotResourceOwner)
	}
	return q.activations.FindByLicenseKey(ctx, licenseKey)
}
