package queries

import (
	"context"

	"digistore/internal/domain/actor"
	"digistore/internal/infra"
	"digistore/internal/pkg/errs"

	"github.com/google/uuid"
)

const defaultPageSize = 50

type PurchaseQueries interface {
	GetByID(ctx context.Context, viewer uuid.UUID, role actor.Role, id uuid.UUID) (*PurchaseView, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int32) ([]*PurchaseListItem, error)
}

type PurchaseViewRepo interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*PurchaseView, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int32) ([]*PurchaseListItem, error)
}

type purchaseQueriesImpl struct {
	repo PurchaseViewRepo
}

func NewPurchaseQueries(repo PurchaseViewRepo) PurchaseQueries {
	return &purchaseQueriesImpl{repo: repo}
}

// GetByID lets the buyer, the product's creator, and admins see a purchase;
// everyone else gets not-found rather than a confirmation the row exists.
func (q *purchaseQueriesImpl) GetByID(ctx context.Context, viewer uuid.UUID, role actor.Role, id uuid.UUID) (*PurchaseView, error) {
	view, err := q.repo.FindViewByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrPurchaseNotFound)
		}
		return nil, err
	}
	if role != actor.RoleAdmin && view.CustomerID != viewer && view.CreatorID != viewer {
		return nil, errs.Mark(errs.New("purchase not visible to viewer"), errs.ErrPurchaseNotFound)
	}
	return view, nil
}

func (q *purchaseQueriesImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int32) ([]*PurchaseListItem, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return q.repo.FindByCustomerID(ctx, customerID, limit, offset)
}
