package payout

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus       = errors.New("invalid payout status")
	ErrIllegalTransition   = errors.New("illegal payout status transition")
	ErrBelowMinimum        = errors.New("payout amount below minimum")
	ErrInsufficientBalance = errors.New("payout amount exceeds available balance")
	ErrMissingCurrency     = errors.New("currency required")
)

// MinimumPayoutCents is the smallest withdrawable amount (10 currency units).
const MinimumPayoutCents int64 = 1000

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

func NewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return Status(s), nil
	default:
		return Status(""), ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Payout struct {
	id            uuid.UUID
	creatorID     uuid.UUID
	amountCents   int64
	currency      string
	status        Status
	processedAt   *time.Time
	completedAt   *time.Time
	failureReason *string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewPayout validates a withdrawal request against the creator's available
// balance at request time.
func NewPayout(creatorID uuid.UUID, amountCents, availableCents int64, currency string) (*Payout, error) {
	if currency == "" {
		return nil, ErrMissingCurrency
	}
	if amountCents < MinimumPayoutCents {
		return nil, ErrBelowMinimum
	}
	if amountCents > availableCents {
		return nil, ErrInsufficientBalance
	}
	return &Payout{
		id:          uuid.New(),
		creatorID:   creatorID,
		amountCents: amountCents,
		currency:    currency,
		status:      StatusPending,
	}, nil
}

func Reconstruct(
	id, creatorID uuid.UUID,
	amountCents int64,
	currency string,
	status Status,
	processedAt, completedAt *time.Time,
	failureReason *string,
	createdAt, updatedAt time.Time,
) *Payout {
	return &Payout{
		id:            id,
		creatorID:     creatorID,
		amountCents:   amountCents,
		currency:      currency,
		status:        status,
		processedAt:   processedAt,
		completedAt:   completedAt,
		failureReason: failureReason,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (p *Payout) MarkProcessing(now time.Time) error {
	if !p.status.CanTransitionTo(StatusProcessing) {
		return ErrIllegalTransition
	}
	p.status = StatusProcessing
	p.processedAt = &now
	return nil
}

func (p *Payout) MarkCompleted(now time.Time) error {
	if !p.status.CanTransitionTo(StatusCompleted) {
		return ErrIllegalTransition
	}
	p.status = StatusCompleted
	p.completedAt = &now
	return nil
}

func (p *Payout) MarkFailed(reason string) error {
	if !p.status.CanTransitionTo(StatusFailed) {
		return ErrIllegalTransition
	}
	p.status = StatusFailed
	p.failureReason = &reason
	return nil
}

func (p *Payout) ID() uuid.UUID          { return p.id }
func (p *Payout) CreatorID() uuid.UUID   { return p.creatorID }
func (p *Payout) AmountCents() int64     { return p.amountCents }
func (p *Payout) Currency() string       { return p.currency }
func (p *Payout) Status() Status         { return p.status }
func (p *Payout) ProcessedAt() *time.Time { return p.processedAt }
func (p *Payout) CompletedAt() *time.Time { return p.completedAt }
func (p *Payout) FailureReason() *string  { return p.failureReason }
func (p *Payout) CreatedAt() time.Time    { return p.createdAt }
func (p *Payout) UpdatedAt() time.Time    { return p.updatedAt }
