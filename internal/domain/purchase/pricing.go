package purchase

import (
	"errors"

	"digistore/internal/domain/discount"

	"github.com/google/uuid"
)

var ErrEmptyCart = errors.New("cart has no items")

// CartLine is one product/variant the customer is buying.
type CartLine struct {
	ProductID  uuid.UUID
	VariantID  *uuid.UUID
	CreatorID  uuid.UUID
	PriceCents int64
	// DiscountEligible marks lines a product-scoped code applies to.
	// All-product codes set it on every line.
	DiscountEligible bool
}

type PricedLine struct {
	CartLine
	DiscountCents int64
}

// PriceCart distributes a single code's discount across cart lines
// proportionally to each eligible line's share of the eligible subtotal.
// Per-line discounts floor; the remainder cents go to the last eligible line,
// and whatever that line cannot absorb spills backwards into earlier eligible
// lines, so the cart-level discount is conserved exactly (no line is ever
// discounted past its price). A one-item cart receives the full discount.
// A nil value prices the cart without any discount.
func PriceCart(lines []CartLine, value *discount.Value) ([]PricedLine, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	priced := make([]PricedLine, len(lines))
	for i, line := range lines {
		if line.PriceCents < 0 {
			return nil, ErrNegativeAmount
		}
		priced[i] = PricedLine{CartLine: line}
	}
	if value == nil {
		return priced, nil
	}

	var eligibleSubtotal int64
	lastEligible := -1
	for i, line := range lines {
		if line.DiscountEligible {
			eligibleSubtotal += line.PriceCents
			lastEligible = i
		}
	}
	if lastEligible == -1 || eligibleSubtotal == 0 {
		return priced, nil
	}

	totalOff := value.AmountOff(eligibleSubtotal)
	var distributed int64
	for i := range priced {
		if !priced[i].DiscountEligible || i == lastEligible {
			continue
		}
		share := totalOff * priced[i].PriceCents / eligibleSubtotal
		if share > priced[i].PriceCents {
			share = priced[i].PriceCents
		}
		priced[i].DiscountCents = share
		distributed += share
	}

	remainder := totalOff - distributed
	for i := lastEligible; i >= 0 && remainder > 0; i-- {
		if !priced[i].DiscountEligible {
			continue
		}
		capacity := priced[i].PriceCents - priced[i].DiscountCents
		if capacity <= 0 {
			continue
		}
		grant := remainder
		if grant > capacity {
			grant = capacity
		}
		priced[i].DiscountCents += grant
		remainder -= grant
	}

	return priced, nil
}
