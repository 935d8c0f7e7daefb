package discount

import (
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"
	"strings"
)

var (
	ErrInvalidCode      = errors.New("invalid discount code format")
	ErrInvalidKind      = errors.New("invalid discount kind")
	ErrInvalidValue     = errors.New("invalid discount value")
	ErrInvalidAppliesTo = errors.New("invalid discount scope")
)

var codeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// Visually ambiguous characters (0/O, 1/I) are excluded from generated codes.
const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const GeneratedCodeLength = 8

type Code string

func NewCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !codeRegex.MatchString(code) {
		return Code(""), ErrInvalidCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

// GenerateCode produces a random creator-facing code of the default length.
func GenerateCode() (Code, error) {
	var b strings.Builder
	b.Grow(GeneratedCodeLength)
	max := big.NewInt(int64(len(codeCharset)))
	for range GeneratedCodeLength {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return Code(""), err
		}
		b.WriteByte(codeCharset[n.Int64()])
	}
	return Code(b.String()), nil
}

type Kind string

const (
	KindPercentage Kind = "percentage"
	KindFixed      Kind = "fixed"
)

func NewKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPercentage, KindFixed:
		return Kind(s), nil
	default:
		return Kind(""), ErrInvalidKind
	}
}

func (k Kind) String() string {
	return string(k)
}

type AppliesTo string

const (
	AppliesToAll      AppliesTo = "all"
	AppliesToProducts AppliesTo = "specific-products"
)

func NewAppliesTo(s string) (AppliesTo, error) {
	switch AppliesTo(s) {
	case AppliesToAll, AppliesToProducts:
		return AppliesTo(s), nil
	default:
		return AppliesTo(""), ErrInvalidAppliesTo
	}
}

func (a AppliesTo) String() string {
	return string(a)
}

type Value struct {
	kind   Kind
	amount int64
}

// NewValue validates the discount magnitude against its kind: percentages must be
// in (0, 100], fixed amounts are positive cents.
func NewValue(kind Kind, amount int64) (Value, error) {
	switch kind {
	case KindPercentage:
		if amount <= 0 || amount > 100 {
			return Value{}, ErrInvalidValue
		}
	case KindFixed:
		if amount <= 0 {
			return Value{}, ErrInvalidValue
		}
	default:
		return Value{}, ErrInvalidKind
	}
	return Value{kind: kind, amount: amount}, nil
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) Amount() int64 { return v.amount }

// AmountOff computes the discount in cents for a price in cents.
// Percentage discounts floor; fixed discounts never exceed the price.
func (v Value) AmountOff(priceCents int64) int64 {
	if priceCents <= 0 {
		return 0
	}
	switch v.kind {
	case KindPercentage:
		return priceCents * v.amount / 100
	case KindFixed:
		if v.amount > priceCents {
			return priceCents
		}
		return v.amount
	default:
		return 0
	}
}
