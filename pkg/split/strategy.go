package split

import (
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/shopspring/decimal"
)

// Tolerance is the absolute slack allowed when percentages or literal amounts are
// reconciled against their expected sum.
var Tolerance = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// Input is the raw, per-participant value supplied with a split request.
// Which field is read depends on the split method.
type Input struct {
	MemberID   string           `json:"member_id"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Shares     *decimal.Decimal `json:"shares,omitempty"`
}

// Allocation is the amount a single participant owes toward an expense.
type Allocation struct {
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// Strategy turns a validated total into per-participant allocations.
// Participants are in request order, inputs are keyed by member id.
type Strategy interface {
	Method() models.SplitMethod
	Validate(total decimal.Decimal, participants []string, inputs map[string]Input) error
	Calculate(total decimal.Decimal, participants []string, inputs map[string]Input) ([]Allocation, error)
}

// Factory creates split strategies based on the requested method.
type Factory struct{}

// NewFactory creates a new factory instance.
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementing the given method.
func (f *Factory) Create(method models.SplitMethod) (Strategy, error) {
	switch method {
	case models.SplitEqual:
		return &EqualStrategy{}, nil
	case models.SplitPercentage:
		return &PercentageStrategy{}, nil
	case models.SplitUnequal:
		return &UnequalStrategy{}, nil
	case models.SplitShares:
		return &SharesStrategy{}, nil
	default:
		return nil, invalid(ReasonUnknownMethod, "unknown split method %q", method)
	}
}

// RoundCents rounds a monetary value to two decimal places, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// absorbRemainder moves whatever the allocations are short of (or over) the total onto
// the last eligible participant whose amount stays non-negative.
func absorbRemainder(allocations []Allocation, total decimal.Decimal, eligible func(i int) bool) {
	remainder := total.Sub(sumAllocations(allocations))
	if remainder.IsZero() {
		return
	}
	for i := len(allocations) - 1; i >= 0; i-- {
		if !eligible(i) {
			continue
		}
		adjusted := allocations[i].Amount.Add(remainder)
		if adjusted.IsNegative() {
			continue
		}
		allocations[i].Amount = adjusted
		return
	}
}

func sumAllocations(allocations []Allocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range allocations {
		sum = sum.Add(a.Amount)
	}
	return sum
}

func anyParticipant(int) bool { return true }
