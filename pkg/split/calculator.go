package split

import (
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/shopspring/decimal"
)

var defaultFactory = NewFactory()

// ComputeAllocations turns a raw split request into validated per-participant allocations.
// The total is rounded to cents first and the returned allocations sum to it exactly,
// in participant order. Nothing is returned alongside a validation error.
func ComputeAllocations(total decimal.Decimal, method models.SplitMethod, participants []string, inputs []Input) ([]Allocation, error) {
	strategy, err := defaultFactory.Create(method)
	if err != nil {
		return nil, err
	}

	byMember, err := ValidateRequest(total, participants, inputs)
	if err != nil {
		return nil, err
	}

	rounded := RoundCents(total)
	allocations, err := strategy.Calculate(rounded, participants, byMember)
	if err != nil {
		return nil, err
	}

	if err := VerifyAllocations(rounded, allocations); err != nil {
		return nil, err
	}
	return allocations, nil
}
