package split

import (
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/shopspring/decimal"
)

// UnequalStrategy uses the literal amount supplied for each participant.
type UnequalStrategy struct{}

func (s *UnequalStrategy) Method() models.SplitMethod {
	return models.SplitUnequal
}

// Validate requires a non-negative amount for every participant, summing to the total
// within Tolerance.
func (s *UnequalStrategy) Validate(total decimal.Decimal, participants []string, inputs map[string]Input) error {
	sum := decimal.Zero
	for _, memberID := range participants {
		in, ok := inputs[memberID]
		if !ok || in.Amount == nil {
			return invalid(ReasonAmountMismatch, "amount missing for %s", memberID)
		}
		if in.Amount.IsNegative() {
			return invalid(ReasonAmountMismatch, "negative amount for %s", memberID)
		}
		sum = sum.Add(RoundCents(*in.Amount))
	}

	if sum.Sub(total).Abs().GreaterThan(Tolerance) {
		return invalid(ReasonAmountMismatch, "amounts sum to %s, want %s", sum.StringFixed(2), total.StringFixed(2))
	}
	return nil
}

func (s *UnequalStrategy) Calculate(total decimal.Decimal, participants []string, inputs map[string]Input) ([]Allocation, error) {
	if err := s.Validate(total, participants, inputs); err != nil {
		return nil, err
	}

	allocations := make([]Allocation, len(participants))
	for i, memberID := range participants {
		allocations[i] = Allocation{MemberID: memberID, Amount: RoundCents(*inputs[memberID].Amount)}
	}

	absorbRemainder(allocations, total, anyParticipant)
	return allocations, nil
}
