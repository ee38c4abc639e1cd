package split

import (
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/shopspring/decimal"
)

// PercentageStrategy divides the total by each participant's percentage.
type PercentageStrategy struct{}

func (s *PercentageStrategy) Method() models.SplitMethod {
	return models.SplitPercentage
}

// Validate requires a non-negative percentage for every participant, summing to 100
// within Tolerance.
func (s *PercentageStrategy) Validate(total decimal.Decimal, participants []string, inputs map[string]Input) error {
	sum := decimal.Zero
	for _, memberID := range participants {
		in, ok := inputs[memberID]
		if !ok || in.Percentage == nil {
			return invalid(ReasonPercentageMismatch, "percentage missing for %s", memberID)
		}
		if in.Percentage.IsNegative() {
			return invalid(ReasonPercentageMismatch, "negative percentage for %s", memberID)
		}
		sum = sum.Add(*in.Percentage)
	}

	if sum.Sub(hundred).Abs().GreaterThan(Tolerance) {
		return invalid(ReasonPercentageMismatch, "percentages sum to %s, want 100", sum.String())
	}
	return nil
}

func (s *PercentageStrategy) Calculate(total decimal.Decimal, participants []string, inputs map[string]Input) ([]Allocation, error) {
	if err := s.Validate(total, participants, inputs); err != nil {
		return nil, err
	}

	allocations := make([]Allocation, len(participants))
	for i, memberID := range participants {
		p := *inputs[memberID].Percentage
		allocations[i] = Allocation{
			MemberID: memberID,
			Amount:   RoundCents(p.Mul(total).Div(hundred)),
		}
	}

	absorbRemainder(allocations, total, anyParticipant)
	return allocations, nil
}
