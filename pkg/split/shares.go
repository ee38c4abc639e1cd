package split

import (
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/shopspring/decimal"
)

// SharesStrategy divides the total in proportion to each participant's share weight.
type SharesStrategy struct{}

func (s *SharesStrategy) Method() models.SplitMethod {
	return models.SplitShares
}

// Validate requires a non-negative weight for every participant and a positive sum.
func (s *SharesStrategy) Validate(total decimal.Decimal, participants []string, inputs map[string]Input) error {
	sum := decimal.Zero
	for _, memberID := range participants {
		in, ok := inputs[memberID]
		if !ok || in.Shares == nil {
			return invalid(ReasonInvalidShares, "shares missing for %s", memberID)
		}
		if in.Shares.IsNegative() {
			return invalid(ReasonInvalidShares, "negative shares for %s", memberID)
		}
		sum = sum.Add(*in.Shares)
	}

	if !sum.IsPositive() {
		return invalid(ReasonInvalidShares, "total shares must be greater than zero")
	}
	return nil
}

func (s *SharesStrategy) Calculate(total decimal.Decimal, participants []string, inputs map[string]Input) ([]Allocation, error) {
	if err := s.Validate(total, participants, inputs); err != nil {
		return nil, err
	}

	sum := decimal.Zero
	for _, memberID := range participants {
		sum = sum.Add(*inputs[memberID].Shares)
	}

	allocations := make([]Allocation, len(participants))
	for i, memberID := range participants {
		weight := *inputs[memberID].Shares
		allocations[i] = Allocation{
			MemberID: memberID,
			Amount:   RoundCents(weight.Mul(total).Div(sum)),
		}
	}

	// A zero-weight participant never picks up rounding cents.
	absorbRemainder(allocations, total, func(i int) bool {
		return inputs[participants[i]].Shares.IsPositive()
	})
	return allocations, nil
}
