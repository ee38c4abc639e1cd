package split

import (
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/shopspring/decimal"
)

// EqualStrategy divides the total evenly. Leftover cents are handed out one at a time
// starting with the first participant, so 100.00 over three is [33.34, 33.33, 33.33].
type EqualStrategy struct{}

func (s *EqualStrategy) Method() models.SplitMethod {
	return models.SplitEqual
}

// Validate has nothing to check beyond the request-level rules; inputs are ignored.
func (s *EqualStrategy) Validate(total decimal.Decimal, participants []string, inputs map[string]Input) error {
	return nil
}

func (s *EqualStrategy) Calculate(total decimal.Decimal, participants []string, inputs map[string]Input) ([]Allocation, error) {
	if err := s.Validate(total, participants, inputs); err != nil {
		return nil, err
	}

	cents := total.Shift(2).IntPart()
	n := int64(len(participants))
	base, leftover := cents/n, cents%n

	allocations := make([]Allocation, len(participants))
	for i, memberID := range participants {
		share := base
		if int64(i) < leftover {
			share++
		}
		allocations[i] = Allocation{MemberID: memberID, Amount: decimal.New(share, -2)}
	}
	return allocations, nil
}
