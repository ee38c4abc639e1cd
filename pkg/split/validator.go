package split

import "github.com/shopspring/decimal"

// ValidateRequest applies the checks shared by every split method and indexes the inputs
// by member id. Order matters: an empty selection is reported before a bad total.
func ValidateRequest(total decimal.Decimal, participants []string, inputs []Input) (map[string]Input, error) {
	if len(participants) == 0 {
		return nil, invalid(ReasonEmptySelection, "at least one participant is required")
	}

	seen := make(map[string]struct{}, len(participants))
	for _, memberID := range participants {
		if memberID == "" {
			return nil, invalid(ReasonEmptySelection, "participant id cannot be empty")
		}
		if _, dup := seen[memberID]; dup {
			return nil, invalid(ReasonDuplicateParticipant, "%s selected more than once", memberID)
		}
		seen[memberID] = struct{}{}
	}

	if !RoundCents(total).IsPositive() {
		return nil, invalid(ReasonNonPositiveTotal, "total must be greater than zero, got %s", total.String())
	}

	byMember := make(map[string]Input, len(inputs))
	for _, in := range inputs {
		if _, ok := seen[in.MemberID]; !ok {
			return nil, invalid(ReasonUnknownParticipant, "input given for %s who is not a participant", in.MemberID)
		}
		if _, dup := byMember[in.MemberID]; dup {
			return nil, invalid(ReasonDuplicateParticipant, "more than one input for %s", in.MemberID)
		}
		byMember[in.MemberID] = in
	}
	return byMember, nil
}

// VerifyAllocations checks that allocations reconcile to the total within Tolerance and
// that nobody owes a negative amount.
func VerifyAllocations(total decimal.Decimal, allocations []Allocation) error {
	for _, a := range allocations {
		if a.Amount.IsNegative() {
			return invalid(ReasonAmountMismatch, "negative allocation %s for %s", a.Amount.StringFixed(2), a.MemberID)
		}
	}

	sum := sumAllocations(allocations)
	if sum.Sub(total).Abs().GreaterThan(Tolerance) {
		return invalid(ReasonAmountMismatch, "allocations sum to %s, want %s", sum.StringFixed(2), total.StringFixed(2))
	}
	return nil
}

// Sum returns the total of the given allocations.
func Sum(allocations []Allocation) decimal.Decimal {
	return sumAllocations(allocations)
}
