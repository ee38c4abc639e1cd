package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/shopspring/decimal"
)

// Kind identifies which ledger invariant a violation breaks.
type Kind string

const (
	KindGroupNotZeroSum   Kind = "group-not-zero-sum"
	KindFriendAsymmetric  Kind = "friend-asymmetric"
	KindFriendMissingSide Kind = "friend-missing-side"
)

// Violation describes one broken invariant found by the auditor.
type Violation struct {
	Kind       Kind            `json:"kind"`
	ContextKey string          `json:"context_key"`
	Imbalance  decimal.Decimal `json:"imbalance"`
	Detail     string          `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %s (imbalance %s)", v.Kind, v.ContextKey, v.Detail, v.Imbalance.StringFixed(2))
}

// Auditor re-reads committed balances and checks the ledger invariants: every group's
// balances sum to zero and every friendship's two entries are negatives of each other.
type Auditor struct {
	Store storage.BalanceReader
}

func New(store storage.BalanceReader) *Auditor {
	return &Auditor{Store: store}
}

// AuditGroup returns a violation if the group's member balances do not sum to zero.
// A group that does not exist has nothing to audit.
func (a *Auditor) AuditGroup(ctx context.Context, groupID string) (*Violation, error) {
	group, err := a.Store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read group %s: %w", groupID, err)
	}
	return checkGroup(group), nil
}

func checkGroup(group *models.Group) *Violation {
	sum := decimal.Zero
	for _, m := range group.Members {
		sum = sum.Add(m.Balance)
	}
	if sum.IsZero() {
		return nil
	}
	return &Violation{
		Kind:       KindGroupNotZeroSum,
		ContextKey: models.GroupContextKey(group.ID),
		Imbalance:  sum,
		Detail:     fmt.Sprintf("%d member balances sum to %s", len(group.Members), sum.String()),
	}
}

// AuditFriendPair returns a violation if the two entries of a friendship are not negatives
// of each other, or if only one side exists.
func (a *Auditor) AuditFriendPair(ctx context.Context, userID, friendID string) (*Violation, error) {
	forward, err := a.readEntry(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	backward, err := a.readEntry(ctx, friendID, userID)
	if err != nil {
		return nil, err
	}
	return checkPair(userID, friendID, forward, backward), nil
}

func (a *Auditor) readEntry(ctx context.Context, ownerID, friendID string) (*models.FriendLedgerEntry, error) {
	e, err := a.Store.GetFriendEntry(ctx, ownerID, friendID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read friend entry %s/%s: %w", ownerID, friendID, err)
	}
	return e, nil
}

func checkPair(userID, friendID string, forward, backward *models.FriendLedgerEntry) *Violation {
	key := models.FriendContextKey(userID, friendID)
	switch {
	case forward == nil && backward == nil:
		return nil
	case forward == nil || backward == nil:
		present := forward
		if present == nil {
			present = backward
		}
		return &Violation{
			Kind:       KindFriendMissingSide,
			ContextKey: key,
			Imbalance:  present.NetAmount,
			Detail:     fmt.Sprintf("only %s's entry exists", present.OwnerID),
		}
	}

	sum := forward.NetAmount.Add(backward.NetAmount)
	if sum.IsZero() {
		return nil
	}
	return &Violation{
		Kind:       KindFriendAsymmetric,
		ContextKey: key,
		Imbalance:  sum,
		Detail:     fmt.Sprintf("%s holds %s, %s holds %s", userID, forward.NetAmount.String(), friendID, backward.NetAmount.String()),
	}
}

// AuditAll checks every group and every friendship in the store. Each violation is logged
// and returned; a read failure stops the audit.
func (a *Auditor) AuditAll(ctx context.Context) ([]Violation, error) {
	var violations []Violation

	groupIDs, err := a.Store.ListGroupIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	for _, id := range groupIDs {
		v, err := a.AuditGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		if v != nil {
			violations = append(violations, *v)
		}
	}

	entries, err := a.Store.ListAllFriendEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend entries: %w", err)
	}
	violations = append(violations, auditFriendEntries(entries)...)

	for _, v := range violations {
		slog.ErrorContext(ctx, "ledger invariant violated",
			"kind", v.Kind,
			"context_key", v.ContextKey,
			"imbalance", v.Imbalance.String(),
			"detail", v.Detail)
	}
	slog.InfoContext(ctx, "ledger audit finished",
		"groups", len(groupIDs),
		"friend_entries", len(entries),
		"violations", len(violations))
	return violations, nil
}

// auditFriendEntries pairs up a full scan of friend entries by owner and friend.
func auditFriendEntries(entries []models.FriendLedgerEntry) []Violation {
	byKey := make(map[string]*models.FriendLedgerEntry, len(entries))
	for i := range entries {
		e := &entries[i]
		byKey[e.OwnerID+"\x00"+e.FriendID] = e
	}

	seen := make(map[string]bool, len(entries)/2+1)
	var keys []string
	pairs := make(map[string][2]string)
	for _, e := range entries {
		key := models.FriendContextKey(e.OwnerID, e.FriendID)
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
		pairs[key] = [2]string{e.OwnerID, e.FriendID}
	}
	sort.Strings(keys)

	var violations []Violation
	for _, key := range keys {
		p := pairs[key]
		forward := byKey[p[0]+"\x00"+p[1]]
		backward := byKey[p[1]+"\x00"+p[0]]
		if v := checkPair(p[0], p[1], forward, backward); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations
}
