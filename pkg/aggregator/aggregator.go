package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Contribution is one group's or one friend's share of a user's net position.
type Contribution struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary breaks a user's net position down by source.
// TotalOwed is what others owe the user, TotalOwing what the user owes, both non-negative.
type Summary struct {
	UserID     string          `json:"user_id"`
	Net        decimal.Decimal `json:"net"`
	TotalOwed  decimal.Decimal `json:"total_owed"`
	TotalOwing decimal.Decimal `json:"total_owing"`
	Groups     []Contribution  `json:"groups"`
	Friends    []Contribution  `json:"friends"`
}

// Aggregator rolls a user's group balances and friend entries into one figure.
// It only reads; calling it twice with no commit in between returns the same result.
type Aggregator struct {
	Store       storage.BalanceReader
	Concurrency int
}

// New creates a new Aggregator reading at most concurrency records in parallel.
func New(store storage.BalanceReader, concurrency int) *Aggregator {
	if concurrency < 1 {
		concurrency = 8
	}
	return &Aggregator{Store: store, Concurrency: concurrency}
}

// NetPosition returns the user's balance summed across every group and friend.
// Positive means the user is owed.
func (a *Aggregator) NetPosition(ctx context.Context, userID string) (decimal.Decimal, error) {
	summary, err := a.Summary(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return summary.Net, nil
}

// Summary computes the user's net position with its per-group and per-friend breakdown.
// A membership or friend entry that disappears while reading counts as zero; a record
// that cannot be decoded fails the whole rollup.
func (a *Aggregator) Summary(ctx context.Context, userID string) (*Summary, error) {
	groupIDs, err := a.Store.ListGroupIDsForMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for %s: %w", userID, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Concurrency)

	groups := make([]Contribution, len(groupIDs))
	for i, groupID := range groupIDs {
		i, groupID := i, groupID
		g.Go(func() error {
			groups[i] = Contribution{ID: groupID, Amount: decimal.Zero}
			member, err := a.Store.GetMember(gctx, groupID, userID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					slog.DebugContext(gctx, "membership vanished during aggregation", "group_id", groupID, "user_id", userID)
					return nil
				}
				return fmt.Errorf("failed to read balance in group %s: %w", groupID, err)
			}
			groups[i].Amount = member.Balance
			return nil
		})
	}

	var friends []Contribution
	g.Go(func() error {
		entries, err := a.Store.ListFriendEntries(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list friend entries for %s: %w", userID, err)
		}
		friends = make([]Contribution, len(entries))
		for i, e := range entries {
			friends[i] = Contribution{ID: e.FriendID, Amount: e.NetAmount}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	sort.Slice(friends, func(i, j int) bool { return friends[i].ID < friends[j].ID })

	summary := &Summary{
		UserID:     userID,
		Net:        decimal.Zero,
		TotalOwed:  decimal.Zero,
		TotalOwing: decimal.Zero,
		Groups:     groups,
		Friends:    friends,
	}
	for _, c := range append(append([]Contribution(nil), groups...), friends...) {
		summary.Net = summary.Net.Add(c.Amount)
		if c.Amount.IsPositive() {
			summary.TotalOwed = summary.TotalOwed.Add(c.Amount)
		} else {
			summary.TotalOwing = summary.TotalOwing.Add(c.Amount.Neg())
		}
	}
	return summary, nil
}
