package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chris/expense-ledger/pkg/events"
	"github.com/chris/expense-ledger/pkg/events/mocks"
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/split"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/chris/expense-ledger/pkg/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testConfig() Config {
	return Config{MaxAttempts: 3, Timeout: time.Second, RetryBackoff: time.Millisecond}
}

func seedGroup(t *testing.T, l *Ledger, groupID string, memberIDs ...string) {
	t.Helper()
	draft := GroupDraft{ID: groupID, Name: "Trip", CreatedBy: memberIDs[0]}
	for _, id := range memberIDs {
		draft.Members = append(draft.Members, MemberDraft{ID: id, DisplayName: id})
	}
	_, err := l.CreateGroup(context.Background(), draft)
	require.NoError(t, err)
}

func balances(t *testing.T, store storage.GroupReader, groupID string) map[string]string {
	t.Helper()
	group, err := store.GetGroup(context.Background(), groupID)
	require.NoError(t, err)
	out := make(map[string]string, len(group.Members))
	for _, m := range group.Members {
		out[m.ID] = m.Balance.StringFixed(2)
	}
	return out
}

func equalDraft(groupID, payer, amount string, participants ...string) ExpenseDraft {
	return ExpenseDraft{
		Amount:       dec(amount),
		PayerID:      payer,
		SplitMethod:  models.SplitEqual,
		Participants: participants,
		GroupID:      groupID,
		CreatedBy:    payer,
		Category:     "food",
		Description:  "dinner",
	}
}

func TestCommitExpense_Group(t *testing.T) {
	t.Run("Equal Split", func(t *testing.T) {
		store := memory.New()
		l := New(store, nil, testConfig())
		seedGroup(t, l, "g1", "a", "b", "c")

		result, err := l.CommitExpense(context.Background(), equalDraft("g1", "b", "100", "a", "b", "c"))

		require.NoError(t, err)
		assert.Equal(t, 1, result.Attempts)
		assert.NotEmpty(t, result.ExpenseID)
		assert.Equal(t, map[string]string{"a": "-33.34", "b": "66.67", "c": "-33.33"}, balances(t, store, "g1"))
		assert.Equal(t, "66.67", result.Balances["b"].StringFixed(2))
		assert.Equal(t, "-33.34", result.Balances["a"].StringFixed(2))

		expense, err := store.GetExpense(context.Background(), result.ExpenseID)
		require.NoError(t, err)
		assert.Equal(t, "100.00", expense.Amount.StringFixed(2))
		assert.Len(t, expense.SplitWith, 3)

		log, err := store.ListTransactionLog(context.Background(), models.GroupContextKey("g1"))
		require.NoError(t, err)
		require.Len(t, log, 1)
		assert.Equal(t, result.ExpenseID, log[0].ExpenseID)
		assert.Equal(t, []string{"a", "b", "c"}, log[0].SplitWith)
	})

	t.Run("Payer Not Participating", func(t *testing.T) {
		store := memory.New()
		l := New(store, nil, testConfig())
		seedGroup(t, l, "g1", "a", "b", "c")

		_, err := l.CommitExpense(context.Background(), equalDraft("g1", "a", "30", "b", "c"))

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "30.00", "b": "-15.00", "c": "-15.00"}, balances(t, store, "g1"))
	})

	t.Run("Percentage Inputs Persisted", func(t *testing.T) {
		store := memory.New()
		l := New(store, nil, testConfig())
		seedGroup(t, l, "g1", "a", "b")

		draft := equalDraft("g1", "a", "200", "a", "b")
		draft.SplitMethod = models.SplitPercentage
		draft.Inputs = []split.Input{{MemberID: "a", Percentage: ptr("40")}, {MemberID: "b", Percentage: ptr("60")}}

		result, err := l.CommitExpense(context.Background(), draft)

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "120.00", "b": "-120.00"}, balances(t, store, "g1"))
		require.NotNil(t, result.Expense.SplitWith[1].Percentage)
		assert.Equal(t, "60", result.Expense.SplitWith[1].Percentage.String())
	})

	t.Run("Balances Accumulate", func(t *testing.T) {
		store := memory.New()
		l := New(store, nil, testConfig())
		seedGroup(t, l, "g1", "a", "b")

		_, err := l.CommitExpense(context.Background(), equalDraft("g1", "a", "10", "a", "b"))
		require.NoError(t, err)
		_, err = l.CommitExpense(context.Background(), equalDraft("g1", "b", "30", "a", "b"))
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"a": "-10.00", "b": "10.00"}, balances(t, store, "g1"))
	})
}

func TestCommitExpense_Friend(t *testing.T) {
	t.Run("User Pays", func(t *testing.T) {
		store := memory.New()
		l := New(store, nil, testConfig())
		require.NoError(t, l.EstablishFriendship(context.Background(), "u", "f"))

		result, err := l.CommitExpense(context.Background(), ExpenseDraft{
			Amount:       dec("40"),
			PayerID:      "u",
			SplitMethod:  models.SplitUnequal,
			Participants: []string{"u", "f"},
			Inputs:       []split.Input{{MemberID: "u", Amount: ptr("20")}, {MemberID: "f", Amount: ptr("20")}},
			FriendID:     "f",
			CreatedBy:    "u",
		})

		require.NoError(t, err)
		assert.Equal(t, "20.00", result.Balances["u"].StringFixed(2))
		assert.Equal(t, "-20.00", result.Balances["f"].StringFixed(2))

		mine, err := store.GetFriendEntry(context.Background(), "u", "f")
		require.NoError(t, err)
		theirs, err := store.GetFriendEntry(context.Background(), "f", "u")
		require.NoError(t, err)
		assert.Equal(t, "20.00", mine.NetAmount.StringFixed(2))
		assert.Equal(t, "-20.00", theirs.NetAmount.StringFixed(2))

		log, err := store.ListTransactionLog(context.Background(), models.FriendContextKey("f", "u"))
		require.NoError(t, err)
		assert.Len(t, log, 1)
	})

	t.Run("Friend Pays", func(t *testing.T) {
		store := memory.New()
		l := New(store, nil, testConfig())
		require.NoError(t, l.EstablishFriendship(context.Background(), "u", "f"))

		result, err := l.CommitExpense(context.Background(), ExpenseDraft{
			Amount:       dec("30"),
			PayerID:      "f",
			SplitMethod:  models.SplitShares,
			Participants: []string{"u", "f"},
			Inputs:       []split.Input{{MemberID: "u", Shares: ptr("2")}, {MemberID: "f", Shares: ptr("1")}},
			FriendID:     "f",
			CreatedBy:    "u",
		})

		require.NoError(t, err)
		assert.Equal(t, "-20.00", result.Balances["u"].StringFixed(2))
		assert.Equal(t, "20.00", result.Balances["f"].StringFixed(2))
	})

	t.Run("Not Friends", func(t *testing.T) {
		l := New(memory.New(), nil, testConfig())

		_, err := l.CommitExpense(context.Background(), ExpenseDraft{
			Amount: dec("10"), PayerID: "u", SplitMethod: models.SplitEqual,
			Participants: []string{"u", "f"}, FriendID: "f", CreatedBy: "u",
		})

		assert.ErrorIs(t, err, ErrStaleMembership)
	})

	t.Run("Outsider Participant", func(t *testing.T) {
		store := memory.New()
		l := New(store, nil, testConfig())
		require.NoError(t, l.EstablishFriendship(context.Background(), "u", "f"))

		_, err := l.CommitExpense(context.Background(), ExpenseDraft{
			Amount: dec("10"), PayerID: "u", SplitMethod: models.SplitEqual,
			Participants: []string{"u", "x"}, FriendID: "f", CreatedBy: "u",
		})

		assert.ErrorIs(t, err, ErrStaleMembership)
		entry, _ := store.GetFriendEntry(context.Background(), "u", "f")
		assert.True(t, entry.NetAmount.IsZero())
	})
}

func TestCommitExpense_Rejections(t *testing.T) {
	t.Run("Validation Error Before Any IO", func(t *testing.T) {
		store := memory.New()
		l := New(store, nil, testConfig())
		seedGroup(t, l, "g1", "a", "b")

		draft := equalDraft("g1", "a", "200", "a", "b")
		draft.SplitMethod = models.SplitPercentage
		draft.Inputs = []split.Input{{MemberID: "a", Percentage: ptr("40")}, {MemberID: "b", Percentage: ptr("59")}}

		result, err := l.CommitExpense(context.Background(), draft)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, split.ErrPercentageMismatch)
		assert.Equal(t, map[string]string{"a": "0.00", "b": "0.00"}, balances(t, store, "g1"))
	})

	t.Run("Stale Membership", func(t *testing.T) {
		store := memory.New()
		l := New(store, nil, testConfig())
		seedGroup(t, l, "g1", "a", "b", "c")
		store.RemoveMember("g1", "c")

		_, err := l.CommitExpense(context.Background(), equalDraft("g1", "a", "30", "a", "b", "c"))

		assert.ErrorIs(t, err, ErrStaleMembership)
		assert.Equal(t, map[string]string{"a": "0.00", "b": "0.00"}, balances(t, store, "g1"))
		log, _ := store.ListTransactionLog(context.Background(), models.GroupContextKey("g1"))
		assert.Empty(t, log)
	})

	t.Run("Payer Not In Group", func(t *testing.T) {
		store := memory.New()
		l := New(store, nil, testConfig())
		seedGroup(t, l, "g1", "a", "b")

		_, err := l.CommitExpense(context.Background(), equalDraft("g1", "z", "30", "a", "b"))

		assert.ErrorIs(t, err, ErrStaleMembership)
	})

	t.Run("Missing Group", func(t *testing.T) {
		l := New(memory.New(), nil, testConfig())

		_, err := l.CommitExpense(context.Background(), equalDraft("nope", "a", "30", "a"))

		assert.ErrorIs(t, err, ErrStaleMembership)
	})

	tests := []struct {
		name  string
		draft ExpenseDraft
	}{
		{name: "No Context", draft: ExpenseDraft{Amount: dec("1"), PayerID: "a", CreatedBy: "a"}},
		{name: "Both Contexts", draft: ExpenseDraft{Amount: dec("1"), PayerID: "a", CreatedBy: "a", GroupID: "g", FriendID: "f"}},
		{name: "No Payer", draft: ExpenseDraft{Amount: dec("1"), CreatedBy: "a", GroupID: "g"}},
		{name: "No Creator", draft: ExpenseDraft{Amount: dec("1"), PayerID: "a", GroupID: "g"}},
		{name: "Self Friend", draft: ExpenseDraft{Amount: dec("1"), PayerID: "a", CreatedBy: "a", FriendID: "a"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := New(memory.New(), nil, testConfig())

			_, err := l.CommitExpense(context.Background(), tc.draft)

			assert.ErrorIs(t, err, ErrInvalidDraft)
		})
	}
}

// racingStore lets a competing commit land between the ledger's read and its write.
type racingStore struct {
	*memory.Store
	once sync.Once
	race func()
}

func (s *racingStore) CommitGroupExpense(ctx context.Context, commit *models.GroupCommit) error {
	s.once.Do(s.race)
	return s.Store.CommitGroupExpense(ctx, commit)
}

type conflictingStore struct {
	*memory.Store
	calls int
}

func (s *conflictingStore) CommitGroupExpense(ctx context.Context, commit *models.GroupCommit) error {
	s.calls++
	return storage.ErrConflict
}

type stallingStore struct {
	*memory.Store
}

func (s *stallingStore) CommitGroupExpense(ctx context.Context, commit *models.GroupCommit) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestCommitExpense_Concurrency(t *testing.T) {
	t.Run("Conflict Is Retried", func(t *testing.T) {
		inner := memory.New()
		other := New(inner, nil, testConfig())
		seedGroup(t, other, "g1", "a", "b")

		store := &racingStore{Store: inner, race: func() {
			_, err := other.CommitExpense(context.Background(), equalDraft("g1", "b", "10", "a", "b"))
			require.NoError(t, err)
		}}
		l := New(store, nil, testConfig())

		result, err := l.CommitExpense(context.Background(), equalDraft("g1", "a", "10", "a", "b"))

		require.NoError(t, err)
		assert.Equal(t, 2, result.Attempts)
		assert.Equal(t, map[string]string{"a": "0.00", "b": "0.00"}, balances(t, inner, "g1"))
		log, _ := inner.ListTransactionLog(context.Background(), models.GroupContextKey("g1"))
		assert.Len(t, log, 2)
	})

	t.Run("Retries Exhausted", func(t *testing.T) {
		inner := memory.New()
		seedGroup(t, New(inner, nil, testConfig()), "g1", "a", "b")
		store := &conflictingStore{Store: inner}
		l := New(store, nil, testConfig())

		result, err := l.CommitExpense(context.Background(), equalDraft("g1", "a", "10", "a", "b"))

		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrConcurrentUpdateConflict)
		assert.ErrorIs(t, err, storage.ErrConflict)
		assert.Equal(t, 3, store.calls)
		assert.Equal(t, map[string]string{"a": "0.00", "b": "0.00"}, balances(t, inner, "g1"))
	})

	t.Run("Timeout", func(t *testing.T) {
		inner := memory.New()
		seedGroup(t, New(inner, nil, testConfig()), "g1", "a", "b")
		l := New(&stallingStore{Store: inner}, nil, Config{MaxAttempts: 3, Timeout: 20 * time.Millisecond})

		_, err := l.CommitExpense(context.Background(), equalDraft("g1", "a", "10", "a", "b"))

		assert.ErrorIs(t, err, ErrCommitTimeout)
	})

	t.Run("Two Concurrent Commits Both Land", func(t *testing.T) {
		store := memory.New()
		l := New(store, nil, testConfig())
		seedGroup(t, l, "g1", "a", "b", "c")

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, payer := range []string{"a", "b"} {
			wg.Add(1)
			go func(i int, payer string) {
				defer wg.Done()
				_, errs[i] = l.CommitExpense(context.Background(), equalDraft("g1", payer, "10", "a", "b", "c"))
			}(i, payer)
		}
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])
		// Both expenses split [3.34, 3.33, 3.33] over a, b, c.
		assert.Equal(t, map[string]string{"a": "3.32", "b": "3.34", "c": "-6.66"}, balances(t, store, "g1"))
	})

	t.Run("Many Writers Stay Zero Sum", func(t *testing.T) {
		store := memory.New()
		l := New(store, nil, Config{MaxAttempts: 100, Timeout: 5 * time.Second})
		members := []string{"a", "b", "c", "d"}
		seedGroup(t, l, "g1", members...)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				payer := members[i%len(members)]
				_, err := l.CommitExpense(context.Background(), equalDraft("g1", payer, fmt.Sprintf("%d.17", i+1), members...))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		group, err := store.GetGroup(context.Background(), "g1")
		require.NoError(t, err)
		sum := decimal.Zero
		for _, m := range group.Members {
			sum = sum.Add(m.Balance)
		}
		assert.True(t, sum.IsZero(), "balances sum to %s", sum)
		log, _ := store.ListTransactionLog(context.Background(), models.GroupContextKey("g1"))
		assert.Len(t, log, 20)
	})
}

func TestCommitExpense_Publishing(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := memory.New()
		publisher := new(mocks.Publisher)
		l := New(store, publisher, testConfig())
		seedGroup(t, l, "g1", "a", "b")

		publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.ExpenseCommitted) bool {
			return e.GroupID == "g1" && e.ContextKey == "group#g1" && e.PaidBy == "a"
		})).Once().Return(nil)

		_, err := l.CommitExpense(context.Background(), equalDraft("g1", "a", "10", "a", "b"))

		assert.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("Publish Failure Does Not Fail Commit", func(t *testing.T) {
		store := memory.New()
		publisher := new(mocks.Publisher)
		l := New(store, publisher, testConfig())
		seedGroup(t, l, "g1", "a", "b")

		publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("queue down"))

		result, err := l.CommitExpense(context.Background(), equalDraft("g1", "a", "10", "a", "b"))

		require.NoError(t, err)
		assert.Equal(t, "5.00", result.Balances["a"].StringFixed(2))
		publisher.AssertExpectations(t)
	})
}

func TestCheckGroupInvariants(t *testing.T) {
	t.Run("Balanced", func(t *testing.T) {
		allocations := []split.Allocation{{MemberID: "a", Amount: dec("4")}, {MemberID: "b", Amount: dec("6")}}
		assert.NoError(t, checkGroupInvariants(dec("10"), allocations, groupDeltas("a", dec("10"), allocations)))
	})

	t.Run("Allocations Short Of Total", func(t *testing.T) {
		allocations := []split.Allocation{{MemberID: "a", Amount: dec("4")}, {MemberID: "b", Amount: dec("5.99")}}
		err := checkGroupInvariants(dec("10"), allocations, groupDeltas("a", dec("10"), allocations))
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})

	t.Run("Negative Allocation", func(t *testing.T) {
		allocations := []split.Allocation{{MemberID: "a", Amount: dec("11")}, {MemberID: "b", Amount: dec("-1")}}
		err := checkGroupInvariants(dec("10"), allocations, groupDeltas("a", dec("10"), allocations))
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})

	t.Run("Deltas Not Zero Sum", func(t *testing.T) {
		allocations := []split.Allocation{{MemberID: "a", Amount: dec("10")}}
		deltas := map[string]decimal.Decimal{"a": dec("1")}
		err := checkGroupInvariants(dec("10"), allocations, deltas)
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})
}

func TestFriendBalanceChange(t *testing.T) {
	allocations := []split.Allocation{{MemberID: "u", Amount: dec("20")}, {MemberID: "f", Amount: dec("20")}}

	assert.Equal(t, "20.00", friendBalanceChange("u", "u", allocations).StringFixed(2))
	assert.Equal(t, "-20.00", friendBalanceChange("u", "f", allocations).StringFixed(2))
}

func TestCreateGroup(t *testing.T) {
	t.Run("Creator Added As Admin", func(t *testing.T) {
		l := New(memory.New(), nil, testConfig())

		group, err := l.CreateGroup(context.Background(), GroupDraft{Name: " Flat ", CreatedBy: "a", Members: []MemberDraft{{ID: "b"}}})

		require.NoError(t, err)
		assert.NotEmpty(t, group.ID)
		assert.Equal(t, "Flat", group.Name)
		admin, ok := group.Member("a")
		require.True(t, ok)
		assert.True(t, admin.IsAdmin)
		assert.True(t, admin.Balance.IsZero())
	})

	t.Run("Duplicate Member", func(t *testing.T) {
		l := New(memory.New(), nil, testConfig())

		_, err := l.CreateGroup(context.Background(), GroupDraft{Name: "Flat", CreatedBy: "a", Members: []MemberDraft{{ID: "b"}, {ID: "b"}}})

		assert.ErrorIs(t, err, ErrInvalidDraft)
	})

	t.Run("Already Exists", func(t *testing.T) {
		l := New(memory.New(), nil, testConfig())
		seedGroup(t, l, "g1", "a")

		_, err := l.CreateGroup(context.Background(), GroupDraft{ID: "g1", Name: "Again", CreatedBy: "a"})

		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})
}

func TestEstablishFriendship(t *testing.T) {
	l := New(memory.New(), nil, testConfig())

	assert.ErrorIs(t, l.EstablishFriendship(context.Background(), "u", "u"), ErrInvalidDraft)
	assert.NoError(t, l.EstablishFriendship(context.Background(), "u", "f"))
	assert.ErrorIs(t, l.EstablishFriendship(context.Background(), "f", "u"), storage.ErrAlreadyExists)
}
