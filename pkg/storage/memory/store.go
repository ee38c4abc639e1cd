package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
)

type friendKey struct {
	owner  string
	friend string
}

// Store is an in-memory transactional map implementing storage.Storage.
// Every commit checks the expected versions and applies all writes under one lock,
// so it detects lost updates the same way the database backends do.
type Store struct {
	mu       sync.RWMutex
	groups   map[string]models.Group
	members  map[string]map[string]models.Member
	friends  map[friendKey]models.FriendLedgerEntry
	expenses map[string]models.Expense
	logs     map[string][]models.TransactionLogEntry
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		groups:   make(map[string]models.Group),
		members:  make(map[string]map[string]models.Member),
		friends:  make(map[friendKey]models.FriendLedgerEntry),
		expenses: make(map[string]models.Expense),
		logs:     make(map[string][]models.TransactionLogEntry),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) CreateGroup(_ context.Context, group *models.Group) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[group.ID]; ok {
		return nil, fmt.Errorf("group %s: %w", group.ID, storage.ErrAlreadyExists)
	}

	members := make(map[string]models.Member, len(group.Members))
	for _, m := range group.Members {
		m.GroupID = group.ID
		members[m.ID] = m
	}
	meta := *group
	meta.Members = nil
	s.groups[group.ID] = meta
	s.members[group.ID] = members

	return s.groupLocked(group.ID), nil
}

func (s *Store) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.groups[groupID]; !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return s.groupLocked(groupID), nil
}

func (s *Store) groupLocked(groupID string) *models.Group {
	group := s.groups[groupID]
	group.Members = make([]models.Member, 0, len(s.members[groupID]))
	for _, m := range s.members[groupID] {
		group.Members = append(group.Members, m)
	}
	sort.Slice(group.Members, func(i, j int) bool { return group.Members[i].ID < group.Members[j].ID })
	return &group
}

func (s *Store) GetMember(_ context.Context, groupID, memberID string) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[groupID][memberID]
	if !ok {
		return nil, fmt.Errorf("member %s of group %s: %w", memberID, groupID, storage.ErrNotFound)
	}
	return &m, nil
}

func (s *Store) ListGroupIDsForMember(_ context.Context, memberID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for groupID, members := range s.members {
		if _, ok := members[memberID]; ok {
			ids = append(ids, groupID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) ListGroupIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.groups))
	for id := range s.groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) CreateFriendship(_ context.Context, userID, friendID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	forward := friendKey{owner: userID, friend: friendID}
	backward := friendKey{owner: friendID, friend: userID}
	if _, ok := s.friends[forward]; ok {
		return fmt.Errorf("friendship %s/%s: %w", userID, friendID, storage.ErrAlreadyExists)
	}
	if _, ok := s.friends[backward]; ok {
		return fmt.Errorf("friendship %s/%s: %w", friendID, userID, storage.ErrAlreadyExists)
	}

	s.friends[forward] = models.FriendLedgerEntry{OwnerID: userID, FriendID: friendID}
	s.friends[backward] = models.FriendLedgerEntry{OwnerID: friendID, FriendID: userID}
	return nil
}

func (s *Store) GetFriendEntry(_ context.Context, ownerID, friendID string) (*models.FriendLedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.friends[friendKey{owner: ownerID, friend: friendID}]
	if !ok {
		return nil, fmt.Errorf("friend entry %s/%s: %w", ownerID, friendID, storage.ErrNotFound)
	}
	return &e, nil
}

func (s *Store) ListFriendEntries(_ context.Context, ownerID string) ([]models.FriendLedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []models.FriendLedgerEntry
	for k, e := range s.friends {
		if k.owner == ownerID {
			entries = append(entries, e)
		}
	}
	sortFriendEntries(entries)
	return entries, nil
}

func (s *Store) ListAllFriendEntries(_ context.Context) ([]models.FriendLedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.FriendLedgerEntry, 0, len(s.friends))
	for _, e := range s.friends {
		entries = append(entries, e)
	}
	sortFriendEntries(entries)
	return entries, nil
}

func sortFriendEntries(entries []models.FriendLedgerEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].OwnerID != entries[j].OwnerID {
			return entries[i].OwnerID < entries[j].OwnerID
		}
		return entries[i].FriendID < entries[j].FriendID
	})
}

// CommitGroupExpense applies every balance update and appends the expense and its log
// entry, or does nothing at all.
func (s *Store) CommitGroupExpense(_ context.Context, commit *models.GroupCommit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Check every precondition before touching anything.
	members, ok := s.members[commit.GroupID]
	if !ok {
		return fmt.Errorf("group %s: %w", commit.GroupID, storage.ErrConflict)
	}
	for _, u := range commit.Updates {
		m, ok := members[u.MemberID]
		if !ok || m.Version != u.ExpectedVersion {
			return storage.ErrConflict
		}
	}
	if _, exists := s.expenses[commit.Expense.ID]; exists {
		return fmt.Errorf("expense %s: %w", commit.Expense.ID, storage.ErrAlreadyExists)
	}

	// 2. Apply.
	for _, u := range commit.Updates {
		m := members[u.MemberID]
		m.Balance = u.Balance
		m.Version++
		members[u.MemberID] = m
	}
	s.appendExpenseLocked(commit.Expense, commit.LogEntry)
	return nil
}

// CommitFriendExpense updates both sides of a friend pair and appends the expense and
// its log entry, or does nothing at all.
func (s *Store) CommitFriendExpense(_ context.Context, commit *models.FriendCommit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range commit.Entries {
		e, ok := s.friends[friendKey{owner: u.OwnerID, friend: u.FriendID}]
		if !ok || e.Version != u.ExpectedVersion {
			return storage.ErrConflict
		}
	}
	if _, exists := s.expenses[commit.Expense.ID]; exists {
		return fmt.Errorf("expense %s: %w", commit.Expense.ID, storage.ErrAlreadyExists)
	}

	for _, u := range commit.Entries {
		k := friendKey{owner: u.OwnerID, friend: u.FriendID}
		e := s.friends[k]
		e.NetAmount = u.NetAmount
		e.Version++
		s.friends[k] = e
	}
	s.appendExpenseLocked(commit.Expense, commit.LogEntry)
	return nil
}

func (s *Store) appendExpenseLocked(expense *models.Expense, entry *models.TransactionLogEntry) {
	s.expenses[expense.ID] = *expense
	s.logs[entry.ContextKey] = append(s.logs[entry.ContextKey], *entry)
}

func (s *Store) GetExpense(_ context.Context, expenseID string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[expenseID]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return &e, nil
}

func (s *Store) ListTransactionLog(_ context.Context, contextKey string) ([]models.TransactionLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.TransactionLogEntry(nil), s.logs[contextKey]...), nil
}

// RemoveMember deletes a member record. Membership management is outside the ledger; this
// exists so that a vanished participant can be simulated.
func (s *Store) RemoveMember(groupID, memberID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members[groupID], memberID)
}
