package storage

import (
	"context"

	"github.com/chris/expense-ledger/pkg/models"
)

// FriendReader defines the interface for reading friend ledger entries.
type FriendReader interface {
	// GetFriendEntry retrieves the owner's entry versus one friend.
	GetFriendEntry(ctx context.Context, ownerID, friendID string) (*models.FriendLedgerEntry, error)

	// ListFriendEntries retrieves every entry owned by the user.
	ListFriendEntries(ctx context.Context, ownerID string) ([]models.FriendLedgerEntry, error)

	// ListAllFriendEntries retrieves every friend entry in the store.
	ListAllFriendEntries(ctx context.Context) ([]models.FriendLedgerEntry, error)
}

// FriendStore combines reading friend entries with establishing friendships.
type FriendStore interface {
	FriendReader

	// CreateFriendship creates both entries of a friendship at a zero balance.
	// Returns ErrAlreadyExists if either entry exists.
	CreateFriendship(ctx context.Context, userID, friendID string) error
}
