package storage

import (
	"context"

	"github.com/chris/expense-ledger/pkg/models"
)

// GroupReader defines the interface for reading groups and their members.
type GroupReader interface {
	// GetGroup retrieves a group together with every member's current balance and version.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetMember retrieves a single member of a group.
	GetMember(ctx context.Context, groupID, memberID string) (*models.Member, error)

	// ListGroupIDsForMember retrieves the ids of every group the member belongs to.
	ListGroupIDsForMember(ctx context.Context, memberID string) ([]string, error)

	// ListGroupIDs retrieves the ids of all groups.
	ListGroupIDs(ctx context.Context) ([]string, error)
}

// GroupStore combines reading groups with creating them.
type GroupStore interface {
	GroupReader

	// CreateGroup creates a group and its members. Returns ErrAlreadyExists if the id is taken.
	CreateGroup(ctx context.Context, group *models.Group) (*models.Group, error)
}
