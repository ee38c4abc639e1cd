package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/chris/expense-ledger/pkg/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupDraft describes a group to create. The creator is always an admin member.
type GroupDraft struct {
	ID        string
	Name      string
	CreatedBy string
	Members   []MemberDraft
}

// MemberDraft describes one initial member of a group.
type MemberDraft struct {
	ID          string
	DisplayName string
	IsAdmin     bool
}

// CreateGroup creates a group whose members all start at a zero balance.
func (l *Ledger) CreateGroup(ctx context.Context, draft GroupDraft) (*models.Group, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return nil, newError(CodeInvalidDraft, nil, "group name is required")
	}
	if draft.CreatedBy == "" {
		return nil, newError(CodeInvalidDraft, nil, "creator is required")
	}

	id := draft.ID
	if id == "" {
		id = uuid.New().String()
	}

	group := &models.Group{
		ID:        id,
		Name:      strings.TrimSpace(draft.Name),
		CreatedBy: draft.CreatedBy,
		CreatedAt: l.now(),
	}

	seen := make(map[string]bool, len(draft.Members)+1)
	for _, m := range draft.Members {
		if m.ID == "" {
			return nil, newError(CodeInvalidDraft, nil, "member id is required")
		}
		if seen[m.ID] {
			return nil, newError(CodeInvalidDraft, nil, "member %s listed more than once", m.ID)
		}
		seen[m.ID] = true
		group.Members = append(group.Members, models.Member{
			GroupID:     id,
			ID:          m.ID,
			DisplayName: m.DisplayName,
			Balance:     decimal.Zero,
			IsAdmin:     m.IsAdmin || m.ID == draft.CreatedBy,
		})
	}
	if !seen[draft.CreatedBy] {
		group.Members = append(group.Members, models.Member{
			GroupID: id,
			ID:      draft.CreatedBy,
			Balance: decimal.Zero,
			IsAdmin: true,
		})
	}

	created, err := l.Store.CreateGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return created, nil
}

// EstablishFriendship creates both entries of a friendship at a zero balance.
func (l *Ledger) EstablishFriendship(ctx context.Context, userID, friendID string) error {
	if userID == "" || friendID == "" {
		return newError(CodeInvalidDraft, nil, "both user and friend are required")
	}
	if userID == friendID {
		return newError(CodeInvalidDraft, nil, "cannot befriend yourself")
	}
	if err := l.Store.CreateFriendship(ctx, userID, friendID); err != nil {
		return fmt.Errorf("failed to establish friendship: %w", err)
	}
	return nil
}
