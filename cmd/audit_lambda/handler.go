package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/expense-ledger/pkg/audit"
	ledgerevents "github.com/chris/expense-ledger/pkg/events"
)

// PairAuditor checks the ledger invariants of one group or friend pair.
type PairAuditor interface {
	AuditGroup(ctx context.Context, groupID string) (*audit.Violation, error)
	AuditFriendPair(ctx context.Context, userID, friendID string) (*audit.Violation, error)
}

// Handler audits the context touched by each committed expense.
type Handler struct {
	Auditor PairAuditor
}

// HandleRequest processes ExpenseCommitted messages from SQS.
func (h *Handler) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	violations := 0
	for _, message := range sqsEvent.Records {
		var event ledgerevents.ExpenseCommitted
		if err := json.Unmarshal([]byte(message.Body), &event); err != nil {
			slog.ErrorContext(ctx, "failed to unmarshal expense event",
				"message_id", message.MessageId,
				"error", err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return fmt.Errorf("failed to unmarshal message %s: %w", message.MessageId, err)
		}

		violation, err := h.audit(ctx, &event)
		if err != nil {
			slog.ErrorContext(ctx, "failed to audit expense",
				"message_id", message.MessageId,
				"expense_id", event.ExpenseID,
				"error", err)
			return err
		}
		if violation != nil {
			violations++
			slog.ErrorContext(ctx, "ledger invariant violated",
				"expense_id", event.ExpenseID,
				"violation", violation.String())
			continue
		}
		slog.InfoContext(ctx, "expense audited",
			"expense_id", event.ExpenseID,
			"context_key", event.ContextKey)
	}

	slog.InfoContext(ctx, "audit batch finished",
		"records", len(sqsEvent.Records),
		"violations", violations)
	return nil
}

func (h *Handler) audit(ctx context.Context, event *ledgerevents.ExpenseCommitted) (*audit.Violation, error) {
	switch {
	case event.GroupID != "":
		return h.Auditor.AuditGroup(ctx, event.GroupID)
	case event.UserID != "" && event.FriendID != "":
		return h.Auditor.AuditFriendPair(ctx, event.UserID, event.FriendID)
	}
	return nil, fmt.Errorf("expense %s names neither a group nor a friend pair", event.ExpenseID)
}
