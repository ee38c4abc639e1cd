package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chris/expense-ledger/pkg/audit"
)

// FullAuditor checks every group and friend pair in the store.
type FullAuditor interface {
	AuditAll(ctx context.Context) ([]audit.Violation, error)
}

// Handler is triggered by an EventBridge Schedule.
type Handler struct {
	Auditor FullAuditor
}

// HandleRequest audits the whole ledger. Violations are reported, never repaired: an
// error is returned so the failed invocation alarms.
func (h *Handler) HandleRequest(ctx context.Context) error {
	slog.InfoContext(ctx, "starting ledger reconciliation")

	violations, err := h.Auditor.AuditAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "reconciliation failed", "error", err)
		return err
	}

	if len(violations) > 0 {
		return fmt.Errorf("found %d ledger invariant violations", len(violations))
	}

	slog.InfoContext(ctx, "reconciliation finished, ledger is consistent")
	return nil
}
