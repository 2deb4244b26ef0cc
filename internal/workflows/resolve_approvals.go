package workflows

import (
	"math/big"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"approval-service/internal/activities"
	"approval-service/internal/approval"
	"approval-service/internal/modal"
)

const (
	ApprovedAmountActivity = "ApprovedAmount"

	CaseFileQuery = "casefile"
	AuditLogQuery = "audit_log"
)

type workflowState struct {
	CaseFile modal.ApprovalCase `json:"caseFile"`
	Audit    []modal.AuditEvent `json:"audit,omitempty"`
}

// ResolveApprovals reads the current approval of every required item and
// returns the approval actions still needed. Nothing is submitted on chain.
func ResolveApprovals(ctx workflow.Context, req modal.ApprovalRequest) (modal.ApprovalPlan, error) {
	logger := workflow.GetLogger(ctx)
	requestID := workflow.GetInfo(ctx).WorkflowExecution.ID
	logger.Info("workflow started", "requestID", requestID, "requirements", len(req.Requirements))

	state := &workflowState{
		CaseFile: modal.ApprovalCase{
			RequestID:     requestID,
			Owner:         req.Owner,
			ExactApproval: req.ExactApproval,
			Requirements:  req.Requirements,
			Status:        modal.CaseChecking,
			GeneratedAt:   workflow.Now(ctx),
		},
		Audit: make([]modal.AuditEvent, 0),
	}

	appendAudit := func(kind, message string, data map[string]any) {
		state.Audit = append(state.Audit, modal.AuditEvent{
			At:      workflow.Now(ctx),
			Kind:    kind,
			Message: message,
			Data:    data,
		})
	}

	_ = workflow.SetQueryHandler(ctx, CaseFileQuery, func() (modal.ApprovalCase, error) {
		return state.CaseFile, nil
	})
	_ = workflow.SetQueryHandler(ctx, AuditLogQuery, func() ([]modal.AuditEvent, error) {
		return state.Audit, nil
	})

	groups, err := approval.GroupRequirements(req.Requirements)
	if err != nil {
		appendAudit("ERROR", "invalid requirements", map[string]any{"error": err.Error()})
		return modal.ApprovalPlan{}, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidRequirements", err)
	}
	appendAudit("GROUPED", "requirements grouped by token, identifier and operator", map[string]any{
		"groups": len(groups),
	})

	// Chain reads time out after 10s and are retried with backoff (1s, 2s).
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    1 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	// Reads are independent, so they all run at once.
	futures := make([]workflow.Future, len(groups))
	for i, g := range groups {
		futures[i] = workflow.ExecuteActivity(ctx, ApprovedAmountActivity, activities.AmountQuery{
			Owner:    req.Owner,
			Item:     g.Item,
			Operator: g.Operator,
		})
	}

	approved := make([]*big.Int, len(groups))
	for i, f := range futures {
		if err := f.Get(ctx, &approved[i]); err != nil {
			logger.Error("failed to read approval", "token", groups[i].Item.Token.Hex(), "error", err)
			appendAudit("ERROR", "approval read failed", map[string]any{
				"token": groups[i].Item.Token.Hex(),
				"error": err.Error(),
			})
			return modal.ApprovalPlan{}, err
		}
	}

	insufficient, err := approval.FindInsufficient(groups, approved)
	if err != nil {
		return modal.ApprovalPlan{}, err
	}
	state.CaseFile.Insufficient = insufficient
	appendAudit("APPROVALS_CHECKED", "current approvals compared to requirements", map[string]any{
		"insufficient": len(insufficient),
	})

	plan := modal.ApprovalPlan{RequestID: requestID, Actions: []modal.ApprovalAction{}}
	if len(insufficient) == 0 {
		state.CaseFile.Status = modal.CaseSatisfied
		appendAudit("DONE", "all approvals already granted", nil)
		return plan, nil
	}

	actions, err := approval.GetApprovalActions(insufficient, req.ExactApproval, req.Signer)
	if err != nil {
		appendAudit("ERROR", "could not build approval actions", map[string]any{"error": err.Error()})
		return modal.ApprovalPlan{}, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidApproval", err)
	}
	plan.Actions = actions
	state.CaseFile.Status = modal.CaseNeedsAction
	appendAudit("DONE", "approval actions built", map[string]any{"actions": len(actions)})
	logger.Info("approval actions built", "requestID", requestID, "actions", len(actions))

	return plan, nil
}
