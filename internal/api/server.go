package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"approval-service/internal/approval"
	"approval-service/internal/chain"
	"approval-service/internal/modal"
	"approval-service/internal/workflows"
)

// WorkflowIDPrefix marks resolution workflows in visibility queries.
const WorkflowIDPrefix = "approvals-"

type Server struct {
	tc        client.Client
	taskQueue string
	logger    *zap.Logger
	// planWait bounds how long the plan endpoint waits for a result.
	planWait time.Duration
}

func NewServer(tc client.Client, taskQueue string, logger *zap.Logger) *Server {
	return &Server{tc: tc, taskQueue: taskQueue, logger: logger, planWait: 5 * time.Second}
}

type startResp struct {
	WorkflowID string `json:"workflowId"`
	RunID      string `json:"runId"`
}

type synthesizeReq struct {
	InsufficientApprovals []modal.InsufficientApproval `json:"insufficientApprovals"`
	ExactApproval         bool                         `json:"exactApproval"`
	Signer                common.Address               `json:"signer"`
}

type actionResp struct {
	modal.ApprovalAction
	CallData hexutil.Bytes `json:"callData"`
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/approvals/resolve", s.handleResolve)
	r.Post("/approvals/synthesize", s.handleSynthesize)
	r.Get("/workflows/{workflowId}/casefile", s.handleCaseFile)
	r.Get("/workflows/{workflowId}/audit", s.handleAudit)
	r.Get("/workflows/{workflowId}/plan", s.handlePlan)
	registerUIRoutes(r, s.tc)

	return r
}

// handleResolve starts a resolution workflow under a fresh id.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req modal.ApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := validateRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := client.StartWorkflowOptions{
		ID:                                       WorkflowIDPrefix + uuid.NewString(),
		TaskQueue:                                s.taskQueue,
		WorkflowExecutionTimeout:                 1 * time.Minute,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
		WorkflowIDReusePolicy:                    enums.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	we, err := s.tc.ExecuteWorkflow(ctx, opts, workflows.ResolveApprovals, req)
	if err != nil {
		s.logger.Error("start workflow failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Info("workflow started", zap.String("workflowId", we.GetID()), zap.Int("requirements", len(req.Requirements)))
	writeJSON(w, http.StatusAccepted, startResp{WorkflowID: we.GetID(), RunID: we.GetRunID()})
}

// handleSynthesize builds approval actions from an insufficiency list the
// caller already computed. No workflow is involved.
func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := validateInsufficient(req.InsufficientApprovals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actions, err := approval.GetApprovalActions(req.InsufficientApprovals, req.ExactApproval, req.Signer)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, approval.ErrNativeCurrencyApproval) || errors.Is(err, modal.ErrUnknownItemType) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	out := make([]actionResp, 0, len(actions))
	for _, a := range actions {
		data, err := chain.EncodeInvocation(a.Invocation)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out = append(out, actionResp{ApprovalAction: a, CallData: data})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCaseFile(w http.ResponseWriter, r *http.Request) {
	var cf modal.ApprovalCase
	if err := s.query(r, workflows.CaseFileQuery, &cf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cf)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	var events []modal.AuditEvent
	if err := s.query(r, workflows.AuditLogQuery, &events); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// handlePlan waits briefly for the workflow result.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	workflowID := chi.URLParam(r, "workflowId")
	runID := r.URL.Query().Get("runId")

	ctx, cancel := context.WithTimeout(r.Context(), s.planWait)
	defer cancel()

	var plan modal.ApprovalPlan
	if err := s.tc.GetWorkflow(ctx, workflowID, runID).Get(ctx, &plan); err != nil {
		// The long poll surfaces an expired deadline as a gRPC status, not
		// as context.DeadlineExceeded.
		var deadline *serviceerror.DeadlineExceeded
		if ctx.Err() != nil || errors.As(err, &deadline) {
			http.Error(w, "workflow still running", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) query(r *http.Request, queryType string, out any) error {
	workflowID := chi.URLParam(r, "workflowId")
	runID := r.URL.Query().Get("runId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	qr, err := s.tc.QueryWorkflow(ctx, workflowID, runID, queryType)
	if err != nil {
		return err
	}
	return qr.Get(out)
}

func validateRequest(req modal.ApprovalRequest) error {
	if req.Owner == (common.Address{}) {
		return errors.New("owner is required")
	}
	if len(req.Requirements) == 0 {
		return errors.New("at least one requirement is required")
	}
	for _, r := range req.Requirements {
		if r.Amount == nil || r.Amount.Sign() < 0 {
			return errors.New("requirement amount must be a non-negative number")
		}
		if _, err := r.Item.ItemType.Kind(); err != nil {
			return err
		}
	}
	return nil
}

// validateInsufficient rejects records that would yield a zero allowance or
// a call to the zero address. Native and unknown item types are left to the
// synthesizer.
func validateInsufficient(records []modal.InsufficientApproval) error {
	for i, a := range records {
		kind, err := a.ItemType.Kind()
		if err != nil || kind == modal.ApprovalNone {
			continue
		}
		if a.Token == (common.Address{}) {
			return fmt.Errorf("record %d: token is required", i)
		}
		if a.RequiredApprovedAmount == nil || a.RequiredApprovedAmount.Sign() < 0 {
			return fmt.Errorf("record %d: requiredApprovedAmount must be a non-negative number", i)
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
