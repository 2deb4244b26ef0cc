package modal

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ApprovalRequest is the input of a resolution workflow.
type ApprovalRequest struct {
	Owner         common.Address `json:"owner"`
	Signer        common.Address `json:"signer"`
	Requirements  []Requirement  `json:"requirements"`
	ExactApproval bool           `json:"exactApproval"`
}

type ApprovalCase struct {
	RequestID     string                 `json:"requestId"`
	Owner         common.Address         `json:"owner"`
	ExactApproval bool                   `json:"exactApproval"`
	Requirements  []Requirement          `json:"requirements"`
	Insufficient  []InsufficientApproval `json:"insufficient"`
	Status        CaseStatus             `json:"status"`
	GeneratedAt   time.Time              `json:"generatedAt"`
}

type CaseStatus string

const (
	CaseChecking    CaseStatus = "CHECKING"
	CaseSatisfied   CaseStatus = "SATISFIED"
	CaseNeedsAction CaseStatus = "NEEDS_APPROVAL"
)

// ApprovalPlan is the workflow result handed to the transaction layer.
type ApprovalPlan struct {
	RequestID string           `json:"requestId"`
	Actions   []ApprovalAction `json:"actions"`
}

type AuditEvent struct {
	At      time.Time      `json:"at"`
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}
