package workflows

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"approval-service/internal/activities"
	"approval-service/internal/approval"
	"approval-service/internal/modal"
)

var (
	owner    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	operator = common.HexToAddress("0x2222222222222222222222222222222222222222")
	signer   = common.HexToAddress("0x3333333333333333333333333333333333333333")
	nft      = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	coin     = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

type ResolveApprovalsSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env *testsuite.TestWorkflowEnvironment
}

func TestResolveApprovals(t *testing.T) {
	suite.Run(t, new(ResolveApprovalsSuite))
}

func (s *ResolveApprovalsSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.env.RegisterWorkflow(ResolveApprovals)
	s.env.RegisterActivity(&activities.Activities{})
}

func (s *ResolveApprovalsSuite) AfterTest(_, _ string) {
	s.env.AssertExpectations(s.T())
}

func request(exact bool) modal.ApprovalRequest {
	return modal.ApprovalRequest{
		Owner:         owner,
		Signer:        signer,
		ExactApproval: exact,
		Requirements: []modal.Requirement{
			{Item: modal.Item{ItemType: modal.ItemERC721, Token: nft, IdentifierOrCriteria: big.NewInt(5)}, Operator: operator, Amount: big.NewInt(1)},
			{Item: modal.Item{ItemType: modal.ItemERC20, Token: coin, IdentifierOrCriteria: big.NewInt(0)}, Operator: operator, Amount: big.NewInt(600)},
			{Item: modal.Item{ItemType: modal.ItemNative}, Operator: operator, Amount: big.NewInt(1)},
			{Item: modal.Item{ItemType: modal.ItemERC20, Token: coin, IdentifierOrCriteria: big.NewInt(0)}, Operator: operator, Amount: big.NewInt(400)},
		},
	}
}

// chainState answers reads: the NFT is unapproved and the coin allowance is 500.
func chainState(_ context.Context, q activities.AmountQuery) (*big.Int, error) {
	if q.Item.ItemType == modal.ItemERC20 {
		return big.NewInt(500), nil
	}
	return big.NewInt(0), nil
}

func (s *ResolveApprovalsSuite) Test_BuildsExactActions() {
	s.env.OnActivity(ApprovedAmountActivity, mock.Anything, mock.Anything).Return(chainState).Times(2)

	s.env.ExecuteWorkflow(ResolveApprovals, request(true))

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var plan modal.ApprovalPlan
	s.NoError(s.env.GetWorkflowResult(&plan))
	s.Require().Len(plan.Actions, 2)

	s.Equal(nft, plan.Actions[0].Token)
	s.Equal(modal.MethodApprove, plan.Actions[0].Invocation.Method())
	s.Require().NotNil(plan.Actions[0].Invocation.Approve)
	s.Equal(int64(5), plan.Actions[0].Invocation.Approve.TokenID.Int64())

	s.Equal(coin, plan.Actions[1].Token)
	s.Require().NotNil(plan.Actions[1].Invocation.Allowance)
	s.Equal(int64(1000), plan.Actions[1].Invocation.Allowance.Amount.Int64())
	s.Equal(signer, plan.Actions[1].Invocation.From)

	res, err := s.env.QueryWorkflow(CaseFileQuery)
	s.Require().NoError(err)
	var cf modal.ApprovalCase
	s.Require().NoError(res.Get(&cf))
	s.Equal(modal.CaseNeedsAction, cf.Status)
	s.Len(cf.Insufficient, 2)
}

func (s *ResolveApprovalsSuite) Test_BuildsUnlimitedActions() {
	s.env.OnActivity(ApprovedAmountActivity, mock.Anything, mock.Anything).Return(chainState)

	s.env.ExecuteWorkflow(ResolveApprovals, request(false))
	s.NoError(s.env.GetWorkflowError())

	var plan modal.ApprovalPlan
	s.NoError(s.env.GetWorkflowResult(&plan))
	s.Require().Len(plan.Actions, 2)
	s.Equal(modal.MethodSetApprovalForAll, plan.Actions[0].Invocation.Method())
	s.Equal(0, plan.Actions[1].Invocation.Allowance.Amount.Cmp(approval.MaxInt()))
}

func (s *ResolveApprovalsSuite) Test_AlreadyApproved() {
	s.env.OnActivity(ApprovedAmountActivity, mock.Anything, mock.Anything).Return(approval.MaxInt(), nil)

	s.env.ExecuteWorkflow(ResolveApprovals, request(true))
	s.NoError(s.env.GetWorkflowError())

	var plan modal.ApprovalPlan
	s.NoError(s.env.GetWorkflowResult(&plan))
	s.Empty(plan.Actions)

	res, err := s.env.QueryWorkflow(AuditLogQuery)
	s.Require().NoError(err)
	var audit []modal.AuditEvent
	s.Require().NoError(res.Get(&audit))
	s.Require().NotEmpty(audit)
	s.Equal("DONE", audit[len(audit)-1].Kind)
}

func (s *ResolveApprovalsSuite) Test_ReadFailure() {
	s.env.OnActivity(ApprovedAmountActivity, mock.Anything, mock.Anything).Return((*big.Int)(nil), errors.New("rpc unavailable"))

	s.env.ExecuteWorkflow(ResolveApprovals, request(true))

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Require().Error(err)
	s.Contains(err.Error(), "rpc unavailable")
}

func TestResolveApprovals_RejectsUnknownItemType(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterActivity(&activities.Activities{})

	env.ExecuteWorkflow(ResolveApprovals, modal.ApprovalRequest{
		Owner: owner,
		Requirements: []modal.Requirement{
			{Item: modal.Item{ItemType: modal.ItemType(9), Token: nft}, Operator: operator, Amount: big.NewInt(1)},
		},
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown item type")
}
