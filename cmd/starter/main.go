package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"approval-service/internal/api"
	"approval-service/internal/config"
	"approval-service/internal/logging"
	"approval-service/internal/modal"
	"approval-service/internal/workflows"
)

type resolveOptions struct {
	configPath string
	itemsPath  string
	owner      string
	signer     string
	exact      bool
	wait       time.Duration
}

// Starts a resolution workflow from the command line and prints the plan.
func main() {
	root := &cobra.Command{
		Use:   "starter",
		Short: "Start approval resolution workflows",
	}
	root.AddCommand(newResolveCommand())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newResolveCommand() *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:          "resolve",
		Short:        "Check approvals for a set of items and print the approval actions needed",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to YAML config")
	cmd.Flags().StringVar(&opts.itemsPath, "items", "", "YAML file listing the items to transfer")
	cmd.Flags().StringVar(&opts.owner, "owner", "", "address owning the items")
	cmd.Flags().StringVar(&opts.signer, "signer", "", "address that will sign approvals (defaults to owner)")
	cmd.Flags().BoolVar(&opts.exact, "exact", false, "approve exact amounts and single tokens instead of unlimited grants")
	cmd.Flags().DurationVar(&opts.wait, "wait", 30*time.Second, "how long to wait for the plan")
	_ = cmd.MarkFlagRequired("items")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func runResolve(cmd *cobra.Command, opts *resolveOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	req, err := opts.request()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    logging.NewTemporalLogger(logger),
	})
	if err != nil {
		return fmt.Errorf("unable to create Temporal client: %w", err)
	}
	defer c.Close()

	startOpts := client.StartWorkflowOptions{
		ID:                                       api.WorkflowIDPrefix + uuid.NewString(),
		TaskQueue:                                cfg.Temporal.TaskQueue,
		WorkflowExecutionTimeout:                 1 * time.Minute,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
		WorkflowIDReusePolicy:                    enums.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.wait)
	defer cancel()

	we, err := c.ExecuteWorkflow(ctx, startOpts, workflows.ResolveApprovals, req)
	if err != nil {
		return fmt.Errorf("unable to execute workflow: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "started workflow: WorkflowID=%s RunID=%s\n", we.GetID(), we.GetRunID())

	var plan modal.ApprovalPlan
	if err := we.Get(ctx, &plan); err != nil {
		return fmt.Errorf("unable to get workflow result: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

func (o *resolveOptions) request() (modal.ApprovalRequest, error) {
	if !common.IsHexAddress(o.owner) {
		return modal.ApprovalRequest{}, fmt.Errorf("owner %q is not an address", o.owner)
	}
	signer := o.signer
	if signer == "" {
		signer = o.owner
	}
	if !common.IsHexAddress(signer) {
		return modal.ApprovalRequest{}, fmt.Errorf("signer %q is not an address", signer)
	}

	reqs, err := loadRequirements(o.itemsPath)
	if err != nil {
		return modal.ApprovalRequest{}, err
	}

	return modal.ApprovalRequest{
		Owner:         common.HexToAddress(o.owner),
		Signer:        common.HexToAddress(signer),
		Requirements:  reqs,
		ExactApproval: o.exact,
	}, nil
}
