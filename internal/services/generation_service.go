package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/deloreyj/conversa/internal/generation"
	"github.com/deloreyj/conversa/internal/pkg/ctxutil"
	"github.com/deloreyj/conversa/internal/pkg/logger"
	"github.com/deloreyj/conversa/internal/temporalx/packgen"
)

var (
	ErrTemporalDisabled = errors.New("temporal not configured (TEMPORAL_ADDRESS)")
	ErrRunNotFound      = errors.New("generation run not found")
)

const (
	RunStatusRunning  = "running"
	RunStatusComplete = "complete"
	RunStatusErrored  = "errored"
)

// RunStatus is the normalized view of a workflow execution. Result is set
// only when Status is complete; Error only when errored.
type RunStatus struct {
	RunID  string          `json:"run_id"`
	Status string          `json:"status"`
	Result *packgen.Result `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type GenerationService interface {
	Start(ctx context.Context, payload generation.Payload) (string, error)
	Status(ctx context.Context, runID string) (*RunStatus, error)
}

type generationService struct {
	log       *logger.Logger
	temporal  temporalsdkclient.Client
	taskQueue string
}

func NewGenerationService(baseLog *logger.Logger, tc temporalsdkclient.Client, taskQueue string) GenerationService {
	return &generationService{
		log:       baseLog.With("service", "GenerationService"),
		temporal:  tc,
		taskQueue: strings.TrimSpace(taskQueue),
	}
}

// Start validates the payload up front so malformed requests never create a
// run, then kicks off the workflow. The run id doubles as the workflow id;
// the reject-duplicate policy makes retried kickoffs harmless.
func (s *generationService) Start(ctx context.Context, payload generation.Payload) (string, error) {
	ctx = ctxutil.Default(ctx)
	if s.temporal == nil {
		return "", ErrTemporalDisabled
	}
	if _, err := generation.Resolve(payload); err != nil {
		return "", err
	}

	runID := uuid.NewString()
	opts := temporalsdkclient.StartWorkflowOptions{
		ID:                    runID,
		TaskQueue:             s.taskQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	if _, err := s.temporal.ExecuteWorkflow(ctx, opts, packgen.WorkflowName, packgen.Input{Payload: payload}); err != nil {
		return "", fmt.Errorf("start generation workflow: %w", err)
	}

	s.log.Info("started generation run", "run_id", runID)
	return runID, nil
}

func (s *generationService) Status(ctx context.Context, runID string) (*RunStatus, error) {
	ctx = ctxutil.Default(ctx)
	if s.temporal == nil {
		return nil, ErrTemporalDisabled
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, ErrRunNotFound
	}

	desc, err := s.temporal.DescribeWorkflowExecution(ctx, runID, "")
	if err != nil {
		var nfe *serviceerror.NotFound
		if errors.As(err, &nfe) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("describe generation run: %w", err)
	}

	out := &RunStatus{RunID: runID}
	switch desc.GetWorkflowExecutionInfo().GetStatus() {
	case enums.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		out.Status = RunStatusComplete
		var result packgen.Result
		if err := s.temporal.GetWorkflow(ctx, runID, "").Get(ctx, &result); err != nil {
			return nil, fmt.Errorf("fetch generation result: %w", err)
		}
		out.Result = &result
	case enums.WORKFLOW_EXECUTION_STATUS_FAILED,
		enums.WORKFLOW_EXECUTION_STATUS_CANCELED,
		enums.WORKFLOW_EXECUTION_STATUS_TERMINATED,
		enums.WORKFLOW_EXECUTION_STATUS_TIMED_OUT:
		out.Status = RunStatusErrored
		if err := s.temporal.GetWorkflow(ctx, runID, "").Get(ctx, nil); err != nil {
			out.Error = err.Error()
		}
	default:
		out.Status = RunStatusRunning
	}
	return out, nil
}
