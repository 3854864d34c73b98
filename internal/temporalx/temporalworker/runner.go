package temporalworker

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/deloreyj/conversa/internal/pkg/logger"
	"github.com/deloreyj/conversa/internal/temporalx"
	"github.com/deloreyj/conversa/internal/temporalx/packgen"
	"github.com/deloreyj/conversa/internal/utils"
)

type Runner struct {
	log  *logger.Logger
	tc   temporalsdkclient.Client
	acts *packgen.Activities
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, acts *packgen.Activities) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if acts == nil {
		return nil, fmt.Errorf("temporal worker missing activities")
	}
	return &Runner{log: log, tc: tc, acts: acts}, nil
}

// Start brings up the worker with a bounded retry loop so a worker booted
// alongside a fresh Temporal container does not crash-loop.
func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}

	cfg := temporalx.LoadConfig()
	if r.log != nil {
		r.log.Info("Starting Temporal worker", "address", cfg.Address, "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)
	}

	const (
		maxWait    = 60 * time.Second
		backoff    = 250 * time.Millisecond
		backoffMax = 5 * time.Second
	)
	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		w := r.newWorker(cfg)
		startErr := w.Start()
		if startErr == nil {
			if ctx != nil {
				go func() {
					<-ctx.Done()
					w.Stop()
				}()
			}
			if r.log != nil {
				r.log.Info("Temporal worker started", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "attempts", attempt)
			}
			return nil
		}
		w.Stop()

		if time.Now().After(deadline) {
			return startErr
		}
		if r.log != nil {
			r.log.Warn("Temporal worker failed to start; retrying", "attempt", attempt, "error", startErr)
		}

		sleep := backoff
		for i := 1; i < attempt; i++ {
			sleep *= 2
			if sleep >= backoffMax {
				sleep = backoffMax
				break
			}
		}
		time.Sleep(sleep)
	}
}

func (r *Runner) newWorker(cfg temporalx.Config) worker.Worker {
	concurrency := utils.GetEnvAsInt("WORKER_CONCURRENCY", 4, r.log)
	if concurrency < 1 {
		concurrency = 1
	}

	w := worker.New(r.tc, cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	w.RegisterWorkflowWithOptions(packgen.Workflow, workflow.RegisterOptions{Name: packgen.WorkflowName})
	w.RegisterActivityWithOptions(r.acts.ResolveRequest, activity.RegisterOptions{Name: packgen.ActivityResolveRequest})
	w.RegisterActivityWithOptions(r.acts.EnhancePrompt, activity.RegisterOptions{Name: packgen.ActivityEnhancePrompt})
	w.RegisterActivityWithOptions(r.acts.GeneratePack, activity.RegisterOptions{Name: packgen.ActivityGeneratePack})
	w.RegisterActivityWithOptions(r.acts.AugmentCards, activity.RegisterOptions{Name: packgen.ActivityAugmentCards})
	w.RegisterActivityWithOptions(r.acts.SavePack, activity.RegisterOptions{Name: packgen.ActivitySavePack})
	w.RegisterActivityWithOptions(r.acts.MergeCards, activity.RegisterOptions{Name: packgen.ActivityMergeCards})
	return w
}
