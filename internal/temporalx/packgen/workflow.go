package packgen

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/deloreyj/conversa/internal/domain"
	"github.com/deloreyj/conversa/internal/generation"
)

// Per-step activity options. Model steps get generous timeouts and backoff;
// persistence steps run exactly once so a crash between the DB write and the
// checkpoint cannot double-apply.
var (
	resolveOptions = workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 1.0,
			MaximumAttempts:    3,
		},
	}
	enhanceOptions = workflow.ActivityOptions{
		StartToCloseTimeout: 60 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    5,
		},
	}
	generateOptions = workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    10 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	}
	augmentOptions = workflow.ActivityOptions{
		StartToCloseTimeout: 3 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    10 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	}
	persistOptions = workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
)

// Workflow drives one generation run. Every step is a checkpointed activity;
// on replay after a crash, completed steps return their recorded results and
// no model call or DB write runs twice.
func Workflow(ctx workflow.Context, in Input) (Result, error) {
	log := workflow.GetLogger(ctx)

	var req generation.Request
	if err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, resolveOptions),
		ActivityResolveRequest, in.Payload,
	).Get(ctx, &req); err != nil {
		return Result{}, err
	}

	switch req.Mode {
	case generation.ModeNewPack:
		return runNewPack(ctx, req.New)
	case generation.ModeAppendCards:
		return runAppendCards(ctx, req.Append)
	default:
		log.Error("resolved request has unknown mode", "mode", req.Mode)
		return Result{}, temporal.NewNonRetryableApplicationError(
			"unknown request mode", ErrTypeAmbiguousRequest, nil)
	}
}

func runNewPack(ctx workflow.Context, req *generation.NewPackRequest) (Result, error) {
	var enhanced string
	if err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, enhanceOptions),
		ActivityEnhancePrompt, req.UserPrompt,
	).Get(ctx, &enhanced); err != nil {
		return Result{}, err
	}

	var pack generation.GeneratedPack
	if err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, generateOptions),
		ActivityGeneratePack, enhanced,
	).Get(ctx, &pack); err != nil {
		return Result{}, err
	}

	var saved SavedPack
	if err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, persistOptions),
		ActivitySavePack, SaveInput{
			OwnerID:    req.OwnerID,
			Visibility: req.Visibility,
			Pack:       pack,
		},
	).Get(ctx, &saved); err != nil {
		return Result{}, err
	}

	return Result{
		Mode:             generation.ModeNewPack,
		PackID:           saved.PackID,
		Slug:             saved.Slug,
		Title:            pack.Title,
		EstimatedMinutes: pack.EstimatedMinutes,
		CardsAdded:       len(pack.Cards),
		TotalCards:       len(pack.Cards),
	}, nil
}

func runAppendCards(ctx workflow.Context, req *generation.AppendCardsRequest) (Result, error) {
	var newCards []domain.Card
	if err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, augmentOptions),
		ActivityAugmentCards, AugmentInput{
			PackID:       req.PackID,
			Existing:     req.ExistingCards,
			Summary:      req.PackSummary,
			Count:        req.CountHint,
			CustomPrompt: req.CustomPrompt,
		},
	).Get(ctx, &newCards); err != nil {
		return Result{}, err
	}

	var merged MergeResult
	if err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, persistOptions),
		ActivityMergeCards, MergeInput{
			PackID: req.PackID,
			Cards:  newCards,
		},
	).Get(ctx, &merged); err != nil {
		return Result{}, err
	}

	return Result{
		Mode:       generation.ModeAppendCards,
		PackID:     req.PackID,
		CardsAdded: merged.Added,
		TotalCards: merged.TotalCards,
	}, nil
}
