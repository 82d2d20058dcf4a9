package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kushwaha-yash/loan-risk/internal/application/dto"
	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
	"github.com/kushwaha-yash/loan-risk/internal/domain/port"
	"github.com/kushwaha-yash/loan-risk/internal/domain/service"
)

// MetricsRecorder is satisfied by *observability.AssessmentMetrics.
type MetricsRecorder interface {
	RecordVerdict(ctx context.Context, tier string, defaultProbability float64)
	RecordFailure(ctx context.Context, kind string)
}

type nopMetrics struct{}

func (nopMetrics) RecordVerdict(context.Context, string, float64) {}
func (nopMetrics) RecordFailure(context.Context, string)          {}

// SubmitAssessment scores an applicant's answers and records the verdict.
type SubmitAssessment struct {
	pipeline  *service.Pipeline
	repo      port.AssessmentRepository
	publisher port.EventPublisher
	metrics   MetricsRecorder
	logger    *slog.Logger
}

// NewSubmitAssessment creates a new SubmitAssessment use case. metrics may be nil.
func NewSubmitAssessment(
	pipeline *service.Pipeline,
	repo port.AssessmentRepository,
	publisher port.EventPublisher,
	metrics MetricsRecorder,
	logger *slog.Logger,
) *SubmitAssessment {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &SubmitAssessment{
		pipeline:  pipeline,
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute runs the pipeline, persists the assessment and publishes its events.
// Nothing is stored when the pipeline fails; the *service.AssessmentError is
// returned unchanged. A failed publish is logged and does not fail the call,
// since the assessment is already stored.
func (uc *SubmitAssessment) Execute(ctx context.Context, req dto.SubmitAssessmentRequest) (dto.AssessmentResponse, error) {
	if req.ApplicantID == uuid.Nil {
		return dto.AssessmentResponse{}, fmt.Errorf("%w: applicant_id is required", ErrInvalidRequest)
	}

	// 1. Run the pipeline.
	out, err := uc.pipeline.Evaluate(ctx, req.Answers)
	if err != nil {
		kind := service.KindOf(err)
		uc.metrics.RecordFailure(ctx, string(kind))
		uc.logger.WarnContext(ctx, "assessment rejected",
			slog.String("applicant_id", req.ApplicantID.String()),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		return dto.AssessmentResponse{}, err
	}

	// 2. Create the assessment aggregate.
	assessment, err := model.NewLoanAssessment(req.ApplicantID, out.Vector, out.Verdict, uc.pipeline.Bundle().Version())
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to create assessment: %w", err)
	}

	// 3. Persist the assessment.
	if err := uc.repo.Save(ctx, assessment); err != nil {
		uc.metrics.RecordFailure(ctx, string(service.KindSystemFault))
		return dto.AssessmentResponse{}, fmt.Errorf("failed to save assessment: %w", err)
	}

	uc.metrics.RecordVerdict(ctx, out.Verdict.Tier.String(), out.Verdict.DefaultProbability)

	// 4. Publish domain events.
	if evts := assessment.ClearEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			uc.logger.ErrorContext(ctx, "failed to publish assessment events",
				slog.String("assessment_id", assessment.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}

	uc.logger.InfoContext(ctx, "assessment recorded",
		slog.String("assessment_id", assessment.ID().String()),
		slog.String("tier", assessment.Tier().String()),
		slog.Float64("probability", assessment.Probability()),
	)

	return dto.FromModel(assessment), nil
}
