package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
	"github.com/kushwaha-yash/loan-risk/internal/domain/port"
	"github.com/kushwaha-yash/loan-risk/internal/domain/valueobject"
	pkgpostgres "github.com/kushwaha-yash/loan-risk/pkg/postgres"
)

const uniqueViolation = "23505"

const selectAssessment = `
	SELECT id, applicant_id, risk_tier, recommendation, probability,
		model_version, assessed_at, created_at
	FROM loan_assessments`

// AssessmentRepository implements port.AssessmentRepository using PostgreSQL.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository creates a new PostgreSQL-backed assessment repository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

// Save inserts an assessment and its scored answers in one transaction.
// Assessments are immutable; saving the same ID twice returns
// port.ErrAssessmentExists.
func (r *AssessmentRepository) Save(ctx context.Context, assessment *model.LoanAssessment) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO loan_assessments (
				id, applicant_id, risk_tier, recommendation, probability,
				model_version, assessed_at, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			assessment.ID(),
			assessment.ApplicantID(),
			assessment.Tier().String(),
			assessment.Recommendation(),
			decimal.NewFromFloat(assessment.Probability()),
			assessment.ModelVersion(),
			assessment.AssessedAt(),
			assessment.CreatedAt(),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("%w: %s", port.ErrAssessmentExists, assessment.ID())
			}
			return fmt.Errorf("failed to save assessment: %w", err)
		}

		batch := &pgx.Batch{}
		for i, f := range assessment.Features() {
			batch.Queue(
				`INSERT INTO assessment_features (assessment_id, position, name, value) VALUES ($1, $2, $3, $4)`,
				assessment.ID(), i, f.Name, f.Value,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save assessment features: %w", err)
		}
		return nil
	})
}

// FindByID retrieves an assessment by its unique identifier.
func (r *AssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LoanAssessment, error) {
	a, err := scanAssessment(r.pool.QueryRow(ctx, selectAssessment+` WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	features, err := r.loadFeatures(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	return a.build(features[id]), nil
}

// FindByApplicantID lists an applicant's assessments, newest first.
func (r *AssessmentRepository) FindByApplicantID(ctx context.Context, applicantID uuid.UUID, limit, offset int) ([]*model.LoanAssessment, error) {
	rows, err := r.pool.Query(ctx,
		selectAssessment+` WHERE applicant_id = $1 ORDER BY assessed_at DESC LIMIT $2 OFFSET $3`,
		applicantID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var (
		found []assessmentRow
		ids   []uuid.UUID
	)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, a)
		ids = append(ids, a.id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	features, err := r.loadFeatures(ctx, ids)
	if err != nil {
		return nil, err
	}

	assessments := make([]*model.LoanAssessment, 0, len(found))
	for _, a := range found {
		assessments = append(assessments, a.build(features[a.id]))
	}
	return assessments, nil
}

func (r *AssessmentRepository) loadFeatures(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]model.FeatureValue, error) {
	out := make(map[uuid.UUID][]model.FeatureValue, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT assessment_id, name, value
		FROM assessment_features
		WHERE assessment_id = ANY($1)
		ORDER BY assessment_id, position`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment features: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id uuid.UUID
			fv model.FeatureValue
		)
		if err := rows.Scan(&id, &fv.Name, &fv.Value); err != nil {
			return nil, fmt.Errorf("failed to scan assessment feature: %w", err)
		}
		out[id] = append(out[id], fv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessment features: %w", err)
	}
	return out, nil
}

type assessmentRow struct {
	assessedAt     time.Time
	createdAt      time.Time
	tier           valueobject.RiskTier
	recommendation string
	modelVersion   string
	probability    decimal.Decimal
	id             uuid.UUID
	applicantID    uuid.UUID
}

func (a assessmentRow) build(features []model.FeatureValue) *model.LoanAssessment {
	return model.ReconstructLoanAssessment(
		a.id, a.applicantID, features,
		a.tier, a.recommendation, a.probability.InexactFloat64(),
		a.modelVersion, a.assessedAt.UTC(), a.createdAt.UTC(),
	)
}

func scanAssessment(row pgx.Row) (assessmentRow, error) {
	var (
		a       assessmentRow
		tierStr string
	)
	err := row.Scan(
		&a.id, &a.applicantID, &tierStr, &a.recommendation, &a.probability,
		&a.modelVersion, &a.assessedAt, &a.createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assessmentRow{}, port.ErrAssessmentNotFound
		}
		return assessmentRow{}, fmt.Errorf("failed to scan assessment: %w", err)
	}

	a.tier, err = valueobject.RiskTierFromString(tierStr)
	if err != nil {
		return assessmentRow{}, fmt.Errorf("failed to parse risk tier: %w", err)
	}
	return a, nil
}
