// Package memory provides process-local adapters used when the service runs
// without PostgreSQL or Kafka.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
	"github.com/kushwaha-yash/loan-risk/internal/domain/port"
)

// AssessmentRepository keeps the most recent assessments in a map. Once limit
// is reached the oldest save is evicted. Contents are lost on restart.
type AssessmentRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*model.LoanAssessment
	order []uuid.UUID
	limit int
}

// NewAssessmentRepository keeps at most limit assessments; limit <= 0 means unbounded.
func NewAssessmentRepository(limit int) *AssessmentRepository {
	return &AssessmentRepository{byID: make(map[uuid.UUID]*model.LoanAssessment), limit: limit}
}

func (r *AssessmentRepository) Save(_ context.Context, a *model.LoanAssessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID()]; exists {
		return fmt.Errorf("%w: %s", port.ErrAssessmentExists, a.ID())
	}
	if r.limit > 0 && len(r.order) >= r.limit {
		evicted := r.order[0]
		r.order = r.order[1:]
		delete(r.byID, evicted)
	}
	r.order = append(r.order, a.ID())
	r.byID[a.ID()] = snapshot(a)
	return nil
}

// Len reports how many assessments are held.
func (r *AssessmentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *AssessmentRepository) FindByID(_ context.Context, id uuid.UUID) (*model.LoanAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, port.ErrAssessmentNotFound
	}
	return snapshot(a), nil
}

func (r *AssessmentRepository) FindByApplicantID(_ context.Context, applicantID uuid.UUID, limit, offset int) ([]*model.LoanAssessment, error) {
	r.mu.RLock()
	var matched []*model.LoanAssessment
	for i := len(r.order) - 1; i >= 0; i-- {
		if a := r.byID[r.order[i]]; a.ApplicantID() == applicantID {
			matched = append(matched, snapshot(a))
		}
	}
	r.mu.RUnlock()

	// Ties keep the latest save first.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].AssessedAt().After(matched[j].AssessedAt())
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// snapshot copies a without its pending events.
func snapshot(a *model.LoanAssessment) *model.LoanAssessment {
	return model.ReconstructLoanAssessment(
		a.ID(), a.ApplicantID(), a.Features(),
		a.Tier(), a.Recommendation(), a.Probability(),
		a.ModelVersion(), a.AssessedAt(), a.CreatedAt(),
	)
}
