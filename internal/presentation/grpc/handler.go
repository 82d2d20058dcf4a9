package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/kushwaha-yash/loan-risk/internal/application/dto"
	"github.com/kushwaha-yash/loan-risk/internal/application/usecase"
	"github.com/kushwaha-yash/loan-risk/internal/domain/port"
	"github.com/kushwaha-yash/loan-risk/internal/domain/service"
)

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	submitAssessment *usecase.SubmitAssessment
	getAssessment    *usecase.GetAssessment
	listAssessments  *usecase.ListAssessments
	listQuestions    *usecase.ListQuestions
	logger           *slog.Logger
}

// NewRiskServiceHandler creates a new gRPC handler.
func NewRiskServiceHandler(
	submitAssessment *usecase.SubmitAssessment,
	getAssessment *usecase.GetAssessment,
	listAssessments *usecase.ListAssessments,
	listQuestions *usecase.ListQuestions,
	logger *slog.Logger,
) *RiskServiceHandler {
	return &RiskServiceHandler{
		submitAssessment: submitAssessment,
		getAssessment:    getAssessment,
		listAssessments:  listAssessments,
		listQuestions:    listQuestions,
		logger:           logger,
	}
}

// Proto-aligned request/response message types.

type AssessApplicantRequest struct {
	Answers     map[string]any `json:"answers"`
	ApplicantID string         `json:"applicant_id"`
}

type FeatureMsg struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// AssessmentMsg represents the proto Assessment message.
type AssessmentMsg struct {
	ID             string                 `json:"id"`
	ApplicantID    string                 `json:"applicant_id"`
	Risk           string                 `json:"risk"`
	Recommendation string                 `json:"recommendation"`
	ModelVersion   string                 `json:"model_version"`
	AssessedAt     *timestamppb.Timestamp `json:"assessed_at"`
	Features       []FeatureMsg           `json:"features"`
	Probability    float64                `json:"probability"`
}

type AssessApplicantResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

type GetAssessmentRequest struct {
	ID string `json:"id"`
}

type GetAssessmentResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

type ListAssessmentsRequest struct {
	ApplicantID string `json:"applicant_id"`
	Limit       int32  `json:"limit"`
	Offset      int32  `json:"offset"`
}

type ListAssessmentsResponse struct {
	Assessments []*AssessmentMsg `json:"assessments"`
}

type ListQuestionsRequest struct{}

type QuestionOptionMsg struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type QuestionMsg struct {
	Key         string              `json:"key"`
	Question    string              `json:"question"`
	Type        string              `json:"type"`
	Placeholder string              `json:"placeholder,omitempty"`
	Options     []QuestionOptionMsg `json:"options,omitempty"`
}

type ListQuestionsResponse struct {
	Questions []QuestionMsg `json:"questions"`
}

// AssessApplicant scores an applicant's questionnaire answers.
func (h *RiskServiceHandler) AssessApplicant(ctx context.Context, req *AssessApplicantRequest) (*AssessApplicantResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	applicantID, err := uuid.Parse(req.ApplicantID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid applicant_id: %v", err)
	}

	result, err := h.submitAssessment.Execute(ctx, dto.SubmitAssessmentRequest{
		ApplicantID: applicantID,
		Answers:     req.Answers,
	})
	if err != nil {
		return nil, h.toStatus(err, "failed to assess applicant", slog.String("applicant_id", applicantID.String()))
	}

	return &AssessApplicantResponse{Assessment: toAssessmentMsg(result)}, nil
}

// GetAssessment returns a stored assessment.
func (h *RiskServiceHandler) GetAssessment(ctx context.Context, req *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	assessmentID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getAssessment.Execute(ctx, dto.GetAssessmentRequest{AssessmentID: assessmentID})
	if err != nil {
		return nil, h.toStatus(err, "failed to get assessment", slog.String("assessment_id", assessmentID.String()))
	}

	return &GetAssessmentResponse{Assessment: toAssessmentMsg(result)}, nil
}

// ListAssessments pages through an applicant's assessments, newest first.
func (h *RiskServiceHandler) ListAssessments(ctx context.Context, req *ListAssessmentsRequest) (*ListAssessmentsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	applicantID, err := uuid.Parse(req.ApplicantID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid applicant_id: %v", err)
	}

	result, err := h.listAssessments.Execute(ctx, dto.ListAssessmentsRequest{
		ApplicantID: applicantID,
		Limit:       int(req.Limit),
		Offset:      int(req.Offset),
	})
	if err != nil {
		return nil, h.toStatus(err, "failed to list assessments", slog.String("applicant_id", applicantID.String()))
	}

	resp := &ListAssessmentsResponse{Assessments: make([]*AssessmentMsg, 0, len(result.Assessments))}
	for _, a := range result.Assessments {
		resp.Assessments = append(resp.Assessments, toAssessmentMsg(a))
	}
	return resp, nil
}

// ListQuestions returns the applicant questionnaire.
func (h *RiskServiceHandler) ListQuestions(ctx context.Context, _ *ListQuestionsRequest) (*ListQuestionsResponse, error) {
	qs := h.listQuestions.Execute(ctx)

	resp := &ListQuestionsResponse{Questions: make([]QuestionMsg, 0, len(qs))}
	for _, q := range qs {
		msg := QuestionMsg{Key: q.Key, Question: q.Question, Type: q.Type, Placeholder: q.Placeholder}
		for _, o := range q.Options {
			msg.Options = append(msg.Options, QuestionOptionMsg{Label: o.Label, Value: o.Value})
		}
		resp.Questions = append(resp.Questions, msg)
	}
	return resp, nil
}

// toStatus maps application errors to gRPC codes. Only input errors echo
// their message; everything else is logged and reported as internal.
func (h *RiskServiceHandler) toStatus(err error, msg string, attrs ...any) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrAssessmentNotFound):
		return status.Error(codes.NotFound, "assessment not found")
	case service.KindOf(err) == service.KindInvalidInput:
		return status.Error(codes.InvalidArgument, err.Error())
	}

	h.logger.Error(msg, append(attrs, slog.String("error", err.Error()))...)
	return status.Error(codes.Internal, "internal error")
}

func toAssessmentMsg(a dto.AssessmentResponse) *AssessmentMsg {
	msg := &AssessmentMsg{
		ID:             a.ID.String(),
		ApplicantID:    a.ApplicantID.String(),
		Risk:           a.Risk,
		Recommendation: a.Recommendation,
		Probability:    a.Probability,
		ModelVersion:   a.ModelVersion,
		AssessedAt:     timestamppb.New(a.AssessedAt),
		Features:       make([]FeatureMsg, 0, len(a.Features)),
	}
	for _, f := range a.Features {
		msg.Features = append(msg.Features, FeatureMsg{Name: f.Name, Value: f.Value})
	}
	return msg
}
