package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kushwaha-yash/loan-risk/internal/application/dto"
	"github.com/kushwaha-yash/loan-risk/internal/application/usecase"
	"github.com/kushwaha-yash/loan-risk/internal/domain/port"
	"github.com/kushwaha-yash/loan-risk/internal/domain/service"
)

const maxBodyBytes = 64 << 10

// AssessmentHandler serves the assessment and questionnaire API.
type AssessmentHandler struct {
	submitAssessment *usecase.SubmitAssessment
	getAssessment    *usecase.GetAssessment
	listAssessments  *usecase.ListAssessments
	listQuestions    *usecase.ListQuestions
	submitLimiter    *rate.Limiter
	logger           *slog.Logger
}

func NewAssessmentHandler(
	submitAssessment *usecase.SubmitAssessment,
	getAssessment *usecase.GetAssessment,
	listAssessments *usecase.ListAssessments,
	listQuestions *usecase.ListQuestions,
	logger *slog.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		submitAssessment: submitAssessment,
		getAssessment:    getAssessment,
		listAssessments:  listAssessments,
		listQuestions:    listQuestions,
		logger:           logger,
	}
}

// LimitSubmissions throttles POST /v1/assessments. A nil limiter disables it.
func (h *AssessmentHandler) LimitSubmissions(limiter *rate.Limiter) *AssessmentHandler {
	h.submitLimiter = limiter
	return h
}

// RegisterRoutes mounts the v1 API on r.
func (h *AssessmentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		if h.submitLimiter != nil {
			r.With(RateLimit(h.submitLimiter)).Post("/assessments", h.submit)
		} else {
			r.Post("/assessments", h.submit)
		}
		r.Get("/assessments/{id}", h.get)
		r.Get("/applicants/{id}/assessments", h.list)
		r.Get("/questions", h.questions)
	})
}

type errResp struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type questionsResp struct {
	Questions []dto.QuestionResponse `json:"questions"`
}

func (h *AssessmentHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitAssessmentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid JSON body: " + err.Error()})
		return
	}

	resp, err := h.submitAssessment.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *AssessmentHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid assessment id"})
		return
	}

	resp, err := h.getAssessment.Execute(r.Context(), dto.GetAssessmentRequest{AssessmentID: id})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AssessmentHandler) list(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid applicant id"})
		return
	}

	req := dto.ListAssessmentsRequest{ApplicantID: id}
	if req.Limit, err = queryInt(r, "limit"); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error()})
		return
	}
	if req.Offset, err = queryInt(r, "offset"); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error()})
		return
	}

	resp, err := h.listAssessments.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AssessmentHandler) questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, questionsResp{Questions: h.listQuestions.Execute(r.Context())})
}

// writeError maps application errors to status codes. Invalid answers are
// 422 with the message (it names the feature); internal detail is only logged.
func (h *AssessmentHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error()})
	case errors.Is(err, port.ErrAssessmentNotFound):
		writeJSON(w, http.StatusNotFound, errResp{Error: "assessment not found"})
	case service.KindOf(err) == service.KindInvalidInput:
		writeJSON(w, http.StatusUnprocessableEntity, errResp{Error: err.Error(), Kind: string(service.KindInvalidInput)})
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, errResp{Error: "internal error", Kind: string(service.KindSystemFault)})
	}
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + key + " parameter")
	}
	return v, nil
}
