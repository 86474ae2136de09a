package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"maturity/internal/domain"
	"maturity/internal/engine"
	"maturity/internal/identity"
	"maturity/internal/logger"
	"maturity/internal/matching"
	"maturity/internal/ports"
	"maturity/internal/scoring"
	"maturity/internal/workers/assessrunner"
)

const (
	maxBody        = 4 << 20
	defaultWait    = 30 * time.Second
	maxBatchInputs = 500
)

// Server exposes the pure engine operations and the stored-roster services.
type Server struct {
	stakeholders ports.Stakeholders
	assessments  ports.Assessments
	profiles     ports.Profiles
	surveys      ports.Surveys
	engine       *engine.Engine
	log          *logger.Logger
}

type Deps struct {
	Stakeholders ports.Stakeholders
	Assessments  ports.Assessments
	Profiles     ports.Profiles
	Surveys      ports.Surveys
	Engine       *engine.Engine
	Log          *logger.Logger
}

func New(d Deps) *Server {
	if d.Engine == nil {
		d.Engine = engine.New()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &Server{
		stakeholders: d.Stakeholders,
		assessments:  d.Assessments,
		profiles:     d.Profiles,
		surveys:      d.Surveys,
		engine:       d.Engine,
		log:          d.Log,
	}
}

// Routes returns a chi.Router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.validate)
		r.Post("/match", s.match)
		r.Post("/assess", s.assess)
		r.Post("/assess/batch", s.assessBatch)
		r.Post("/surveys", s.intakeSurvey)
		r.Get("/surveys/unmatched", s.unmatchedSurveys)
		r.Get("/stakeholders", s.listStakeholders)
		r.Post("/stakeholders/{id}/assessments", s.enqueueAssessment)
		r.Get("/stakeholders/{id}/assessment", s.latestAssessment)
		r.Get("/jobs/{id}", s.jobStatus)
	})
	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type validateRequest struct {
	URL      string               `json:"url"`
	Name     string               `json:"name"`
	Platform domain.Platform      `json:"platform,omitempty"`
	Page     *domain.PageFeatures `json:"page,omitempty"`
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, identity.Validate(req.URL, req.Name, req.Platform, req.Page))
}

type matchRequest struct {
	Response domain.SurveyResponse `json:"response"`
	Roster   []domain.EntityRecord `json:"roster"`
}

func (s *Server) match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, matching.Match(req.Response, req.Roster))
}

func (s *Server) assess(w http.ResponseWriter, r *http.Request) {
	var in engine.Input
	if !s.decode(w, r, &in) {
		return
	}
	report, err := s.engine.Evaluate(in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type batchRequest struct {
	Inputs      []engine.Input `json:"inputs"`
	Concurrency int            `json:"concurrency,omitempty"`
}

func (s *Server) assessBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Inputs) > maxBatchInputs {
		writeProblem(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d inputs per batch", maxBatchInputs))
		return
	}
	if req.Concurrency < 1 {
		req.Concurrency = 4
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": assessrunner.Batch(r.Context(), s.engine, req.Inputs, req.Concurrency),
	})
}

func (s *Server) intakeSurvey(w http.ResponseWriter, r *http.Request) {
	var resp domain.SurveyResponse
	if !s.decode(w, r, &resp) {
		return
	}
	res, err := s.surveys.Intake(r.Context(), resp)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) unmatchedSurveys(w http.ResponseWriter, r *http.Request) {
	list, err := s.surveys.Unmatched(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []ports.StoredSurvey{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"surveys": list})
}

func (s *Server) listStakeholders(w http.ResponseWriter, r *http.Request) {
	list, err := s.stakeholders.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.EntityRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"stakeholders": list})
}

func (s *Server) enqueueAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	jobID, err := s.assessments.Enqueue(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if !wait {
		writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
		return
	}

	timeout := defaultWait
	if v, err := strconv.Atoi(r.URL.Query().Get("timeout")); err == nil && v > 0 {
		timeout = time.Duration(v) * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()
	rec, err := s.assessments.RunInline(ctx, jobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) latestAssessment(w http.ResponseWriter, r *http.Request) {
	rec, err := s.profiles.GetLatest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) jobStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.assessments.Job(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	writeProblem(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scoring.ErrUnknownSectorType), errors.Is(err, scoring.ErrInvalidScore):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeProblem(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
