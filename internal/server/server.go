// Package server exposes the report service as JSON over HTTP. Identity
// verification happens in front of this backend; the Authenticator hands a
// verified identity in and every report handler runs with it on the context.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"connectrpc.com/connect"

	"github.com/finanzas-app/backend/internal/auth"
	"github.com/finanzas-app/backend/internal/model"
	"github.com/finanzas-app/backend/internal/service"
)

// Authenticator resolves the caller's identity from a request.
type Authenticator interface {
	Authenticate(r *http.Request) (*auth.UserClaims, error)
}

// LocalDevAuthenticator stamps every request with the local development
// identity. Used when the backend runs without a token verifier.
type LocalDevAuthenticator struct{}

func (LocalDevAuthenticator) Authenticate(*http.Request) (*auth.UserClaims, error) {
	return auth.LocalDevClaims(), nil
}

// HeaderAuthenticator trusts identity headers set by an upstream proxy that
// already verified the caller's token.
type HeaderAuthenticator struct{}

func (HeaderAuthenticator) Authenticate(r *http.Request) (*auth.UserClaims, error) {
	uid := r.Header.Get("X-User-Id")
	if uid == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errMissingIdentity)
	}
	return &auth.UserClaims{
		UID:         uid,
		Email:       r.Header.Get("X-User-Email"),
		DisplayName: r.Header.Get("X-User-Name"),
		Verified:    true,
	}, nil
}

var (
	errMissingIdentity  = errors.New("missing identity headers")
	errMethodNotAllowed = errors.New("method not allowed")
)

// Server routes report requests to the service.
type Server struct {
	svc   *service.ReportService
	authn Authenticator
}

// New builds a Server around the report service.
func New(svc *service.ReportService, authn Authenticator) *Server {
	return &Server{svc: svc, authn: authn}
}

// Handler returns the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	reports := map[string]func(http.ResponseWriter, *http.Request){
		"/v1/reports/category-summary":  s.handleCategorySummary,
		"/v1/reports/annual-summary":    s.handleAnnualSummary,
		"/v1/reports/stability-summary": s.handleStabilitySummary,
		"/v1/reports/budget-vs-actual":  s.handleBudgetVsActual,
		"/v1/reports/over-budget":       s.handleOverBudget,
		"/v1/reports/comparative":       s.handleComparative,
		"/v1/reports/comparative-items": s.handleComparativeItems,
		"/v1/reports/projection":        s.handleProjection,
		"/v1/reports/scenario":          s.handleScenario,
		"/v1/reports/multi-scenario":    s.handleMultiScenario,
		"/v1/reports/restock-forecast":  s.handleRestockForecast,
		"/v1/reports/goal-outlook":      s.handleGoalOutlook,
	}
	for path, h := range reports {
		mux.HandleFunc(path, s.withIdentity(h))
	}
	return mux
}

// withIdentity authenticates the request and puts the claims on the context.
func (s *Server) withIdentity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, connect.NewError(connect.CodeUnimplemented, errMethodNotAllowed))
			return
		}
		claims, err := s.authn.Authenticate(r)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r.WithContext(auth.WithUserClaims(r.Context(), claims)))
	}
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	q := params(r)
	req := service.CategorySummaryRequest{
		UserID: q.Get("user_id"),
		Year:   q.Int("year"),
		Month:  q.Int("month"),
		Type:   model.TransactionType(q.Get("type")),
	}
	if err := q.Err(); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.svc.GetCategorySummary(r.Context(), req)
	writeResult(w, resp, err)
}

func (s *Server) handleAnnualSummary(w http.ResponseWriter, r *http.Request) {
	q := params(r)
	year := q.Int("year")
	if err := q.Err(); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.svc.GetAnnualSummary(r.Context(), q.Get("user_id"), year)
	writeResult(w, resp, err)
}

func (s *Server) handleStabilitySummary(w http.ResponseWriter, r *http.Request) {
	q := params(r)
	req := service.StabilitySummaryRequest{
		UserID: q.Get("user_id"),
		Year:   q.Int("year"),
		Month:  q.Int("month"),
	}
	if err := q.Err(); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.svc.GetStabilitySummary(r.Context(), req)
	writeResult(w, resp, err)
}

func (s *Server) handleBudgetVsActual(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.svc.GetBudgetVsActual(r.Context(), q.Get("user_id"), q.Get("month"))
	writeResult(w, resp, err)
}

func (s *Server) handleOverBudget(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.svc.GetOverBudget(r.Context(), q.Get("user_id"), q.Get("month"))
	writeResult(w, resp, err)
}

func comparativeRequest(q *queryParams) service.ComparativeRequest {
	return service.ComparativeRequest{
		UserID: q.Get("user_id"),
		Year1:  q.Int("year1"),
		Month1: q.Int("month1"),
		Year2:  q.Int("year2"),
		Month2: q.Int("month2"),
	}
}

func (s *Server) handleComparative(w http.ResponseWriter, r *http.Request) {
	q := params(r)
	req := comparativeRequest(q)
	if err := q.Err(); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.svc.GetComparativeReport(r.Context(), req)
	writeResult(w, resp, err)
}

func (s *Server) handleComparativeItems(w http.ResponseWriter, r *http.Request) {
	q := params(r)
	var itemIDs []string
	if raw := q.Get("item_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				itemIDs = append(itemIDs, id)
			}
		}
	}
	req := service.ComparativeItemsRequest{
		ComparativeRequest: comparativeRequest(q),
		ItemIDs:            itemIDs,
	}
	if err := q.Err(); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.svc.GetComparativeItemsReport(r.Context(), req)
	writeResult(w, resp, err)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.svc.GetProjection(r.Context(), service.ProjectionRequest{
		UserID:        q.Get("user_id"),
		RecurringOnly: q.Get("recurring_only") == "true",
	})
	writeResult(w, resp, err)
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	q := params(r)
	req := service.ScenarioRequest{
		UserID:           q.Get("user_id"),
		IncomeDelta:      q.Float("income_delta"),
		StabilityType:    model.StabilityType(q.Get("stability_type")),
		PercentReduction: q.Float("percent_reduction"),
	}
	if err := q.Err(); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.svc.GetSimulatedScenario(r.Context(), req)
	writeResult(w, resp, err)
}

func (s *Server) handleMultiScenario(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.GetMultiScenarioProjection(r.Context(), r.URL.Query().Get("user_id"))
	writeResult(w, resp, err)
}

func (s *Server) handleRestockForecast(w http.ResponseWriter, r *http.Request) {
	q := params(r)
	req := service.RestockRequest{
		UserID: q.Get("user_id"),
		Months: q.Int("months"),
	}
	if err := q.Err(); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.svc.GetRestockForecast(r.Context(), req)
	writeResult(w, resp, err)
}

func (s *Server) handleGoalOutlook(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.GetGoalOutlook(r.Context(), r.URL.Query().Get("user_id"))
	writeResult(w, resp, err)
}

// queryParams reads query parameters, remembering the first malformed
// numeric value. Absent parameters read as zero so the service's own
// validation decides; a present-but-unparseable value is a validation error
// and the handler rejects the request before any computation.
type queryParams struct {
	url.Values
	err error
}

func params(r *http.Request) *queryParams {
	return &queryParams{Values: r.URL.Query()}
}

func (p *queryParams) Int(key string) int {
	raw := p.Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil && p.err == nil {
		p.err = connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("invalid %s %q (expected an integer)", key, raw))
	}
	return n
}

func (p *queryParams) Float(key string) float64 {
	raw := p.Get(key)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil && p.err == nil {
		p.err = connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("invalid %s %q (expected a number)", key, raw))
	}
	return f
}

// Err returns the first parse failure, if any.
func (p *queryParams) Err() error {
	return p.err
}

func writeResult(w http.ResponseWriter, payload any, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "encoding failed", http.StatusInternalServerError)
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps connect codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := connect.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case connect.CodeInvalidArgument:
		status = http.StatusBadRequest
	case connect.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case connect.CodePermissionDenied:
		status = http.StatusForbidden
	case connect.CodeNotFound:
		status = http.StatusNotFound
	case connect.CodeUnimplemented:
		status = http.StatusMethodNotAllowed
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Code: code.String(), Message: err.Error()})
}
