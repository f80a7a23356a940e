package main

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/pkg/errors"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/report"
	"github.com/nisitaSoni/safR/server/session"
)

const headerUserID = "Mattermost-User-ID"

// ServeHTTP handles HTTP requests for the plugin.
// The root URL is currently <siteUrl>/plugins/<pluginId>/api/v1/.
func (p *Plugin) ServeHTTP(c *plugin.Context, w http.ResponseWriter, r *http.Request) {
	router := mux.NewRouter()

	// Middleware to require that the user is logged in
	router.Use(p.MattermostAuthorizationRequired)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()

	apiRouter.HandleFunc("/session", p.handleStartSession).Methods(http.MethodPost)
	apiRouter.HandleFunc("/session", p.handleGetSession).Methods(http.MethodGet)
	apiRouter.HandleFunc("/session", p.handleEndSession).Methods(http.MethodDelete)

	apiRouter.HandleFunc("/alerts", p.handleListAlerts).Methods(http.MethodGet)
	apiRouter.HandleFunc("/alerts/summary", p.handleAlertSummary).Methods(http.MethodGet)
	apiRouter.HandleFunc("/alerts/{id}", p.handleGetAlert).Methods(http.MethodGet)
	apiRouter.HandleFunc("/alerts/{id}/assign", p.handleAssignResponder).Methods(http.MethodPost)
	apiRouter.HandleFunc("/alerts/{id}/investigate", p.handleInvestigate).Methods(http.MethodPost)
	apiRouter.HandleFunc("/alerts/{id}/resolve", p.handleResolve).Methods(http.MethodPost)
	apiRouter.HandleFunc("/alerts/{id}/efir", p.handleExportEFIR).Methods(http.MethodPost)

	apiRouter.HandleFunc("/tourists", p.handleListTourists).Methods(http.MethodGet)
	apiRouter.HandleFunc("/riskzones", p.handleListRiskZones).Methods(http.MethodGet)

	router.ServeHTTP(w, r)
}

func (p *Plugin) MattermostAuthorizationRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(headerUserID)
		if userID == "" {
			http.Error(w, "Not authorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type sessionResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Role      session.Role  `json:"role"`
	RoleLabel string        `json:"roleLabel"`
	StartedAt time.Time     `json:"startedAt"`
	Summary   alert.Summary `json:"summary"`
}

func newSessionResponse(s *session.Session) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Role:      s.Role,
		RoleLabel: s.Role.Label(),
		StartedAt: s.StartedAt,
		Summary:   s.Registry().Summary(),
	}
}

// alertResponse adds display attributes to an alert.
type alertResponse struct {
	alert.Alert
	StatusVariant   alert.Variant `json:"statusVariant"`
	SeverityVariant alert.Variant `json:"severityVariant"`
	CategoryLabel   string        `json:"categoryLabel"`
	CategoryColor   string        `json:"categoryColor"`
}

func newAlertResponse(a alert.Alert) alertResponse {
	return alertResponse{
		Alert:           a,
		StatusVariant:   a.Status.Variant(),
		SeverityVariant: a.Severity.Variant(),
		CategoryLabel:   a.Category.Label(),
		CategoryColor:   a.Category.Color(),
	}
}

func newAlertResponses(alerts []alert.Alert) []alertResponse {
	out := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, newAlertResponse(a))
	}
	return out
}

type touristResponse struct {
	alert.Tourist
	StatusVariant alert.Variant `json:"statusVariant"`
	RiskVariant   alert.Variant `json:"riskVariant"`
}

type riskZoneResponse struct {
	alert.RiskZone
	LevelVariant alert.Variant `json:"levelVariant"`
}

type startSessionRequest struct {
	Role string `json:"role"`
}

type assignRequest struct {
	Responder string `json:"responder"`
}

type resolveRequest struct {
	Notes string `json:"notes"`
}

type exportRequest struct {
	Officer string `json:"officer"`
}

type exportResponse struct {
	Filename string `json:"filename"`
}

func (p *Plugin) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		p.writeError(w, err)
		return
	}

	s, err := p.sessions.Start(r.Context(), userIDFrom(r), session.Role(req.Role))
	if err != nil {
		p.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newSessionResponse(s))
}

func (p *Plugin) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s, err := p.sessions.Get(userIDFrom(r))
	if err != nil {
		p.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(s))
}

func (p *Plugin) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if !p.sessions.End(userIDFrom(r)) {
		p.writeError(w, session.ErrNoSession)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (p *Plugin) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	s, err := p.sessions.Get(userIDFrom(r))
	if err != nil {
		p.writeError(w, err)
		return
	}

	query := r.URL.Query()
	filter := alert.Filter{
		Status:   alert.Status(query.Get("status")),
		Severity: alert.Severity(query.Get("severity")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		p.writeError(w, errors.Wrapf(alert.ErrValidation, "unknown status %q", filter.Status))
		return
	}
	if filter.Severity != "" && !filter.Severity.Valid() {
		p.writeError(w, errors.Wrapf(alert.ErrValidation, "unknown severity %q", filter.Severity))
		return
	}

	writeJSON(w, http.StatusOK, newAlertResponses(s.Registry().Filter(filter)))
}

func (p *Plugin) handleAlertSummary(w http.ResponseWriter, r *http.Request) {
	s, err := p.sessions.Get(userIDFrom(r))
	if err != nil {
		p.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.Registry().Summary())
}

func (p *Plugin) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	s, err := p.sessions.Get(userIDFrom(r))
	if err != nil {
		p.writeError(w, err)
		return
	}

	a, err := s.Registry().Get(mux.Vars(r)["id"])
	if err != nil {
		p.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAlertResponse(a))
}

func (p *Plugin) handleAssignResponder(w http.ResponseWriter, r *http.Request) {
	s, err := p.sessions.Get(userIDFrom(r))
	if err != nil {
		p.writeError(w, err)
		return
	}

	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		p.writeError(w, err)
		return
	}

	a, err := s.AssignResponder(r.Context(), mux.Vars(r)["id"], req.Responder)
	if err != nil {
		p.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAlertResponse(a))
}

func (p *Plugin) handleInvestigate(w http.ResponseWriter, r *http.Request) {
	s, err := p.sessions.Get(userIDFrom(r))
	if err != nil {
		p.writeError(w, err)
		return
	}

	a, err := s.Investigate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		p.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAlertResponse(a))
}

func (p *Plugin) handleResolve(w http.ResponseWriter, r *http.Request) {
	s, err := p.sessions.Get(userIDFrom(r))
	if err != nil {
		p.writeError(w, err)
		return
	}

	var req resolveRequest
	if err := decodeJSON(r, &req); err != nil {
		p.writeError(w, err)
		return
	}

	a, err := s.Resolve(r.Context(), mux.Vars(r)["id"], req.Notes)
	if err != nil {
		p.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAlertResponse(a))
}

func (p *Plugin) handleExportEFIR(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	s, err := p.sessions.Get(userID)
	if err != nil {
		p.writeError(w, err)
		return
	}

	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		p.writeError(w, err)
		return
	}

	a, err := s.Registry().Get(mux.Vars(r)["id"])
	if err != nil {
		p.writeError(w, err)
		return
	}

	tourists, err := p.sessions.Store().FetchTourists(r.Context())
	if err != nil {
		p.writeError(w, errors.Wrap(err, "failed to load tourists"))
		return
	}
	var tourist *alert.Tourist
	if t, ok := alert.FindTourist(tourists, a.Tourist.ID); ok {
		tourist = &t
	}

	officer := strings.TrimSpace(req.Officer)
	if officer == "" {
		officer = p.officerName(userID)
	}

	composer, sink := p.reporting()
	doc, err := composer.Compose(a, tourist, officer)
	if err != nil {
		p.writeError(w, err)
		return
	}

	filename := report.Filename(p.getConfiguration().reportPrefix(), a, *tourist)
	if err := sink.Export(doc, filename); err != nil {
		p.writeError(w, errors.Wrap(err, "failed to export report"))
		return
	}

	p.API.LogInfo("E-FIR exported", "alertId", a.ID, "filename", filename, "userId", userID)
	writeJSON(w, http.StatusCreated, exportResponse{Filename: filename + ".pdf"})
}

func (p *Plugin) handleListTourists(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := alert.TouristFilter{
		Search:    query.Get("search"),
		Status:    alert.TouristStatus(query.Get("status")),
		RiskLevel: alert.RiskLevel(query.Get("risk")),
	}
	if filter.Status != "" && !slices.Contains(alert.TouristStatuses, filter.Status) {
		p.writeError(w, errors.Wrapf(alert.ErrValidation, "unknown tourist status %q", filter.Status))
		return
	}
	if filter.RiskLevel != "" && !slices.Contains(alert.RiskLevels, filter.RiskLevel) {
		p.writeError(w, errors.Wrapf(alert.ErrValidation, "unknown risk level %q", filter.RiskLevel))
		return
	}

	tourists, err := p.sessions.Store().FetchTourists(r.Context())
	if err != nil {
		p.writeError(w, errors.Wrap(err, "failed to load tourists"))
		return
	}

	matched := alert.FilterTourists(tourists, filter)
	out := make([]touristResponse, 0, len(matched))
	for _, t := range matched {
		out = append(out, touristResponse{
			Tourist:       t,
			StatusVariant: t.Status.Variant(),
			RiskVariant:   t.RiskLevel.Variant(),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (p *Plugin) handleListRiskZones(w http.ResponseWriter, r *http.Request) {
	zones, err := p.sessions.Store().FetchRiskZones(r.Context())
	if err != nil {
		p.writeError(w, errors.Wrap(err, "failed to load risk zones"))
		return
	}

	out := make([]riskZoneResponse, 0, len(zones))
	for _, z := range zones {
		out = append(out, riskZoneResponse{RiskZone: z, LevelVariant: z.Level.Variant()})
	}

	writeJSON(w, http.StatusOK, out)
}

// officerName returns the display name of the requesting user, falling back
// to the user id when the lookup fails.
func (p *Plugin) officerName(userID string) string {
	user, appErr := p.API.GetUser(userID)
	if appErr != nil {
		p.API.LogWarn("Failed to look up reporting officer", "userId", userID, "error", appErr.Error())
		return userID
	}
	return user.GetDisplayName(model.ShowFullName)
}

// writeError maps domain errors to HTTP status codes.
func (p *Plugin) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, alert.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, alert.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, report.ErrUnsupportedCategory):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrPersistence):
		status = http.StatusBadGateway
	case errors.Is(err, session.ErrNoSession):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		p.API.LogError("API request failed", "status", status, "error", err.Error())
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads an optional JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrapf(alert.ErrValidation, "invalid request body: %s", err.Error())
	}
	return nil
}

func userIDFrom(r *http.Request) string {
	return r.Header.Get(headerUserID)
}
