package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/talentdesk/internal/client/models"
	"github.com/dmitrijs2005/talentdesk/internal/common"
	"github.com/dmitrijs2005/talentdesk/internal/logging"
	"github.com/dmitrijs2005/talentdesk/internal/pipeline"
)

// HTTPGateway is the Gateway implementation speaking the backend's HTTP
// contract. The bearer credential is read from the TokenSource on every
// call, so the gateway itself holds no session state.
type HTTPGateway struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
	now     func() time.Time
}

// NewHTTPGateway constructs a gateway against baseURL. A nil httpClient
// falls back to http.DefaultClient.
func NewHTTPGateway(baseURL string, tokens TokenSource, httpClient *http.Client, log logging.Logger) *HTTPGateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    httpClient,
		tokens:  tokens,
		log:     log,
		now:     time.Now,
	}
}

// request performs one JSON round trip. A 204 or empty body is a valid
// success with no payload. Status codes >= 400 are decoded into *Error;
// network failures and undecodable bodies wrap common.ErrUnavailable.
func (g *HTTPGateway) request(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := g.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return g.decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", common.ErrUnavailable, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: malformed response body: %v", common.ErrUnavailable, err)
	}
	return nil
}

// decodeError normalizes an error response. Bodies that are not valid JSON
// become a generic UNKNOWN_ERROR so callers never branch on a missing field.
func (g *HTTPGateway) decodeError(resp *http.Response) error {
	apiErr := &Error{Code: CodeUnknown, Message: "An unexpected error occurred", HTTPStatus: resp.StatusCode}

	var body errorBody
	data, err := io.ReadAll(resp.Body)
	if err == nil && json.Unmarshal(data, &body) == nil {
		if body.Code != "" {
			apiErr.Code = body.Code
		}
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Detail != "":
			apiErr.Message = body.Detail
		}
	}
	return apiErr
}

func (g *HTTPGateway) Login(ctx context.Context, username, password string) (string, error) {
	// The login endpoint is OAuth2-password-flow shaped: form-encoded
	// credentials, not JSON. A fixed backend quirk, not a choice.
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &Error{Code: CodeInvalidCredentials, Message: "Invalid email or password", HTTPStatus: resp.StatusCode}
		var body errorBody
		data, readErr := io.ReadAll(resp.Body)
		if readErr == nil && json.Unmarshal(data, &body) == nil {
			if body.Code != "" {
				apiErr.Code = body.Code
			}
			if body.Message != "" {
				apiErr.Message = body.Message
			} else if body.Detail != "" {
				apiErr.Message = body.Detail
			}
		}
		return "", apiErr
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", fmt.Errorf("%w: malformed login response: %v", common.ErrUnavailable, err)
	}
	return lr.AccessToken, nil
}

func (g *HTTPGateway) Identity(ctx context.Context) (*models.Identity, error) {
	var w identityResponse
	if err := g.request(ctx, http.MethodGet, "/auth/me", nil, nil, &w); err != nil {
		return nil, err
	}
	return identityFromWire(&w), nil
}

func (g *HTTPGateway) FetchCandidates(ctx context.Context) ([]models.Candidate, error) {
	var apps []applicationResponse
	if err := g.request(ctx, http.MethodGet, "/applications/", nil, nil, &apps); err != nil {
		return nil, err
	}

	// The candidate list is the id-deduplicated union of candidates
	// embedded in application records, in the order the backend returns.
	seen := make(map[string]struct{})
	candidates := make([]models.Candidate, 0, len(apps))
	for i := range apps {
		app := &apps[i]
		if app.Candidate == nil {
			continue
		}
		if _, ok := seen[app.Candidate.ID]; ok {
			continue
		}
		seen[app.Candidate.ID] = struct{}{}
		candidates = append(candidates, g.candidateFromWire(ctx, app.Candidate, app))
	}
	return candidates, nil
}

func (g *HTTPGateway) FetchCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	var cw candidateResponse
	if err := g.request(ctx, http.MethodGet, "/candidates/"+id, nil, nil, &cw); err != nil {
		return nil, err
	}

	// The application, when present, is the authority on pipeline state.
	apps, err := g.applicationsForCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	var latest *applicationResponse
	if len(apps) > 0 {
		latest = &apps[0]
	}

	c := g.candidateFromWire(ctx, &cw, latest)
	return &c, nil
}

func (g *HTTPGateway) FetchTimeline(ctx context.Context, id string) ([]models.TimelineEvent, error) {
	// No dedicated timeline endpoint exists; synthesize state-change events
	// from the application history. Interview and feedback granularity is
	// only available in demo mode, where the fixtures carry it.
	apps, err := g.applicationsForCandidate(ctx, id)
	if err != nil {
		return nil, err
	}

	var timeline []models.TimelineEvent
	for i := range apps {
		app := &apps[i]

		note := "Application received"
		if app.JobTitle != "" {
			note = "Application received for " + app.JobTitle
		}
		timeline = append(timeline, models.TimelineEvent{
			ID:          fmt.Sprintf("timeline-%s-created", app.ID),
			CandidateID: id,
			Type:        models.EventStateChange,
			State:       pipeline.StateToReview,
			Timestamp:   parseWireTime(app.CreatedAt),
			Actor:       models.ActorSystem,
			Note:        note,
		})

		if app.Status == pipeline.AppStatusReceived {
			continue
		}
		state, known := pipeline.StateForApplicationStatus(app.Status)
		if !known {
			g.log.Warn(ctx, "unknown application status in timeline", "status", app.Status, "application_id", app.ID)
		}
		timeline = append(timeline, models.TimelineEvent{
			ID:          fmt.Sprintf("timeline-%s-status", app.ID),
			CandidateID: id,
			Type:        models.EventStateChange,
			State:       state,
			Timestamp:   parseWireTime(app.UpdatedAt),
			Actor:       models.ActorClient,
		})
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Timestamp.Before(timeline[j].Timestamp)
	})
	return timeline, nil
}

func (g *HTTPGateway) ScheduleInterview(ctx context.Context, req models.ScheduleInterviewRequest) (*models.Candidate, error) {
	c, err := g.beginApplicationTransition(ctx, req.CandidateID, pipeline.ActionScheduleInterview)
	if err != nil {
		return nil, err
	}

	// Interview detail has no dedicated endpoint; persist it best-effort in
	// the candidate remark. The state change above already landed, so a
	// failure here must not fail the operation.
	remark := fmt.Sprintf("Round %d interview (%s) scheduled for %s", req.Round, req.Mode, req.ScheduledAt.Format(time.RFC3339))
	if req.Interviewer != "" {
		remark += " with " + req.Interviewer
	}
	if req.Notes != "" {
		remark += ": " + req.Notes
	}
	g.writeRemark(ctx, c.ID, remark)

	return g.FetchCandidate(ctx, req.CandidateID)
}

func (g *HTTPGateway) SubmitFeedback(ctx context.Context, req models.FeedbackRequest) (*models.Candidate, error) {
	// Feedback does not change pipeline state. It is persisted through the
	// candidate remark fallback channel, then the authoritative record is
	// re-fetched.
	remark := fmt.Sprintf("Round %d Feedback (%s, %d/5): %s", req.Round, req.Recommendation, req.Rating, req.Note)
	if err := g.updateCandidate(ctx, req.CandidateID, map[string]any{"remark": remark}); err != nil {
		return nil, err
	}
	return g.FetchCandidate(ctx, req.CandidateID)
}

func (g *HTTPGateway) Select(ctx context.Context, candidateID string) (*models.Candidate, error) {
	if _, err := g.beginApplicationTransition(ctx, candidateID, pipeline.ActionSelect); err != nil {
		return nil, err
	}
	return g.FetchCandidate(ctx, candidateID)
}

func (g *HTTPGateway) Reject(ctx context.Context, req models.RejectRequest) (*models.Candidate, error) {
	c, err := g.beginApplicationTransition(ctx, req.CandidateID, pipeline.ActionReject)
	if err != nil {
		return nil, err
	}

	g.writeRemark(ctx, c.ID, fmt.Sprintf("Rejected: %s - %s", req.Reason, req.Note))

	return g.FetchCandidate(ctx, req.CandidateID)
}

func (g *HTTPGateway) MarkLeftCompany(ctx context.Context, req models.LeftCompanyRequest) (*models.Candidate, error) {
	// Departure is recorded on the candidate record itself, not via an
	// application status step.
	remark := fmt.Sprintf("Left company: %s - %s", req.Reason, req.Note)
	if req.LastWorkingDate != nil {
		remark += fmt.Sprintf(" (Last day: %s)", req.LastWorkingDate.Format("2006-01-02"))
	}
	update := map[string]any{
		"status": pipeline.CandidateStatusLeft,
		"remark": remark,
	}
	if err := g.updateCandidate(ctx, req.CandidateID, update); err != nil {
		return nil, err
	}
	return g.FetchCandidate(ctx, req.CandidateID)
}

// beginApplicationTransition performs step (a) of a mutating operation:
// resolve the candidate's active application and move its status to the one
// the action maps to. The caller is responsible for the concluding re-fetch.
func (g *HTTPGateway) beginApplicationTransition(ctx context.Context, candidateID string, action pipeline.Action) (*models.Candidate, error) {
	c, err := g.FetchCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if c.ApplicationID == "" {
		return nil, &Error{Code: CodeNoApplication, Message: "Candidate has no active application", HTTPStatus: http.StatusConflict}
	}

	status, ok := pipeline.ApplicationStatusForAction(action)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no application status", common.ErrInvalidAction, action)
	}
	if err := g.updateApplicationStatus(ctx, c.ApplicationID, status, false); err != nil {
		return nil, err
	}
	return c, nil
}

func (g *HTTPGateway) applicationsForCandidate(ctx context.Context, id string) ([]applicationResponse, error) {
	var apps []applicationResponse
	if err := g.request(ctx, http.MethodGet, "/applications/candidate/"+id, nil, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (g *HTTPGateway) updateApplicationStatus(ctx context.Context, applicationID, newStatus string, force bool) error {
	query := url.Values{}
	query.Set("new_status", newStatus)
	if force {
		query.Set("force_update", "true")
	}
	return g.request(ctx, http.MethodPut, "/applications/"+applicationID+"/status", query, nil, nil)
}

func (g *HTTPGateway) updateCandidate(ctx context.Context, id string, fields map[string]any) error {
	return g.request(ctx, http.MethodPut, "/candidates/"+id, nil, fields, nil)
}

// writeRemark is the best-effort detail channel. Failures are logged, never
// propagated: state transition correctness takes priority over detail
// completeness.
func (g *HTTPGateway) writeRemark(ctx context.Context, candidateID, remark string) {
	if err := g.updateCandidate(ctx, candidateID, map[string]any{"remark": remark}); err != nil {
		g.log.Warn(ctx, "detail write failed", "candidate_id", candidateID, "error", err)
	}
}

// candidateFromWire maps a wire candidate (and optionally its application,
// which wins on pipeline state) into the domain type. Unknown statuses map
// to TO_REVIEW and are logged as data-quality events.
func (g *HTTPGateway) candidateFromWire(ctx context.Context, cw *candidateResponse, app *applicationResponse) models.Candidate {
	var (
		state pipeline.State
		known bool
	)
	applicationID := ""
	if app != nil {
		state, known = pipeline.StateForApplicationStatus(app.Status)
		if !known {
			g.log.Warn(ctx, "unknown application status", "status", app.Status, "candidate_id", cw.ID)
		}
		applicationID = app.ID
	} else {
		state, known = pipeline.StateForCandidateStatus(cw.Status)
		if !known {
			g.log.Warn(ctx, "unknown candidate status", "status", cw.Status, "candidate_id", cw.ID)
		}
	}

	return models.Candidate{
		ID:                cw.ID,
		ApplicationID:     applicationID,
		Name:              cw.Name,
		Email:             cw.Email,
		Phone:             cw.Phone,
		Location:          cw.Location,
		Skills:            parseSkills(cw.Skills),
		ExperienceSummary: parseExperience(cw.Experience),
		CTCCurrent:        cw.CTCCurrent,
		CTCExpected:       cw.CTCExpected,
		ResumeURL:         cw.ResumeURL,
		CurrentState:      state,
		AllowedActions:    pipeline.AllowedActions(state),
		CreatedAt:         parseWireTime(cw.CreatedAt),
		UpdatedAt:         parseWireTime(cw.UpdatedAt),
	}
}
