// Package demo provides a deterministic in-memory gateway used when the
// portal runs without a backend. All operations behave like their remote
// counterparts, including state transitions and timeline growth, but touch
// no network.
package demo

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/talentdesk/internal/client/api"
	"github.com/dmitrijs2005/talentdesk/internal/client/models"
	"github.com/dmitrijs2005/talentdesk/internal/pipeline"
)

const (
	// Credentials accepted by the demo login.
	Username = "demo@example.com"
	Password = "demo123"

	// Token issued by the demo login; ValidateToken-style flows accept any
	// token with the "demo" prefix.
	Token = "demo-token-12345"
)

// Gateway is an api.Gateway backed by fixtures.
type Gateway struct {
	mu         sync.Mutex
	now        func() time.Time
	candidates []models.Candidate
	timeline   map[string][]models.TimelineEvent
}

var _ api.Gateway = (*Gateway)(nil)

// New seeds a demo gateway with the standard fixture set.
func New() *Gateway {
	g := &Gateway{now: time.Now, timeline: map[string][]models.TimelineEvent{}}
	g.seed()
	return g
}

// WithClock overrides the time source, for tests.
func (g *Gateway) WithClock(now func() time.Time) *Gateway {
	g.now = now
	return g
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixture(id, appID, name string, state pipeline.State, skills []string, summary, createdAt, updatedAt string) models.Candidate {
	return models.Candidate{
		ID:                id,
		ApplicationID:     appID,
		Name:              name,
		CurrentState:      state,
		Skills:            skills,
		ExperienceSummary: summary,
		AllowedActions:    pipeline.AllowedActions(state),
		CreatedAt:         mustTime(createdAt),
		UpdatedAt:         mustTime(updatedAt),
	}
}

func (g *Gateway) seed() {
	g.candidates = []models.Candidate{
		fixture("1", "APP-2024-001", "Sarah Chen", pipeline.StateToReview,
			[]string{"React", "TypeScript", "Node.js", "PostgreSQL", "AWS"},
			"Senior Full-Stack Engineer with 7 years of experience building scalable web applications. Previously at Stripe and Airbnb.",
			"2024-12-20T10:00:00Z", "2024-12-28T14:30:00Z"),
		fixture("2", "APP-2024-002", "Marcus Johnson", pipeline.StateToReview,
			[]string{"Python", "Machine Learning", "TensorFlow", "Data Analysis"},
			"Data Scientist with expertise in ML pipelines and predictive modeling. PhD in Computer Science from MIT.",
			"2024-12-21T09:00:00Z", "2024-12-27T11:00:00Z"),
		fixture("3", "APP-2024-003", "Elena Rodriguez", pipeline.StateInterviewScheduled,
			[]string{"Product Management", "Agile", "User Research", "SQL"},
			"Product Manager with 5 years experience in B2B SaaS. Led teams at Salesforce and HubSpot.",
			"2024-12-15T08:00:00Z", "2024-12-26T16:00:00Z"),
		fixture("4", "APP-2024-004", "James Kim", pipeline.StateInterviewScheduled,
			[]string{"DevOps", "Kubernetes", "Docker", "Terraform", "CI/CD"},
			"Platform Engineer specializing in cloud infrastructure and automation. AWS Certified Solutions Architect.",
			"2024-12-18T12:00:00Z", "2024-12-25T10:00:00Z"),
		fixture("5", "APP-2024-005", "Priya Patel", pipeline.StateSelected,
			[]string{"UX Design", "Figma", "User Research", "Prototyping", "Design Systems"},
			"Senior UX Designer with a passion for creating intuitive user experiences. Former design lead at Notion.",
			"2024-12-10T14:00:00Z", "2024-12-24T09:00:00Z"),
		fixture("6", "APP-2024-006", "David Liu", pipeline.StateJoined,
			[]string{"Java", "Spring Boot", "Microservices", "MongoDB"},
			"Backend Engineer with 8 years of experience. Expert in distributed systems and high-performance applications.",
			"2024-11-01T10:00:00Z", "2024-12-01T08:00:00Z"),
		fixture("7", "APP-2024-007", "Anna Thompson", pipeline.StateToReview,
			[]string{"Marketing", "SEO", "Content Strategy", "Analytics"},
			"Growth Marketing Manager with proven track record of scaling startups from seed to Series B.",
			"2024-12-22T11:00:00Z", "2024-12-29T15:00:00Z"),
	}

	for _, c := range g.candidates {
		g.timeline[c.ID] = []models.TimelineEvent{{
			ID:          uuid.NewString(),
			CandidateID: c.ID,
			Type:        models.EventStateChange,
			State:       pipeline.StateToReview,
			Timestamp:   c.CreatedAt,
			Actor:       models.ActorSystem,
			Note:        "Application received",
		}}
	}
}

func notFound() error {
	return &api.Error{Code: api.CodeNotFound, Message: "Candidate not found", HTTPStatus: http.StatusNotFound}
}

func (g *Gateway) index(id string) int {
	for i := range g.candidates {
		if g.candidates[i].ID == id {
			return i
		}
	}
	return -1
}

// transition moves a candidate to the target state of the given action and
// returns the refreshed snapshot.
func (g *Gateway) transition(id string, action pipeline.Action) (*models.Candidate, error) {
	i := g.index(id)
	if i < 0 {
		return nil, notFound()
	}

	c := &g.candidates[i]
	target, err := pipeline.TargetState(action, c.CurrentState)
	if err != nil {
		return nil, err
	}

	now := g.now()
	c.CurrentState = target
	c.AllowedActions = pipeline.AllowedActions(target)
	c.UpdatedAt = now

	g.timeline[id] = append(g.timeline[id], models.TimelineEvent{
		ID:          uuid.NewString(),
		CandidateID: id,
		Type:        models.EventStateChange,
		State:       target,
		Timestamp:   now,
		Actor:       models.ActorClient,
	})

	snapshot := *c
	return &snapshot, nil
}

func (g *Gateway) Login(ctx context.Context, username, password string) (string, error) {
	if username == Username && password == Password {
		return Token, nil
	}
	return "", &api.Error{Code: api.CodeInvalidCredentials, Message: "Invalid email or password", HTTPStatus: http.StatusUnauthorized}
}

func (g *Gateway) Identity(ctx context.Context) (*models.Identity, error) {
	return &models.Identity{
		ID:         "demo-user",
		Email:      Username,
		Role:       "client",
		ClientID:   "demo-client",
		ClientName: "Demo Client",
		CreatedAt:  mustTime("2024-01-01T00:00:00Z"),
	}, nil
}

func (g *Gateway) FetchCandidates(ctx context.Context) ([]models.Candidate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.Candidate, len(g.candidates))
	copy(out, g.candidates)
	return out, nil
}

func (g *Gateway) FetchCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.index(id)
	if i < 0 {
		return nil, notFound()
	}
	snapshot := g.candidates[i]
	return &snapshot, nil
}

func (g *Gateway) FetchTimeline(ctx context.Context, id string) ([]models.TimelineEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.index(id) < 0 {
		return nil, notFound()
	}
	events := make([]models.TimelineEvent, len(g.timeline[id]))
	copy(events, g.timeline[id])
	return events, nil
}

func (g *Gateway) ScheduleInterview(ctx context.Context, req models.ScheduleInterviewRequest) (*models.Candidate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, err := g.transition(req.CandidateID, pipeline.ActionScheduleInterview)
	if err != nil {
		return nil, err
	}

	g.timeline[req.CandidateID] = append(g.timeline[req.CandidateID], models.TimelineEvent{
		ID:          uuid.NewString(),
		CandidateID: req.CandidateID,
		Type:        models.EventInterviewRound,
		Timestamp:   g.now(),
		Actor:       models.ActorClient,
		Note:        req.Notes,
		Interview: &models.InterviewRound{
			Round:       req.Round,
			Mode:        req.Mode,
			Interviewer: req.Interviewer,
			ScheduledAt: req.ScheduledAt,
		},
	})
	return c, nil
}

func (g *Gateway) SubmitFeedback(ctx context.Context, req models.FeedbackRequest) (*models.Candidate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.index(req.CandidateID)
	if i < 0 {
		return nil, notFound()
	}

	g.timeline[req.CandidateID] = append(g.timeline[req.CandidateID], models.TimelineEvent{
		ID:          uuid.NewString(),
		CandidateID: req.CandidateID,
		Type:        models.EventFeedback,
		Timestamp:   g.now(),
		Actor:       models.ActorClient,
		Note:        req.Note,
		Feedback: &models.Feedback{
			Round:          req.Round,
			Rating:         req.Rating,
			Recommendation: req.Recommendation,
		},
	})

	snapshot := g.candidates[i]
	return &snapshot, nil
}

func (g *Gateway) Select(ctx context.Context, candidateID string) (*models.Candidate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.transition(candidateID, pipeline.ActionSelect)
}

func (g *Gateway) Reject(ctx context.Context, req models.RejectRequest) (*models.Candidate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.transition(req.CandidateID, pipeline.ActionReject)
}

func (g *Gateway) MarkLeftCompany(ctx context.Context, req models.LeftCompanyRequest) (*models.Candidate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.transition(req.CandidateID, pipeline.ActionMarkLeftCompany)
}
