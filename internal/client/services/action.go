package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/talentdesk/internal/client/api"
	"github.com/dmitrijs2005/talentdesk/internal/client/models"
	"github.com/dmitrijs2005/talentdesk/internal/client/store"
	"github.com/dmitrijs2005/talentdesk/internal/common"
	"github.com/dmitrijs2005/talentdesk/internal/logging"
	"github.com/dmitrijs2005/talentdesk/internal/pipeline"
)

// PartialError reports a composite operation that half-succeeded. Completed
// names what did happen server-side, so the caller never rolls it back by
// mistake.
type PartialError struct {
	Completed string
	Failed    string
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%s succeeded, but %s failed: %v", e.Completed, e.Failed, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// ActionService validates and executes review actions against the backend
// and folds the authoritative result back into the candidate cache.
//
// Contract:
//   - An action is refused locally when the cached candidate does not allow
//     it (common.ErrActionNotLegal) or when another action on the same
//     candidate is still in flight (common.ErrActionInFlight).
//   - The cache is only ever updated from the backend's response, never
//     from an optimistic local guess.
type ActionService interface {
	ScheduleInterview(ctx context.Context, req models.ScheduleInterviewRequest) (*models.Candidate, error)
	Select(ctx context.Context, candidateID string) (*models.Candidate, error)
	Reject(ctx context.Context, req models.RejectRequest) (*models.Candidate, error)
	MarkLeftCompany(ctx context.Context, req models.LeftCompanyRequest) (*models.Candidate, error)
	SubmitFeedback(ctx context.Context, req models.FeedbackRequest) (*models.Candidate, error)
	SubmitFeedbackAndScheduleNext(ctx context.Context, fb models.FeedbackRequest, next models.ScheduleInterviewRequest) (*models.Candidate, error)

	// InFlight reports whether an action on the given candidate is still
	// running, for UI affordances.
	InFlight(candidateID string) bool
}

type actionService struct {
	gateway api.Gateway
	cache   *store.CandidateStore
	log     logging.Logger
	now     func() time.Time

	mu   sync.Mutex
	busy map[string]bool
}

func NewActionService(gateway api.Gateway, cache *store.CandidateStore, log logging.Logger) ActionService {
	return &actionService{
		gateway: gateway,
		cache:   cache,
		log:     log,
		now:     time.Now,
		busy:    map[string]bool{},
	}
}

func (s *actionService) InFlight(candidateID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[candidateID]
}

// begin marks a candidate busy, checking legality of the action against the
// cached record first. Callers must pair it with end.
func (s *actionService) begin(candidateID string, action pipeline.Action) (models.Candidate, error) {
	c, ok := s.cache.Get(candidateID)
	if !ok {
		return models.Candidate{}, fmt.Errorf("%w: candidate %s", common.ErrNotFound, candidateID)
	}
	if !c.Allows(action) {
		return models.Candidate{}, fmt.Errorf("%w: %s is not available for %s in %s",
			common.ErrActionNotLegal, action, c.Name, c.CurrentState.Label())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[candidateID] {
		return models.Candidate{}, fmt.Errorf("%w: another action on %s is still running",
			common.ErrActionInFlight, c.Name)
	}
	s.busy[candidateID] = true
	return c, nil
}

func (s *actionService) end(candidateID string) {
	s.mu.Lock()
	delete(s.busy, candidateID)
	s.mu.Unlock()
}

// apply folds the backend's post-action snapshot into the cache.
func (s *actionService) apply(ctx context.Context, action pipeline.Action, c *models.Candidate) {
	s.cache.Merge(*c)
	s.log.Info(ctx, "action applied", "action", action, "candidate", c.ID, "state", c.CurrentState)
}

func (s *actionService) ScheduleInterview(ctx context.Context, req models.ScheduleInterviewRequest) (*models.Candidate, error) {
	if err := req.Validate(s.now()); err != nil {
		return nil, err
	}
	if _, err := s.begin(req.CandidateID, pipeline.ActionScheduleInterview); err != nil {
		return nil, err
	}
	defer s.end(req.CandidateID)

	c, err := s.gateway.ScheduleInterview(ctx, req)
	if err != nil {
		return nil, err
	}
	s.apply(ctx, pipeline.ActionScheduleInterview, c)
	return c, nil
}

func (s *actionService) Select(ctx context.Context, candidateID string) (*models.Candidate, error) {
	if _, err := s.begin(candidateID, pipeline.ActionSelect); err != nil {
		return nil, err
	}
	defer s.end(candidateID)

	c, err := s.gateway.Select(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	s.apply(ctx, pipeline.ActionSelect, c)
	return c, nil
}

func (s *actionService) Reject(ctx context.Context, req models.RejectRequest) (*models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.begin(req.CandidateID, pipeline.ActionReject); err != nil {
		return nil, err
	}
	defer s.end(req.CandidateID)

	c, err := s.gateway.Reject(ctx, req)
	if err != nil {
		return nil, err
	}
	s.apply(ctx, pipeline.ActionReject, c)
	return c, nil
}

func (s *actionService) MarkLeftCompany(ctx context.Context, req models.LeftCompanyRequest) (*models.Candidate, error) {
	if err := req.Validate(s.now()); err != nil {
		return nil, err
	}
	if _, err := s.begin(req.CandidateID, pipeline.ActionMarkLeftCompany); err != nil {
		return nil, err
	}
	defer s.end(req.CandidateID)

	c, err := s.gateway.MarkLeftCompany(ctx, req)
	if err != nil {
		return nil, err
	}
	s.apply(ctx, pipeline.ActionMarkLeftCompany, c)
	return c, nil
}

// SubmitFeedback records feedback without moving the candidate. It is only
// meaningful while an interview is scheduled, so that is the one state it
// accepts.
func (s *actionService) SubmitFeedback(ctx context.Context, req models.FeedbackRequest) (*models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, ok := s.cache.Get(req.CandidateID)
	if !ok {
		return nil, fmt.Errorf("%w: candidate %s", common.ErrNotFound, req.CandidateID)
	}
	if c.CurrentState != pipeline.StateInterviewScheduled {
		return nil, fmt.Errorf("%w: feedback requires a scheduled interview, %s is in %s",
			common.ErrActionNotLegal, c.Name, c.CurrentState.Label())
	}

	s.mu.Lock()
	if s.busy[req.CandidateID] {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: another action on %s is still running", common.ErrActionInFlight, c.Name)
	}
	s.busy[req.CandidateID] = true
	s.mu.Unlock()
	defer s.end(req.CandidateID)

	out, err := s.gateway.SubmitFeedback(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.Merge(*out)
	return out, nil
}

// SubmitFeedbackAndScheduleNext records feedback and immediately schedules
// the following round. The two backend calls are not atomic; when the second
// fails the returned *PartialError says the feedback is already recorded.
func (s *actionService) SubmitFeedbackAndScheduleNext(ctx context.Context, fb models.FeedbackRequest, next models.ScheduleInterviewRequest) (*models.Candidate, error) {
	// Validate both payloads up front so a bad second step never leaves a
	// half-done pair behind.
	if err := fb.Validate(); err != nil {
		return nil, err
	}
	if err := next.Validate(s.now()); err != nil {
		return nil, err
	}
	if next.Round <= fb.Round {
		return nil, fmt.Errorf("%w: next round must come after round %d", common.ErrValidation, fb.Round)
	}

	c, err := s.SubmitFeedback(ctx, fb)
	if err != nil {
		return nil, err
	}

	out, err := s.ScheduleInterview(ctx, next)
	if err != nil {
		return c, &PartialError{
			Completed: fmt.Sprintf("feedback for round %d", fb.Round),
			Failed:    fmt.Sprintf("scheduling round %d", next.Round),
			Err:       err,
		}
	}
	return out, nil
}
