// Package services contains the application services of the portal client:
// keeping the candidate cache current and orchestrating review actions.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/talentdesk/internal/client/api"
	"github.com/dmitrijs2005/talentdesk/internal/client/live"
	"github.com/dmitrijs2005/talentdesk/internal/client/models"
	"github.com/dmitrijs2005/talentdesk/internal/client/store"
	"github.com/dmitrijs2005/talentdesk/internal/logging"
)

// CandidateService keeps the local candidate cache in sync with the backend.
//
// Contract:
//   - Refresh: replace the whole cache from the backend list.
//   - RefreshCandidate: refetch a single candidate and merge it in.
//   - Timeline: fetch a candidate's event history.
//   - ApplyEvent: react to a live notification by refetching what it names.
//
// All methods honor context cancellation.
type CandidateService interface {
	Refresh(ctx context.Context) error
	RefreshCandidate(ctx context.Context, id string) (*models.Candidate, error)
	Timeline(ctx context.Context, id string) ([]models.TimelineEvent, error)
	ApplyEvent(ctx context.Context, ev live.Event)
}

type candidateService struct {
	gateway api.Gateway
	cache   *store.CandidateStore
	log     logging.Logger
}

func NewCandidateService(gateway api.Gateway, cache *store.CandidateStore, log logging.Logger) CandidateService {
	return &candidateService{gateway: gateway, cache: cache, log: log}
}

func (s *candidateService) Refresh(ctx context.Context) error {
	list, err := s.gateway.FetchCandidates(ctx)
	if err != nil {
		return fmt.Errorf("refreshing candidates: %w", err)
	}
	s.cache.Replace(list)
	return nil
}

func (s *candidateService) RefreshCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	c, err := s.gateway.FetchCandidate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("refreshing candidate %s: %w", id, err)
	}
	s.cache.Merge(*c)
	return c, nil
}

func (s *candidateService) Timeline(ctx context.Context, id string) ([]models.TimelineEvent, error) {
	return s.gateway.FetchTimeline(ctx, id)
}

// ApplyEvent converts a live notification into a cache update. Events carry
// no candidate payload, only identity, so every reaction is a refetch: a
// targeted one when the event names a candidate, a full one otherwise.
// Failures are logged and dropped; the next refresh will catch up.
func (s *candidateService) ApplyEvent(ctx context.Context, ev live.Event) {
	switch ev.Type {
	case live.EventCandidateStatusChange, live.EventInterviewScheduled, live.EventFeedbackSubmitted:
		if ev.CandidateID == "" {
			return
		}
		if _, err := s.RefreshCandidate(ctx, ev.CandidateID); err != nil {
			s.log.Warn(ctx, "could not apply live event", "event", ev.Type, "candidate", ev.CandidateID, "error", err)
		}
	case live.EventCandidateCreated, live.EventConnectionEstablished:
		// A new candidate, or a (re)connection that may have missed events:
		// resync the whole list.
		if err := s.Refresh(ctx); err != nil {
			s.log.Warn(ctx, "could not resync after live event", "event", ev.Type, "error", err)
		}
	}
}
