package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/talentdesk/internal/client/models"
	"github.com/dmitrijs2005/talentdesk/internal/client/store"
	"github.com/dmitrijs2005/talentdesk/internal/common"
	"github.com/dmitrijs2005/talentdesk/internal/logging"
	"github.com/dmitrijs2005/talentdesk/internal/pipeline"
)

func fixedNow() time.Time {
	return time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
}

func newActionFixture(t *testing.T, seed ...models.Candidate) (*fakeGateway, *store.CandidateStore, *actionService) {
	t.Helper()
	gw := &fakeGateway{}
	cache := store.NewCandidateStore()
	cache.Replace(seed)
	svc := NewActionService(gw, cache, logging.Discard()).(*actionService)
	svc.now = fixedNow
	return gw, cache, svc
}

func validSchedule(id string) models.ScheduleInterviewRequest {
	return models.ScheduleInterviewRequest{
		CandidateID: id,
		ScheduledAt: fixedNow().Add(48 * time.Hour),
		Mode:        models.ModeVideo,
		Round:       1,
		Interviewer: "Alex Morgan",
	}
}

func validFeedback(id string) models.FeedbackRequest {
	return models.FeedbackRequest{
		CandidateID:    id,
		Round:          1,
		Rating:         4,
		Recommendation: models.RecommendYes,
		Note:           "Solid system design round.",
	}
}

func TestScheduleInterviewAppliesBackendResult(t *testing.T) {
	gw, cache, svc := newActionFixture(t, testCandidate("a", pipeline.StateToReview, fixedNow()))
	gw.scheduleFn = func(ctx context.Context, req models.ScheduleInterviewRequest) (*models.Candidate, error) {
		c := testCandidate(req.CandidateID, pipeline.StateInterviewScheduled, fixedNow().Add(time.Second))
		return &c, nil
	}

	c, err := svc.ScheduleInterview(context.Background(), validSchedule("a"))
	require.NoError(t, err)
	require.Equal(t, pipeline.StateInterviewScheduled, c.CurrentState)

	cached, _ := cache.Get("a")
	require.Equal(t, pipeline.StateInterviewScheduled, cached.CurrentState)
	require.False(t, svc.InFlight("a"))
}

func TestIllegalActionRefusedWithoutBackendCall(t *testing.T) {
	gw, _, svc := newActionFixture(t, testCandidate("a", pipeline.StateJoined, fixedNow()))

	_, err := svc.Select(context.Background(), "a")
	require.ErrorIs(t, err, common.ErrActionNotLegal)
	require.Zero(t, gw.callCount())
}

func TestValidationFailureRefusedWithoutBackendCall(t *testing.T) {
	gw, _, svc := newActionFixture(t, testCandidate("a", pipeline.StateToReview, fixedNow()))

	req := validSchedule("a")
	req.ScheduledAt = fixedNow().Add(-time.Hour)
	_, err := svc.ScheduleInterview(context.Background(), req)
	require.ErrorIs(t, err, common.ErrValidation)
	require.Zero(t, gw.callCount())
}

func TestUnknownCandidateRefused(t *testing.T) {
	_, _, svc := newActionFixture(t)

	_, err := svc.Select(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestBackendFailureLeavesCacheUntouched(t *testing.T) {
	gw, cache, svc := newActionFixture(t, testCandidate("a", pipeline.StateToReview, fixedNow()))
	gw.rejectFn = func(ctx context.Context, req models.RejectRequest) (*models.Candidate, error) {
		return nil, fmt.Errorf("%w: connection refused", common.ErrUnavailable)
	}

	_, err := svc.Reject(context.Background(), models.RejectRequest{
		CandidateID: "a",
		Reason:      models.RejectSkillMismatch,
		Note:        "Missing required platform experience.",
	})
	require.ErrorIs(t, err, common.ErrUnavailable)

	cached, _ := cache.Get("a")
	require.Equal(t, pipeline.StateToReview, cached.CurrentState)
	require.False(t, svc.InFlight("a"))
}

func TestConcurrentActionOnSameCandidateRefused(t *testing.T) {
	gw, _, svc := newActionFixture(t, testCandidate("a", pipeline.StateToReview, fixedNow()))

	release := make(chan struct{})
	gw.scheduleFn = func(ctx context.Context, req models.ScheduleInterviewRequest) (*models.Candidate, error) {
		<-release
		c := testCandidate(req.CandidateID, pipeline.StateInterviewScheduled, fixedNow().Add(time.Second))
		return &c, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.ScheduleInterview(context.Background(), validSchedule("a"))
		done <- err
	}()

	require.Eventually(t, func() bool { return svc.InFlight("a") }, time.Second, time.Millisecond)

	_, err := svc.Select(context.Background(), "a")
	require.ErrorIs(t, err, common.ErrActionInFlight)

	close(release)
	require.NoError(t, <-done)
	require.False(t, svc.InFlight("a"))
}

func TestSubmitFeedbackRequiresScheduledInterview(t *testing.T) {
	gw, _, svc := newActionFixture(t, testCandidate("a", pipeline.StateToReview, fixedNow()))

	_, err := svc.SubmitFeedback(context.Background(), validFeedback("a"))
	require.ErrorIs(t, err, common.ErrActionNotLegal)
	require.Zero(t, gw.callCount())
}

func TestSubmitFeedbackKeepsState(t *testing.T) {
	gw, cache, svc := newActionFixture(t, testCandidate("a", pipeline.StateInterviewScheduled, fixedNow()))
	gw.feedbackFn = func(ctx context.Context, req models.FeedbackRequest) (*models.Candidate, error) {
		c := testCandidate(req.CandidateID, pipeline.StateInterviewScheduled, fixedNow().Add(time.Second))
		return &c, nil
	}

	c, err := svc.SubmitFeedback(context.Background(), validFeedback("a"))
	require.NoError(t, err)
	require.Equal(t, pipeline.StateInterviewScheduled, c.CurrentState)

	cached, _ := cache.Get("a")
	require.Equal(t, pipeline.StateInterviewScheduled, cached.CurrentState)
}

func TestSubmitFeedbackAndScheduleNext(t *testing.T) {
	gw, _, svc := newActionFixture(t, testCandidate("a", pipeline.StateInterviewScheduled, fixedNow()))
	gw.feedbackFn = func(ctx context.Context, req models.FeedbackRequest) (*models.Candidate, error) {
		c := testCandidate(req.CandidateID, pipeline.StateInterviewScheduled, fixedNow().Add(time.Second))
		return &c, nil
	}
	gw.scheduleFn = func(ctx context.Context, req models.ScheduleInterviewRequest) (*models.Candidate, error) {
		c := testCandidate(req.CandidateID, pipeline.StateInterviewScheduled, fixedNow().Add(2*time.Second))
		return &c, nil
	}

	next := validSchedule("a")
	next.Round = 2
	_, err := svc.SubmitFeedbackAndScheduleNext(context.Background(), validFeedback("a"), next)
	require.NoError(t, err)
	require.Equal(t, []string{"SubmitFeedback a", "ScheduleInterview a"}, gw.calls)
}

func TestSubmitFeedbackAndScheduleNextPartialFailure(t *testing.T) {
	gw, _, svc := newActionFixture(t, testCandidate("a", pipeline.StateInterviewScheduled, fixedNow()))
	gw.feedbackFn = func(ctx context.Context, req models.FeedbackRequest) (*models.Candidate, error) {
		c := testCandidate(req.CandidateID, pipeline.StateInterviewScheduled, fixedNow().Add(time.Second))
		return &c, nil
	}
	gw.scheduleFn = func(ctx context.Context, req models.ScheduleInterviewRequest) (*models.Candidate, error) {
		return nil, fmt.Errorf("%w: connection refused", common.ErrUnavailable)
	}

	next := validSchedule("a")
	next.Round = 2
	c, err := svc.SubmitFeedbackAndScheduleNext(context.Background(), validFeedback("a"), next)

	var partial *PartialError
	require.True(t, errors.As(err, &partial))
	require.Contains(t, partial.Completed, "feedback for round 1")
	require.Contains(t, partial.Failed, "scheduling round 2")
	require.ErrorIs(t, err, common.ErrUnavailable)

	// The candidate snapshot from the completed half is still returned.
	require.NotNil(t, c)
}

func TestSubmitFeedbackAndScheduleNextRoundOrder(t *testing.T) {
	gw, _, svc := newActionFixture(t, testCandidate("a", pipeline.StateInterviewScheduled, fixedNow()))

	next := validSchedule("a")
	next.Round = 1
	_, err := svc.SubmitFeedbackAndScheduleNext(context.Background(), validFeedback("a"), next)
	require.ErrorIs(t, err, common.ErrValidation)
	require.Zero(t, gw.callCount())
}

func TestMarkLeftCompany(t *testing.T) {
	gw, cache, svc := newActionFixture(t, testCandidate("a", pipeline.StateJoined, fixedNow()))
	gw.leftFn = func(ctx context.Context, req models.LeftCompanyRequest) (*models.Candidate, error) {
		c := testCandidate(req.CandidateID, pipeline.StateLeftCompany, fixedNow().Add(time.Second))
		return &c, nil
	}

	last := fixedNow().Add(-24 * time.Hour)
	c, err := svc.MarkLeftCompany(context.Background(), models.LeftCompanyRequest{
		CandidateID:     "a",
		Reason:          models.LeaveResigned,
		Note:            "Resigned to relocate abroad.",
		LastWorkingDate: &last,
	})
	require.NoError(t, err)
	require.Equal(t, pipeline.StateLeftCompany, c.CurrentState)

	cached, _ := cache.Get("a")
	require.Empty(t, cached.AllowedActions)
}
