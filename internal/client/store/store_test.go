package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/talentdesk/internal/client/models"
	"github.com/dmitrijs2005/talentdesk/internal/pipeline"
)

func candidate(id string, state pipeline.State, updatedAt time.Time) models.Candidate {
	return models.Candidate{ID: id, Name: "Candidate " + id, CurrentState: state, UpdatedAt: updatedAt}
}

func TestReplacePreservesOrder(t *testing.T) {
	s := NewCandidateStore()
	now := time.Now()

	s.Replace([]models.Candidate{
		candidate("b", pipeline.StateToReview, now),
		candidate("a", pipeline.StateSelected, now),
		candidate("c", pipeline.StateToReview, now),
	})

	require.Equal(t, 3, s.Len())
	list := s.List()
	require.Equal(t, []string{"b", "a", "c"}, []string{list[0].ID, list[1].ID, list[2].ID})

	// A later replace drops entries that are gone.
	s.Replace([]models.Candidate{candidate("a", pipeline.StateSelected, now)})
	require.Equal(t, 1, s.Len())
	_, ok := s.Get("b")
	require.False(t, ok)
}

func TestMergeUpsertsAndRefusesStale(t *testing.T) {
	s := NewCandidateStore()
	base := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	require.True(t, s.Merge(candidate("a", pipeline.StateToReview, base)))

	// Fresher snapshot wins.
	require.True(t, s.Merge(candidate("a", pipeline.StateInterviewScheduled, base.Add(time.Minute))))
	got, ok := s.Get("a")
	require.True(t, ok)
	require.Equal(t, pipeline.StateInterviewScheduled, got.CurrentState)

	// Strictly older snapshot is refused.
	require.False(t, s.Merge(candidate("a", pipeline.StateToReview, base)))
	got, _ = s.Get("a")
	require.Equal(t, pipeline.StateInterviewScheduled, got.CurrentState)

	// Equal timestamps overwrite.
	require.True(t, s.Merge(candidate("a", pipeline.StateSelected, base.Add(time.Minute))))
	got, _ = s.Get("a")
	require.Equal(t, pipeline.StateSelected, got.CurrentState)
}

func TestMergeAppendsNewAtEnd(t *testing.T) {
	s := NewCandidateStore()
	now := time.Now()

	s.Replace([]models.Candidate{candidate("a", pipeline.StateToReview, now)})
	s.Merge(candidate("b", pipeline.StateToReview, now))

	list := s.List()
	require.Len(t, list, 2)
	require.Equal(t, "b", list[1].ID)
}

func TestByState(t *testing.T) {
	s := NewCandidateStore()
	now := time.Now()

	s.Replace([]models.Candidate{
		candidate("a", pipeline.StateToReview, now),
		candidate("b", pipeline.StateJoined, now),
		candidate("c", pipeline.StateToReview, now),
	})

	toReview := s.ByState(pipeline.StateToReview)
	require.Len(t, toReview, 2)
	require.Equal(t, "a", toReview[0].ID)
	require.Equal(t, "c", toReview[1].ID)
	require.Empty(t, s.ByState(pipeline.StateLeftCompany))
}
