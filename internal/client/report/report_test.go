package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/talentdesk/internal/client/models"
	"github.com/dmitrijs2005/talentdesk/internal/pipeline"
)

func TestWriteRendersProfileAndHistory(t *testing.T) {
	scheduled := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	c := models.Candidate{
		ID:                "c1",
		ApplicationID:     "APP-2024-001",
		Name:              "Sarah Chen",
		Email:             "sarah@example.com",
		Location:          "Berlin",
		Skills:            []string{"Go", "PostgreSQL"},
		ExperienceSummary: "7 years of experience",
		CurrentState:      pipeline.StateInterviewScheduled,
	}
	events := []models.TimelineEvent{
		{
			Type:      models.EventStateChange,
			State:     pipeline.StateToReview,
			Timestamp: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
			Note:      "Application received",
		},
		{
			Type:      models.EventInterviewRound,
			Timestamp: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
			Interview: &models.InterviewRound{Round: 1, Mode: models.ModeVideo, Interviewer: "Alex Morgan", ScheduledAt: scheduled},
		},
		{
			Type:      models.EventFeedback,
			Timestamp: time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC),
			Note:      "Strong round.",
			Feedback:  &models.Feedback{Round: 1, Rating: 4, Recommendation: models.RecommendYes},
		},
	}

	var out strings.Builder
	require.NoError(t, Write(&out, c, events))
	text := out.String()

	require.Contains(t, text, "CANDIDATE REPORT: Sarah Chen")
	require.Contains(t, text, "APP-2024-001")
	require.Contains(t, text, "Interview Scheduled")
	require.Contains(t, text, "Go, PostgreSQL")
	require.Contains(t, text, "7 years of experience")
	require.Contains(t, text, "Round 1 interview (video) with Alex Morgan")
	require.Contains(t, text, "Round 1 feedback: 4/5, Yes - Strong round.")
	require.Contains(t, text, "Moved to To Review - Application received")
}

func TestWriteWithoutEvents(t *testing.T) {
	var out strings.Builder
	c := models.Candidate{Name: "Marcus Johnson", CurrentState: pipeline.StateToReview}
	require.NoError(t, Write(&out, c, nil))
	require.Contains(t, out.String(), "No recorded events.")
}
