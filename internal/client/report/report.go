// Package report renders a candidate's profile and review history as plain
// text, suitable for printing or for sharing outside the portal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/talentdesk/internal/client/models"
)

const timeFormat = "Mon, 02 Jan 2006 15:04 MST"

// Write renders the report for one candidate to w. Events are expected
// oldest first, the order the timeline endpoint returns them in.
func Write(w io.Writer, c models.Candidate, events []models.TimelineEvent) error {
	var b strings.Builder

	line := strings.Repeat("=", 60)
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "CANDIDATE REPORT: %s\n", c.Name)
	fmt.Fprintln(&b, line)

	fmt.Fprintf(&b, "Application:  %s\n", c.ApplicationID)
	fmt.Fprintf(&b, "Stage:        %s\n", c.CurrentState.Label())
	if c.Email != "" {
		fmt.Fprintf(&b, "Email:        %s\n", c.Email)
	}
	if c.Phone != "" {
		fmt.Fprintf(&b, "Phone:        %s\n", c.Phone)
	}
	if c.Location != "" {
		fmt.Fprintf(&b, "Location:     %s\n", c.Location)
	}
	if c.CTCExpected != nil {
		fmt.Fprintf(&b, "Expected CTC: %.2f\n", *c.CTCExpected)
	}

	if len(c.Skills) > 0 {
		fmt.Fprintf(&b, "\nSkills: %s\n", strings.Join(c.Skills, ", "))
	}
	if c.ExperienceSummary != "" {
		fmt.Fprintf(&b, "\nExperience\n----------\n%s\n", c.ExperienceSummary)
	}

	fmt.Fprintf(&b, "\nHistory\n-------\n")
	if len(events) == 0 {
		fmt.Fprintln(&b, "No recorded events.")
	}
	for _, ev := range events {
		fmt.Fprintln(&b, formatEvent(ev))
	}

	fmt.Fprintf(&b, "\nGenerated %s\n", time.Now().Format(timeFormat))

	_, err := io.WriteString(w, b.String())
	return err
}

func formatEvent(ev models.TimelineEvent) string {
	ts := ev.Timestamp.Format(timeFormat)
	switch ev.Type {
	case models.EventInterviewRound:
		if ev.Interview != nil {
			return fmt.Sprintf("%s  Round %d interview (%s) with %s, scheduled for %s",
				ts, ev.Interview.Round, ev.Interview.Mode, ev.Interview.Interviewer,
				ev.Interview.ScheduledAt.Format(timeFormat))
		}
		return fmt.Sprintf("%s  Interview scheduled", ts)
	case models.EventFeedback:
		if ev.Feedback != nil {
			s := fmt.Sprintf("%s  Round %d feedback: %d/5, %s",
				ts, ev.Feedback.Round, ev.Feedback.Rating, ev.Feedback.Recommendation.Label())
			if ev.Note != "" {
				s += " - " + ev.Note
			}
			return s
		}
		return fmt.Sprintf("%s  Feedback recorded", ts)
	default:
		s := fmt.Sprintf("%s  Moved to %s", ts, ev.State.Label())
		if ev.Note != "" {
			s += " - " + ev.Note
		}
		return s
	}
}
