package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/talentdesk/internal/client/models"
	"github.com/dmitrijs2005/talentdesk/internal/client/report"
	"github.com/dmitrijs2005/talentdesk/internal/pipeline"
)

// board prints the pipeline view: one column per stage, in board order.
func (a *App) board() {
	for _, state := range pipeline.States {
		group := a.cache.ByState(state)
		fmt.Fprintf(a.out, "%s (%d)\n", state.Label(), len(group))
		for _, c := range group {
			marker := ""
			if a.actions.InFlight(c.ID) {
				marker = " *"
			}
			fmt.Fprintf(a.out, "  [%s] %s%s\n", c.ID, c.Name, marker)
		}
	}
}

func (a *App) list() {
	for _, c := range a.cache.List() {
		fmt.Fprintf(a.out, "[%s] %-24s %s\n", c.ID, c.Name, c.CurrentState.Label())
	}
	if a.cache.Len() == 0 {
		fmt.Fprintln(a.out, "No candidates loaded. Try 'refresh'.")
	}
}

// show prints one candidate's details from the cache, refreshing it first so
// the view is current.
func (a *App) show(ctx context.Context, id string) {
	c, err := a.candidates.RefreshCandidate(ctx, id)
	if err != nil {
		// Fall back to the cached snapshot when the backend is unreachable.
		cached, ok := a.cache.Get(id)
		if !ok {
			a.printErr(err)
			return
		}
		fmt.Fprintln(a.out, "Showing cached data; the backend could not be reached.")
		c = &cached
	}

	fmt.Fprintf(a.out, "%s  [%s]\n", c.Name, c.ID)
	fmt.Fprintf(a.out, "Stage:       %s\n", c.CurrentState.Label())
	fmt.Fprintf(a.out, "Application: %s\n", c.ApplicationID)
	if c.Email != "" {
		fmt.Fprintf(a.out, "Email:       %s\n", c.Email)
	}
	if c.Phone != "" {
		fmt.Fprintf(a.out, "Phone:       %s\n", c.Phone)
	}
	if c.Location != "" {
		fmt.Fprintf(a.out, "Location:    %s\n", c.Location)
	}
	if len(c.Skills) > 0 {
		fmt.Fprintf(a.out, "Skills:      %s\n", strings.Join(c.Skills, ", "))
	}
	if c.ExperienceSummary != "" {
		fmt.Fprintf(a.out, "Experience:  %s\n", c.ExperienceSummary)
	}
	if c.CTCExpected != nil {
		fmt.Fprintf(a.out, "Expected CTC: %.2f\n", *c.CTCExpected)
	}

	if len(c.AllowedActions) == 0 {
		fmt.Fprintln(a.out, "No actions available (final stage).")
		return
	}
	names := make([]string, 0, len(c.AllowedActions))
	for _, action := range c.AllowedActions {
		names = append(names, actionCommand(action))
	}
	fmt.Fprintf(a.out, "Actions:     %s\n", strings.Join(names, ", "))
}

func actionCommand(action pipeline.Action) string {
	switch action {
	case pipeline.ActionScheduleInterview:
		return "schedule"
	case pipeline.ActionSelect:
		return "select"
	case pipeline.ActionReject:
		return "reject"
	case pipeline.ActionMarkLeftCompany:
		return "left"
	default:
		return strings.ToLower(string(action))
	}
}

func (a *App) timeline(ctx context.Context, id string) {
	events, err := a.candidates.Timeline(ctx, id)
	if err != nil {
		a.printErr(err)
		return
	}
	if len(events) == 0 {
		fmt.Fprintln(a.out, "No recorded events.")
		return
	}
	for _, ev := range events {
		fmt.Fprintf(a.out, "%s  %s\n", ev.Timestamp.Local().Format("2006-01-02 15:04"), describeEvent(ev))
	}
}

func describeEvent(ev models.TimelineEvent) string {
	switch ev.Type {
	case models.EventInterviewRound:
		if ev.Interview != nil {
			return fmt.Sprintf("Round %d interview (%s) with %s", ev.Interview.Round, ev.Interview.Mode, ev.Interview.Interviewer)
		}
		return "Interview scheduled"
	case models.EventFeedback:
		if ev.Feedback != nil {
			return fmt.Sprintf("Round %d feedback: %d/5, %s", ev.Feedback.Round, ev.Feedback.Rating, ev.Feedback.Recommendation.Label())
		}
		return "Feedback recorded"
	default:
		s := "Moved to " + ev.State.Label()
		if ev.Note != "" {
			s += " - " + ev.Note
		}
		return s
	}
}

// reportCmd renders the printable report for a candidate.
func (a *App) reportCmd(ctx context.Context, id string) {
	c, ok := a.cache.Get(id)
	if !ok {
		refreshed, err := a.candidates.RefreshCandidate(ctx, id)
		if err != nil {
			a.printErr(err)
			return
		}
		c = *refreshed
	}

	events, err := a.candidates.Timeline(ctx, id)
	if err != nil {
		a.printErr(err)
		return
	}

	if err := report.Write(a.out, c, events); err != nil {
		a.printErr(err)
	}
}
