package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/talentdesk/internal/client/models"
	"github.com/dmitrijs2005/talentdesk/internal/client/services"
)

func (a *App) reportTransition(c *models.Candidate) {
	fmt.Fprintf(a.out, "%s is now in %s.\n", c.Name, c.CurrentState.Label())
}

// promptSchedule collects the fields of an interview round.
func (a *App) promptSchedule(id string, defaultRound int) (models.ScheduleInterviewRequest, error) {
	var req models.ScheduleInterviewRequest
	req.CandidateID = id

	round, err := GetInt(a.reader, "Round number", defaultRound, a.out)
	if err != nil {
		return req, err
	}
	req.Round = round

	mode, err := getSimpleText(a.reader, "Mode (video/phone/in_person) [video]", a.out)
	if err != nil {
		return req, err
	}
	if mode == "" {
		mode = string(models.ModeVideo)
	}
	req.Mode = models.InterviewMode(mode)

	when, err := GetTime(a.reader, "Date and time", a.out)
	if err != nil {
		return req, err
	}
	req.ScheduledAt = when

	interviewer, err := getSimpleText(a.reader, "Interviewer", a.out)
	if err != nil {
		return req, err
	}
	req.Interviewer = interviewer

	notes, err := getSimpleText(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return req, err
	}
	req.Notes = notes

	return req, nil
}

func (a *App) schedule(ctx context.Context, id string) {
	req, err := a.promptSchedule(id, 1)
	if err != nil {
		a.printErr(err)
		return
	}

	c, err := a.actions.ScheduleInterview(ctx, req)
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Round %d interview scheduled for %s.\n", req.Round, req.ScheduledAt.Format("2006-01-02 15:04"))
	a.reportTransition(c)
}

func (a *App) promptFeedback(id string) (models.FeedbackRequest, error) {
	var req models.FeedbackRequest
	req.CandidateID = id

	round, err := GetInt(a.reader, "Round number", 1, a.out)
	if err != nil {
		return req, err
	}
	req.Round = round

	rating, err := GetInt(a.reader, "Rating (1-5)", 3, a.out)
	if err != nil {
		return req, err
	}
	req.Rating = rating

	rec, err := getSimpleText(a.reader, "Recommendation (strong_yes/yes/neutral/no/strong_no)", a.out)
	if err != nil {
		return req, err
	}
	req.Recommendation = models.Recommendation(rec)

	note, err := GetMultiline(a.reader, "Feedback", a.out)
	if err != nil {
		return req, err
	}
	req.Note = note

	return req, nil
}

func (a *App) feedback(ctx context.Context, id string) {
	fb, err := a.promptFeedback(id)
	if err != nil {
		a.printErr(err)
		return
	}

	scheduleNext, err := Confirm(a.reader, "Schedule the next round now?", a.out)
	if err != nil {
		a.printErr(err)
		return
	}

	if !scheduleNext {
		if _, err := a.actions.SubmitFeedback(ctx, fb); err != nil {
			a.printErr(err)
			return
		}
		fmt.Fprintf(a.out, "Feedback for round %d recorded.\n", fb.Round)
		return
	}

	next, err := a.promptSchedule(id, fb.Round+1)
	if err != nil {
		a.printErr(err)
		return
	}

	c, err := a.actions.SubmitFeedbackAndScheduleNext(ctx, fb, next)
	if err != nil {
		var partial *services.PartialError
		if errors.As(err, &partial) {
			// The first half is already on the server; say so explicitly so
			// the user retries only the scheduling.
			fmt.Fprintf(a.out, "Recorded %s, but %s failed. Use 'schedule %s' to retry just that step.\n",
				partial.Completed, partial.Failed, id)
			return
		}
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Feedback recorded and round %d scheduled.\n", next.Round)
	a.reportTransition(c)
}

func (a *App) selectCmd(ctx context.Context, id string) {
	c, ok := a.cache.Get(id)
	if !ok {
		fmt.Fprintln(a.out, "Unknown candidate:", id)
		return
	}

	yes, err := Confirm(a.reader, fmt.Sprintf("Extend an offer to %s?", c.Name), a.out)
	if err != nil || !yes {
		return
	}

	out, err := a.actions.Select(ctx, id)
	if err != nil {
		a.printErr(err)
		return
	}
	a.reportTransition(out)
}

func (a *App) reject(ctx context.Context, id string) {
	fmt.Fprintln(a.out, "Reasons:")
	for _, r := range []models.RejectReason{
		models.RejectSkillMismatch,
		models.RejectExperienceInsufficient,
		models.RejectCultureFit,
		models.RejectSalaryExpectation,
		models.RejectOther,
	} {
		fmt.Fprintf(a.out, "  %-24s %s\n", r, r.Label())
	}

	reason, err := getSimpleText(a.reader, "Reason code", a.out)
	if err != nil {
		a.printErr(err)
		return
	}

	note, err := GetMultiline(a.reader, "Explanation (at least 10 characters)", a.out)
	if err != nil {
		a.printErr(err)
		return
	}

	c, err := a.actions.Reject(ctx, models.RejectRequest{
		CandidateID: id,
		Reason:      models.RejectReason(reason),
		Note:        note,
	})
	if err != nil {
		a.printErr(err)
		return
	}
	a.reportTransition(c)
}

func (a *App) left(ctx context.Context, id string) {
	fmt.Fprintln(a.out, "Reasons:")
	for _, r := range []models.LeaveReason{
		models.LeaveResigned,
		models.LeaveTerminated,
		models.LeaveContractEnded,
		models.LeaveOther,
	} {
		fmt.Fprintf(a.out, "  %-16s %s\n", r, r.Label())
	}

	reason, err := getSimpleText(a.reader, "Reason code", a.out)
	if err != nil {
		a.printErr(err)
		return
	}

	note, err := GetMultiline(a.reader, "Details (at least 10 characters)", a.out)
	if err != nil {
		a.printErr(err)
		return
	}

	req := models.LeftCompanyRequest{
		CandidateID: id,
		Reason:      models.LeaveReason(reason),
		Note:        note,
	}

	date, err := GetDate(a.reader, "Last working date", a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	if !date.IsZero() {
		req.LastWorkingDate = &date
	}

	c, err := a.actions.MarkLeftCompany(ctx, req)
	if err != nil {
		a.printErr(err)
		return
	}
	a.reportTransition(c)
}
