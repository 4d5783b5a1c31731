package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	parts := []string{}
	if id := a.session.Identity(); id != nil {
		parts = append(parts, id.Email)
	}
	if c := a.connectivity(); c != "" {
		parts = append(parts, c)
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// Root runs the REPL until exit or EOF.
func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to the TalentDesk portal (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	if !a.isLoggedIn() {
		a.loginCmd(ctx)
	}

	for {
		fmt.Fprintf(a.out, "portal %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		if !a.isLoggedIn() {
			switch cmd {
			case "login":
				a.loginCmd(ctx)
			case "help":
				fmt.Fprintln(a.out, "Available commands: login, exit")
			case "exit", "quit":
				fmt.Fprintln(a.out, "Bye!")
				return
			default:
				fmt.Fprintln(a.out, "Please log in first.")
			}
			continue
		}

		switch cmd {
		case "help":
			a.help()
		case "login":
			a.loginCmd(ctx)
		case "logout":
			a.logoutCmd(ctx)
		case "whoami":
			a.whoami()
		case "board", "b":
			a.board()
		case "list", "l":
			a.list()
		case "show":
			a.withCandidateArg(args, "show", func(id string) { a.show(ctx, id) })
		case "timeline":
			a.withCandidateArg(args, "timeline", func(id string) { a.timeline(ctx, id) })
		case "report":
			a.withCandidateArg(args, "report", func(id string) { a.reportCmd(ctx, id) })
		case "schedule":
			a.withCandidateArg(args, "schedule", func(id string) { a.schedule(ctx, id) })
		case "feedback":
			a.withCandidateArg(args, "feedback", func(id string) { a.feedback(ctx, id) })
		case "select":
			a.withCandidateArg(args, "select", func(id string) { a.selectCmd(ctx, id) })
		case "reject":
			a.withCandidateArg(args, "reject", func(id string) { a.reject(ctx, id) })
		case "left":
			a.withCandidateArg(args, "left", func(id string) { a.left(ctx, id) })
		case "refresh":
			a.refresh(ctx)
		case "reconnect":
			a.reconnect(ctx)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) help() {
	fmt.Fprintln(a.out, `Available commands:
  board, b            pipeline board grouped by stage
  list, l             flat candidate list
  show <id>           candidate details
  timeline <id>       candidate history
  report <id>         printable candidate report
  schedule <id>       schedule an interview round
  feedback <id>       record interview feedback
  select <id>         extend an offer to the candidate
  reject <id>         reject the candidate
  left <id>           mark a joined candidate as having left
  refresh             reload the board from the backend
  reconnect           resubscribe to live updates
  whoami              show the signed-in user
  logout, exit`)
}

func (a *App) withCandidateArg(args []string, cmd string, fn func(id string)) {
	if len(args) != 1 {
		fmt.Fprintf(a.out, "Usage: %s <candidate-id>\n", cmd)
		return
	}
	fn(args[0])
}

func (a *App) refresh(ctx context.Context) {
	if err := a.candidates.Refresh(ctx); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Refreshed %d candidates.\n", a.cache.Len())
}

func (a *App) reconnect(ctx context.Context) {
	if a.channel == nil {
		fmt.Fprintln(a.out, "Live updates are not used in demo mode.")
		return
	}
	a.channel.Reconnect(ctx)
	fmt.Fprintln(a.out, "Resubscribing to live updates...")
}
