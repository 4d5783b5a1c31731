package cli

import (
	"context"
	"fmt"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// loginCmd prompts for credentials and authenticates. On success it loads
// the board and opens the live subscription.
func (a *App) loginCmd(ctx context.Context) {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		a.printErr(err)
		return
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		a.printErr(err)
		return
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		a.printErr(err)
		return
	}

	if id := a.session.Identity(); id != nil && id.ClientName != "" {
		fmt.Fprintf(a.out, "Signed in as %s (%s)\n", id.Email, id.ClientName)
	} else {
		fmt.Fprintln(a.out, "Signed in.")
	}
	a.afterAuth(ctx)
}

// logoutCmd ends the session and stops the live subscription. It always
// succeeds from the user's point of view.
func (a *App) logoutCmd(ctx context.Context) {
	if a.channel != nil {
		a.channel.Stop()
	}
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out.")
}

func (a *App) whoami() {
	id := a.session.Identity()
	if id == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return
	}
	fmt.Fprintf(a.out, "%s (%s)", id.Email, id.Role)
	if id.ClientName != "" {
		fmt.Fprintf(a.out, " at %s", id.ClientName)
	}
	fmt.Fprintln(a.out)
	if exp := a.session.ExpiresAt(); !exp.IsZero() {
		fmt.Fprintf(a.out, "Session valid until %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
}
