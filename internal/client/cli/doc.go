// Package cli provides the interactive portal command-line client.
//
// It wires configuration, the local cache database, the remote gateway, the
// session store, and the live update channel into an interactive REPL.
// Typical flow: restore or prompt for credentials, load the board, subscribe
// to live updates, then execute review commands.
//
// Key features:
//   - Login / Logout with credential restore across restarts
//   - Pipeline board and candidate detail views
//   - Scheduling interviews, recording feedback, selecting and rejecting
//   - Printable candidate reports
//   - Live updates with automatic and manual reconnection
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
