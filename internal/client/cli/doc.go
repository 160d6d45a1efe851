// Package cli provides the interactive choirhub command-line client.
//
// It wires configuration, local state, API services and a REPL. On start the
// App restores a saved session, starts a background connectivity watcher that
// probes /api/health, and reads commands until the user exits.
//
// Commands:
//   - register, login, logout, me, passwd
//   - members, pending, approve <id>, reject <id>, role <id> <member|admin>,
//     delete <id> (the server decides which of these the caller may run)
//   - upload-recording [<path> <title>] (prompts when no arguments are given)
//   - help, exit
//
// See App, StartOnlineStatusWatcher and runREPL for details.
package cli
