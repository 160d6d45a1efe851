package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Passwd(ctx context.Context) error
	Members(ctx context.Context) error
	Pending(ctx context.Context) error
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	Role(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error
	UploadRecording(ctx context.Context, path, title string) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = "Available commands: me, members, pending, approve <id>, reject <id>, " +
		"role <id> <member|admin>, delete <id>, upload-recording [<path> <title>], passwd, logout, help, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// The prompt shows statusFn(). The loop ends on EOF, on "exit"/"quit" or
// when ctx is cancelled. Command errors are printed and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("choir %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn(describe(err))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		if _, known := loggedInCommands[cmd]; known {
			return errLoginRequired
		}
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "me":
		return a.Me(ctx)
	case "passwd":
		return a.Passwd(ctx)
	case "members":
		return a.Members(ctx)
	case "pending":
		return a.Pending(ctx)
	case "approve":
		if len(args) != 1 {
			return usage("approve <id>")
		}
		return a.Approve(ctx, args[0])
	case "reject":
		if len(args) != 1 {
			return usage("reject <id>")
		}
		return a.Reject(ctx, args[0])
	case "role":
		if len(args) != 2 {
			return usage("role <id> <member|admin>")
		}
		return a.Role(ctx, args[0], args[1])
	case "delete":
		if len(args) != 1 {
			return usage("delete <id>")
		}
		return a.Delete(ctx, args[0])
	case "upload-recording":
		// Without arguments the path and title are prompted for, which keeps
		// spaces in the path intact.
		switch len(args) {
		case 0:
			return a.UploadRecording(ctx, "", "")
		case 1:
			return usage("upload-recording [<path> <title>]")
		}
		return a.UploadRecording(ctx, args[0], strings.Join(args[1:], " "))
	}
	return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
}

var loggedInCommands = map[string]struct{}{
	"logout": {}, "me": {}, "passwd": {}, "members": {}, "pending": {}, "approve": {},
	"reject": {}, "role": {}, "delete": {}, "upload-recording": {},
}
