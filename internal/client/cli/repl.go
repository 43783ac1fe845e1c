package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	RequestOTP(ctx context.Context, args []string) error
	VerifyOTP(ctx context.Context, args []string) error
	Forgot(ctx context.Context, args []string) error
	VerifyReset(ctx context.Context, args []string) error
	Reset(ctx context.Context) error
	Employees(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Dept(ctx context.Context, args []string) error
	Assign(ctx context.Context, args []string) error
	Schedule(ctx context.Context, args []string) error
	Refresh(ctx context.Context) error
	RemoveTask(ctx context.Context, args []string) error
	RemoveUser(ctx context.Context) error
	Confirm(ctx context.Context) error
	Cancel(ctx context.Context) error
	Logs(ctx context.Context, args []string) error
	Back(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, otp [email], verify [code], forgot [email], verify-reset [code], reset, exit"
	helpLoggedIn  = "Available commands: employees, search <text>, filter [dept], dept <id> <dept>, assign <id>, " +
		"schedule <id>, refresh, remove-task <taskId>, remove-user, yes, no, logs <taskId>, back, logout, exit"
)

// runREPL reads commands line by line and dispatches them to a.
//
// The first token is the command, the rest are its arguments. Errors
// returned by handlers are ignored here: handlers report them to the user
// themselves, and no failure ends the loop. The loop exits on scanner EOF
// or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("trackmate%s> ", prefixed(statusFn())))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx)
		case "otp":
			_ = a.RequestOTP(ctx, args)
		case "verify":
			_ = a.VerifyOTP(ctx, args)
		case "forgot":
			_ = a.Forgot(ctx, args)
		case "verify-reset":
			_ = a.VerifyReset(ctx, args)
		case "reset":
			_ = a.Reset(ctx)

		case "employees":
			_ = a.Employees(ctx)
		case "search":
			_ = a.Search(ctx, []string{strings.Join(args, " ")})
		case "filter":
			_ = a.Filter(ctx, args)
		case "dept":
			_ = a.Dept(ctx, args)
		case "assign":
			_ = a.Assign(ctx, args)

		case "schedule":
			_ = a.Schedule(ctx, args)
		case "refresh":
			_ = a.Refresh(ctx)
		case "remove-task":
			_ = a.RemoveTask(ctx, args)
		case "remove-user":
			_ = a.RemoveUser(ctx)
		case "yes", "y":
			_ = a.Confirm(ctx)
		case "no", "n":
			_ = a.Cancel(ctx)
		case "logs":
			_ = a.Logs(ctx, args)
		case "back":
			_ = a.Back(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func prefixed(status string) string {
	if status == "" {
		return ""
	}
	return " " + status
}
