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
	Register(ctx context.Context) error
	Guest(ctx context.Context) error
	Upgrade(ctx context.Context) error
	ChangeEmail(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Open(ctx context.Context) error
	Save(ctx context.Context) error
	Rename(ctx context.Context) error
	Delete(ctx context.Context) error
	Export(ctx context.Context) error
	Edit(ctx context.Context) error
	AddExperience(ctx context.Context) error
	AddEducation(ctx context.Context) error
	Show(ctx context.Context) error
	NewDocument(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the ResumeForge CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate with email and password
//	  - register       — create an account (requires email verification)
//	  - guest          — start a guest session
//	  - edit, show     — work on the local document
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - edit           — change a document field
//	  - addexp, addedu — append an experience / education item
//	  - (l)ist         — list saved resumes
//	  - open | save | rename | delete | export
//	  - new            — start a fresh document
//	  - refresh        — force a preview re-render
//	  - upgrade        — turn a guest session into a permanent account
//	  - email          — change the address of an unverified account
//	  - whoami | logout | exit | quit
//
// Any errors returned by command handlers are reported but do not stop the
// loop. This keeps the REPL resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	report := func(err error) {
		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}

	for {
		printlnFn(fmt.Sprintf("rf %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: edit, addexp, addedu, show, (l)ist, open, save, rename, delete, export, new, refresh, upgrade, email, whoami, logout, exit")
			} else {
				printlnFn("Available commands: login, register, guest, edit, show, whoami, exit")
			}

		case "login":
			report(a.Login(ctx))

		case "register":
			report(a.Register(ctx))

		case "guest":
			report(a.Guest(ctx))

		case "upgrade":
			report(a.Upgrade(ctx))

		case "email":
			report(a.ChangeEmail(ctx))

		case "whoami":
			report(a.WhoAmI(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "l", "list":
			report(a.List(ctx))

		case "open":
			report(a.Open(ctx))

		case "save":
			report(a.Save(ctx))

		case "rename":
			report(a.Rename(ctx))

		case "delete":
			report(a.Delete(ctx))

		case "export":
			report(a.Export(ctx))

		case "edit":
			report(a.Edit(ctx))

		case "addexp":
			report(a.AddExperience(ctx))

		case "addedu":
			report(a.AddEducation(ctx))

		case "show":
			report(a.Show(ctx))

		case "new":
			report(a.NewDocument(ctx))

		case "refresh":
			report(a.Refresh(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
