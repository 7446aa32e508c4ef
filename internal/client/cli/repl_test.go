package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Register(ctx context.Context) error    { return f.record("register") }
func (f *fakeExec) Guest(ctx context.Context) error       { return f.record("guest") }
func (f *fakeExec) Upgrade(ctx context.Context) error     { return f.record("upgrade") }
func (f *fakeExec) ChangeEmail(ctx context.Context) error { return f.record("email") }
func (f *fakeExec) WhoAmI(ctx context.Context) error      { return f.record("whoami") }
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) List(ctx context.Context) error          { return f.record("list") }
func (f *fakeExec) Open(ctx context.Context) error          { return f.record("open") }
func (f *fakeExec) Save(ctx context.Context) error          { return f.record("save") }
func (f *fakeExec) Rename(ctx context.Context) error        { return f.record("rename") }
func (f *fakeExec) Delete(ctx context.Context) error        { return f.record("delete") }
func (f *fakeExec) Export(ctx context.Context) error        { return f.record("export") }
func (f *fakeExec) Edit(ctx context.Context) error          { return f.record("edit") }
func (f *fakeExec) AddExperience(ctx context.Context) error { return f.record("addexp") }
func (f *fakeExec) AddEducation(ctx context.Context) error  { return f.record("addedu") }
func (f *fakeExec) Show(ctx context.Context) error          { return f.record("show") }
func (f *fakeExec) NewDocument(ctx context.Context) error   { return f.record("new") }
func (f *fakeExec) Refresh(ctx context.Context) error       { return f.record("refresh") }

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"edit",
		"addexp",
		"l",
		"save",
		"export",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "edit", "addexp", "list", "save", "export"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_UnknownAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("bogus\n\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("whoami\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 1 || exec.calls[0] != "whoami" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
