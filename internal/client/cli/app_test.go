package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/resumeforge/resumeforge/internal/client/config"
	"github.com/resumeforge/resumeforge/internal/client/models"
	"github.com/resumeforge/resumeforge/internal/client/session"
	"github.com/resumeforge/resumeforge/internal/logging"
)

// stubInputs replaces the interactive input seams with canned answers.
// Each call to getSimpleText pops the next answer; getPassword always
// returns password.
func stubInputs(t *testing.T, answers []string, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword

	queue := answers
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(queue) == 0 {
			t.Fatal("getSimpleText called with no queued answer")
		}
		next := queue[0]
		queue = queue[1:]
		return next, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }

	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeSession struct {
	state session.State
	calls []string

	loginErr    error
	registerErr error
	guestErr    error
	upgradeErr  error
	emailErr    error
}

func (f *fakeSession) Current() session.State { return f.state }
func (f *fakeSession) Subscribe(fn func(session.State)) func() {
	fn(f.state)
	return func() {}
}
func (f *fakeSession) Resolve(_ context.Context, code string) {
	f.calls = append(f.calls, "resolve "+code)
}
func (f *fakeSession) Login(_ context.Context, email, _ string) error {
	f.calls = append(f.calls, "login "+email)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.state = session.State{Identity: session.Identity{Kind: session.IdentityVerified, Email: email}}
	return nil
}
func (f *fakeSession) Register(_ context.Context, email, _ string) error {
	f.calls = append(f.calls, "register "+email)
	return f.registerErr
}
func (f *fakeSession) LoginAsGuest(_ context.Context) error {
	f.calls = append(f.calls, "guest")
	if f.guestErr != nil {
		return f.guestErr
	}
	f.state = session.State{Identity: session.Identity{Kind: session.IdentityGuest}}
	return nil
}
func (f *fakeSession) UpgradeAccount(_ context.Context, email, _ string) error {
	f.calls = append(f.calls, "upgrade "+email)
	return f.upgradeErr
}
func (f *fakeSession) ChangeEmail(_ context.Context, email, _ string) error {
	f.calls = append(f.calls, "email "+email)
	return f.emailErr
}
func (f *fakeSession) Logout(_ context.Context) {
	f.calls = append(f.calls, "logout")
	f.state = session.State{Identity: session.Identity{Kind: session.IdentityAnonymous}}
}

type fakeResumes struct {
	currentID int64
	list      []models.SavedResume
	listErr   error

	saveID    int64
	saveErr   error
	savedName string
	savedDoc  models.ResumeData

	loaded  *models.SavedResume
	loadErr error

	exportData []byte

	calls []string
}

func (f *fakeResumes) CurrentID() int64 { return f.currentID }
func (f *fakeResumes) NewDocument() {
	f.calls = append(f.calls, "newdocument")
	f.currentID = 0
}
func (f *fakeResumes) List(_ context.Context) ([]models.SavedResume, error) {
	f.calls = append(f.calls, "list")
	return f.list, f.listErr
}
func (f *fakeResumes) Save(_ context.Context, name string, doc models.ResumeData) (int64, error) {
	f.calls = append(f.calls, "save "+name)
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.savedName, f.savedDoc = name, doc
	f.currentID = f.saveID
	return f.saveID, nil
}
func (f *fakeResumes) Load(_ context.Context, id int64) (*models.SavedResume, error) {
	f.calls = append(f.calls, fmt.Sprintf("load %d", id))
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	f.currentID = f.loaded.ID
	return f.loaded, nil
}
func (f *fakeResumes) Delete(_ context.Context, id int64) error {
	f.calls = append(f.calls, fmt.Sprintf("delete %d", id))
	return nil
}
func (f *fakeResumes) Rename(_ context.Context, id int64, name string) error {
	f.calls = append(f.calls, fmt.Sprintf("rename %d %s", id, name))
	return nil
}
func (f *fakeResumes) ExportPDF(_ context.Context, id int64, templateID, lang string) ([]byte, error) {
	f.calls = append(f.calls, fmt.Sprintf("export %d %s %s", id, templateID, lang))
	return f.exportData, nil
}

type fakePreview struct {
	lastDoc  models.ResumeData
	lastLang string
	updates  int
	resets   int
	refreshs int
	closes   int
}

func (f *fakePreview) Update(doc models.ResumeData, lang string) {
	f.lastDoc, f.lastLang = doc, lang
	f.updates++
}
func (f *fakePreview) Refresh() { f.refreshs++ }
func (f *fakePreview) Reset()   { f.resets++ }
func (f *fakePreview) Close()   { f.closes++ }

type fakeDrafts struct {
	byID  map[int64]*models.Draft
	calls []string
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{byID: make(map[int64]*models.Draft)}
}

func (f *fakeDrafts) Get(_ context.Context, resumeID int64) (*models.Draft, error) {
	f.calls = append(f.calls, fmt.Sprintf("get %d", resumeID))
	return f.byID[resumeID], nil
}
func (f *fakeDrafts) Save(_ context.Context, d *models.Draft) error {
	f.calls = append(f.calls, fmt.Sprintf("save %d", d.ResumeID))
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now()
	}
	f.byID[d.ResumeID] = d
	return nil
}
func (f *fakeDrafts) Delete(_ context.Context, resumeID int64) error {
	f.calls = append(f.calls, fmt.Sprintf("delete %d", resumeID))
	delete(f.byID, resumeID)
	return nil
}
func (f *fakeDrafts) Rekey(_ context.Context, oldID, newID int64) error {
	f.calls = append(f.calls, fmt.Sprintf("rekey %d %d", oldID, newID))
	if d, ok := f.byID[oldID]; ok {
		delete(f.byID, oldID)
		d.ResumeID = newID
		f.byID[newID] = d
	}
	return nil
}
func (f *fakeDrafts) List(_ context.Context) ([]*models.Draft, error) {
	var out []*models.Draft
	for _, d := range f.byID {
		out = append(out, d)
	}
	return out, nil
}
func (f *fakeDrafts) Clear(_ context.Context) error {
	f.calls = append(f.calls, "clear")
	f.byID = make(map[int64]*models.Draft)
	return nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestApp wires an App out of fakes. The returned fakes are the same
// instances held by the app.
func newTestApp(loggedIn bool) (*App, *fakeSession, *fakeResumes, *fakePreview, *fakeDrafts) {
	sess := &fakeSession{}
	if loggedIn {
		sess.state = session.State{Identity: session.Identity{
			Kind: session.IdentityVerified, Email: "alice@example.org",
		}}
	}
	res := &fakeResumes{}
	prev := &fakePreview{}
	dr := newFakeDrafts()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	a := &App{
		config:  cfg,
		logger:  discardLogger(),
		session: sess,
		resumes: res,
		preview: prev,
		drafts:  dr,
		reader:  bufio.NewReader(strings.NewReader("")),
		doc:     models.EmptyResumeData(),
	}
	return a, sess, res, prev, dr
}
