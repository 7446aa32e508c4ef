package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/resumeforge/resumeforge/internal/client/api"
	"github.com/resumeforge/resumeforge/internal/client/config"
	"github.com/resumeforge/resumeforge/internal/client/models"
	"github.com/resumeforge/resumeforge/internal/client/preview"
	"github.com/resumeforge/resumeforge/internal/client/repositories/drafts"
	"github.com/resumeforge/resumeforge/internal/client/resumes"
	"github.com/resumeforge/resumeforge/internal/client/session"
	"github.com/resumeforge/resumeforge/internal/client/store"
	"github.com/resumeforge/resumeforge/internal/filex"
	"github.com/resumeforge/resumeforge/internal/logging"

	_ "modernc.org/sqlite"
)

// sessionService is the slice of the session manager the CLI uses.
type sessionService interface {
	Current() session.State
	Subscribe(fn func(session.State)) (cancel func())
	Resolve(ctx context.Context, oauthCode string)
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password string) error
	LoginAsGuest(ctx context.Context) error
	UpgradeAccount(ctx context.Context, email, password string) error
	ChangeEmail(ctx context.Context, email, password string) error
	Logout(ctx context.Context)
}

// resumeService is the slice of the persistence orchestrator the CLI uses.
type resumeService interface {
	CurrentID() int64
	NewDocument()
	List(ctx context.Context) ([]models.SavedResume, error)
	Save(ctx context.Context, name string, doc models.ResumeData) (int64, error)
	Load(ctx context.Context, id int64) (*models.SavedResume, error)
	Delete(ctx context.Context, id int64) error
	Rename(ctx context.Context, id int64, newName string) error
	ExportPDF(ctx context.Context, id int64, templateID, lang string) ([]byte, error)
}

// previewService is the slice of the preview synchronizer the CLI uses.
type previewService interface {
	Update(doc models.ResumeData, lang string)
	Refresh()
	Reset()
	Close()
}

// App glues the client components together behind the REPL.
type App struct {
	config  *config.Config
	logger  logging.Logger
	session sessionService
	resumes resumeService
	preview previewService
	drafts  drafts.Repository
	reader  *bufio.Reader

	// mu guards the open document. The REPL edits it; session callbacks
	// arriving from a render goroutine's 401 may reset it concurrently.
	mu      sync.Mutex
	doc     models.ResumeData
	docName string
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	repos, err := store.InitDatabase(ctx, c.DraftDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing draft database: %w", err)
	}

	apiClient, err := api.NewClient(c.APIBaseURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: c,
		logger: logger,
		drafts: repos.Drafts,
		reader: bufio.NewReader(os.Stdin),
		doc:    models.EmptyResumeData(),
	}

	a.session = session.NewManager(apiClient, logger)

	a.preview = preview.NewSynchronizer(&preview.APIRenderer{API: apiClient}, preview.Config{
		Debounce: c.PreviewDebounce,
		OnUpdate: a.writePreview,
		OnError:  func(msg string) { fmt.Println("Preview:", msg) },
		Logger:   logger,
	})

	a.resumes = resumes.New(apiClient, a.session, resumes.Config{
		OnLimit: func() {
			fmt.Println("Resume limit reached. Upgrade your account to save more resumes.")
		},
		OnReset: a.resetDocument,
		Logger:  logger,
	})

	// A session ending for any reason (logout, forced 401) empties the
	// editor and tears down the preview.
	a.session.Subscribe(func(st session.State) {
		if !st.Loading && !st.Authenticated() {
			a.preview.Reset()
			a.resetDocument()
		}
	})

	return a, nil
}

// Run resolves the session, restores the most recent local draft, and enters
// the REPL. It blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.preview.Close()

	a.session.Resolve(ctx, a.config.OAuthCode)
	a.restoreDraft(ctx)

	fmt.Println("Welcome to ResumeForge CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.session.Current().Authenticated()
}

// getStatus renders the REPL prompt suffix: identity plus the open document.
func (a *App) getStatus() string {
	st := a.session.Current()

	s := st.Identity.Kind.String()
	if st.Identity.Email != "" {
		s = st.Identity.Email + " " + s
	}

	a.mu.Lock()
	name := a.docName
	a.mu.Unlock()
	if name != "" {
		s = s + " | " + name
	}

	return fmt.Sprintf("(%s)", s)
}

// writePreview lands a freshly rendered preview on disk. Invoked from the
// render goroutine.
func (a *App) writePreview(res *preview.Resource) {
	data := res.Bytes()
	if data == nil {
		return
	}
	if err := filex.WriteFileAtomic(a.config.PreviewOutput, data); err != nil {
		a.logger.Error(context.Background(), "failed to write preview", "error", err)
		return
	}
	fmt.Printf("Preview updated: %s\n", a.config.PreviewOutput)
}

// snapshot returns a copy of the open document and its name.
func (a *App) snapshot() (models.ResumeData, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc, a.docName
}

// resetDocument drops the open document back to a fresh empty one.
func (a *App) resetDocument() {
	a.mu.Lock()
	a.doc = models.EmptyResumeData()
	a.docName = ""
	a.mu.Unlock()
}

// saveDraft autosaves the open document locally, keyed by its server ID
// (0 while unsaved). Draft failures are logged, never surfaced: autosave
// must not interrupt editing.
func (a *App) saveDraft(ctx context.Context) {
	doc, name := a.snapshot()
	d := &models.Draft{
		ResumeID: a.resumes.CurrentID(),
		Name:     name,
		Content:  &doc,
	}
	if err := a.drafts.Save(ctx, d); err != nil {
		a.logger.Warn(ctx, "draft autosave failed", "error", err)
	}
}

// restoreDraft loads the unsaved local draft into the editor, so an
// interrupted session picks up where it left off. Drafts of saved resumes
// are recovered through Open instead.
func (a *App) restoreDraft(ctx context.Context) {
	d, err := a.drafts.Get(ctx, 0)
	if err != nil {
		a.logger.Warn(ctx, "failed to read draft", "error", err)
		return
	}
	if d == nil || d.Content == nil {
		return
	}

	a.mu.Lock()
	a.doc = *d.Content
	a.docName = d.Name
	a.mu.Unlock()

	fmt.Printf("Restored unsaved draft (last edited %s)\n", d.UpdatedAt.Format("2006-01-02 15:04"))
	a.pushPreview()
}

// pushPreview feeds the current document snapshot into the synchronizer.
func (a *App) pushPreview() {
	doc, _ := a.snapshot()
	a.preview.Update(doc, a.config.Lang)
}
