// Package resumes coordinates CRUD of named, server-stored documents,
// gated by the session's authentication state. Quota failures are routed to
// a dedicated limit handler instead of the generic error path, so the
// application can prompt a guest upgrade rather than show a raw HTTP error.
package resumes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/resumeforge/resumeforge/internal/client/api"
	"github.com/resumeforge/resumeforge/internal/client/models"
	"github.com/resumeforge/resumeforge/internal/client/session"
	"github.com/resumeforge/resumeforge/internal/logging"
)

// ErrLimitReached signals that the server rejected a save because the
// account's resume quota is exhausted. Matched with errors.Is.
var ErrLimitReached = errors.New("resume limit reached")

// Transport is the slice of the HTTP client this service uses.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string) error
	PostBinary(ctx context.Context, path string, in any) ([]byte, error)
}

// SessionSource provides the current session snapshot.
type SessionSource interface {
	Current() session.State
}

// Config wires the service's callbacks. OnLimit fires on quota failures;
// OnReset fires whenever the open editor must drop back to a fresh empty
// document (unauthenticated list, deletion of the current resume).
type Config struct {
	OnLimit func()
	OnReset func()
	Logger  logging.Logger
}

// Service orchestrates the saved-resume collection. Construct with New.
type Service struct {
	api     Transport
	session SessionSource
	onLimit func()
	onReset func()
	logger  logging.Logger

	mu        sync.Mutex
	currentID int64
	saved     []models.SavedResume
}

// New builds a Service. The callbacks in cfg may be nil.
func New(apiClient Transport, sess SessionSource, cfg Config) *Service {
	return &Service{
		api:     apiClient,
		session: sess,
		onLimit: cfg.OnLimit,
		onReset: cfg.OnReset,
		logger:  cfg.Logger,
	}
}

type savePayload struct {
	Name    string             `json:"name"`
	Content *models.ResumeData `json:"json_content"`
}

type renamePayload struct {
	Name string `json:"name"`
}

// CurrentID returns the server identifier of the document open in the
// editor, or 0 when the document has never been saved.
func (s *Service) CurrentID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Saved returns the cached list from the last List call or mutation. The
// cache is optimistic; a fresh List is the authoritative read.
func (s *Service) Saved() []models.SavedResume {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SavedResume(nil), s.saved...)
}

// reset drops the current-document identity and notifies the editor.
func (s *Service) reset() {
	s.mu.Lock()
	s.currentID = 0
	s.saved = nil
	s.mu.Unlock()
	if s.onReset != nil {
		s.onReset()
	}
}

// List returns the caller's saved documents. Without an authenticated
// session it short-circuits to an empty result, resets the editor, and makes
// no network call.
func (s *Service) List(ctx context.Context) ([]models.SavedResume, error) {
	if !s.session.Current().Authenticated() {
		s.reset()
		return nil, nil
	}

	var list models.SavedResumeList
	if err := s.api.Get(ctx, "/resumes", &list); err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}

	s.mu.Lock()
	s.saved = list.Resumes
	s.mu.Unlock()
	return list.Resumes, nil
}

// Save persists the document under name. The first save creates a record and
// adopts the server-assigned identifier; every later save updates that same
// record. A quota rejection (HTTP 429) fires the limit handler and returns
// ErrLimitReached instead of a generic error.
func (s *Service) Save(ctx context.Context, name string, doc models.ResumeData) (int64, error) {
	s.mu.Lock()
	id := s.currentID
	s.mu.Unlock()

	payload := savePayload{Name: name, Content: &doc}

	if id == 0 {
		var created models.SavedResume
		if err := s.api.Post(ctx, "/resumes", payload, &created); err != nil {
			return 0, s.translateSaveError(err)
		}
		s.mu.Lock()
		s.currentID = created.ID
		s.saved = append(s.saved, created)
		s.mu.Unlock()
		return created.ID, nil
	}

	var updated models.SavedResume
	if err := s.api.Put(ctx, fmt.Sprintf("/resumes/%d", id), payload, &updated); err != nil {
		return 0, s.translateSaveError(err)
	}
	s.mu.Lock()
	for i := range s.saved {
		if s.saved[i].ID == id {
			s.saved[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return id, nil
}

func (s *Service) translateSaveError(err error) error {
	if se, ok := api.AsStatusError(err); ok && se.Status == http.StatusTooManyRequests {
		if s.onLimit != nil {
			s.onLimit()
		}
		return fmt.Errorf("%w: %s", ErrLimitReached, se.Detail)
	}
	return fmt.Errorf("save resume: %w", err)
}

// NewDocument detaches the editor from the current server record, so the
// next Save creates a fresh one. The cached list is kept.
func (s *Service) NewDocument() {
	s.mu.Lock()
	s.currentID = 0
	s.mu.Unlock()
}

// Load fetches a saved resume and makes it the current document.
func (s *Service) Load(ctx context.Context, id int64) (*models.SavedResume, error) {
	var resume models.SavedResume
	if err := s.api.Get(ctx, fmt.Sprintf("/resumes/%d", id), &resume); err != nil {
		return nil, fmt.Errorf("load resume: %w", err)
	}
	s.mu.Lock()
	s.currentID = resume.ID
	s.mu.Unlock()
	return &resume, nil
}

// Delete removes a saved resume. Deleting the current document resets the
// editor to a fresh empty one.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/resumes/%d", id)); err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}

	s.mu.Lock()
	kept := s.saved[:0]
	for _, r := range s.saved {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.saved = kept
	wasCurrent := s.currentID == id
	if wasCurrent {
		s.currentID = 0
	}
	s.mu.Unlock()

	if wasCurrent && s.onReset != nil {
		s.onReset()
	}
	return nil
}

// Rename changes a resume's name without touching its content.
func (s *Service) Rename(ctx context.Context, id int64, newName string) error {
	var updated models.SavedResume
	if err := s.api.Put(ctx, fmt.Sprintf("/resumes/%d", id), renamePayload{Name: newName}, &updated); err != nil {
		return fmt.Errorf("rename resume: %w", err)
	}
	s.mu.Lock()
	for i := range s.saved {
		if s.saved[i].ID == id {
			s.saved[i].Name = newName
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// ExportPDF renders a saved resume server-side and returns the PDF payload.
func (s *Service) ExportPDF(ctx context.Context, id int64, templateID, lang string) ([]byte, error) {
	q := url.Values{}
	q.Set("template_id", templateID)
	q.Set("lang", lang)
	path := fmt.Sprintf("/resumes/%d/generate?%s", id, q.Encode())
	data, err := s.api.PostBinary(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("export resume: %w", err)
	}
	return data, nil
}
