package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/resumeforge/resumeforge/internal/client/models"
	"github.com/resumeforge/resumeforge/internal/client/resumes"
	"github.com/resumeforge/resumeforge/internal/filex"
)

// promptID asks for a numeric resume identifier.
func (a *App) promptID(prompt string) (int64, error) {
	s, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a resume id: %q", s)
	}
	return id, nil
}

// List prints the saved resumes of the current account.
func (a *App) List(ctx context.Context) error {
	list, err := a.resumes.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No saved resumes.")
		return nil
	}

	current := a.resumes.CurrentID()
	for _, r := range list {
		marker := " "
		if r.ID == current {
			marker = "*"
		}
		fmt.Printf("%s %4d  %-30s  %s\n", marker, r.ID, r.Name, r.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

// Open loads a saved resume into the editor. A newer local draft of the same
// resume, if one exists, wins over the server copy.
func (a *App) Open(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	id, err := a.promptID("Resume id to open")
	if err != nil {
		return err
	}

	r, err := a.resumes.Load(ctx, id)
	if err != nil {
		return err
	}

	doc := models.EmptyResumeData()
	if r.Content != nil {
		doc = *r.Content
	}
	name := r.Name

	// A draft only counts as newer when its content actually diverged:
	// autosave stamps a fresh time on every server save, so the timestamp
	// alone would prefer a byte-identical draft.
	if d, derr := a.drafts.Get(ctx, id); derr == nil && d != nil && d.Content != nil &&
		d.UpdatedAt.After(r.CreatedAt) && d.Content.Fingerprint() != doc.Fingerprint() {
		doc = *d.Content
		printlnFn("A newer local draft exists; opened the draft.")
	}

	a.mu.Lock()
	a.doc = doc
	a.docName = name
	a.mu.Unlock()

	fmt.Printf("Opened %q (id %d)\n", name, r.ID)
	a.pushPreview()
	return nil
}

// Save persists the open document. The first save creates a server record;
// later saves update it. On success the local unsaved draft is re-keyed to
// the server id.
func (a *App) Save(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	_, name := a.snapshot()
	prompt := "Resume name"
	if name != "" {
		prompt = fmt.Sprintf("Resume name (Enter to keep %q)", name)
	}
	entered, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return err
	}
	if entered != "" {
		name = entered
	}
	if name == "" {
		return errors.New("a resume needs a name")
	}

	a.mu.Lock()
	a.docName = name
	doc := a.doc
	a.mu.Unlock()

	hadID := a.resumes.CurrentID()

	id, err := a.resumes.Save(ctx, name, doc)
	if err != nil {
		if errors.Is(err, resumes.ErrLimitReached) {
			// The limit handler already told the user what to do.
			return nil
		}
		return err
	}

	if hadID == 0 {
		// The unsaved draft is now tracked under the server id. The move is
		// transactional, so a crash mid-save cannot leave it under both keys.
		if derr := a.drafts.Rekey(ctx, 0, id); derr != nil {
			a.logger.Warn(ctx, "failed to rekey unsaved draft", "error", derr)
		}
	}
	a.saveDraft(ctx)

	fmt.Printf("Saved %q (id %d)\n", name, id)
	return nil
}

// Rename changes the name of a saved resume without touching its content.
func (a *App) Rename(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	id, err := a.promptID("Resume id to rename")
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "New name", os.Stdout)
	if err != nil {
		return err
	}
	if name == "" {
		return errors.New("a resume needs a name")
	}

	if err := a.resumes.Rename(ctx, id, name); err != nil {
		return err
	}

	if id == a.resumes.CurrentID() {
		a.mu.Lock()
		a.docName = name
		a.mu.Unlock()
	}

	fmt.Printf("Renamed %d to %q\n", id, name)
	return nil
}

// Delete removes a saved resume and its local draft. Deleting the open
// resume empties the editor.
func (a *App) Delete(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	id, err := a.promptID("Resume id to delete")
	if err != nil {
		return err
	}

	if err := a.resumes.Delete(ctx, id); err != nil {
		return err
	}
	if derr := a.drafts.Delete(ctx, id); derr != nil {
		a.logger.Warn(ctx, "failed to drop draft", "error", derr)
	}

	fmt.Printf("Deleted resume %d\n", id)
	return nil
}

// Export renders a saved resume server-side and writes the PDF next to the
// working directory.
func (a *App) Export(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	id, err := a.promptID("Resume id to export")
	if err != nil {
		return err
	}

	data, err := a.resumes.ExportPDF(ctx, id, a.config.TemplateID, a.config.Lang)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("resume-%d.pdf", id)
	if err := filex.WriteFileAtomic(path, data); err != nil {
		return err
	}

	fmt.Println("Exported to", path)
	return nil
}
