package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/resumeforge/resumeforge/internal/client/models"
)

const editableFields = "name, title, location, email, phone, github, skills, tools, languages"

// Edit changes one field of the open document and pushes the change into the
// live preview. Edits work logged out too; only saving needs a session.
func (a *App) Edit(ctx context.Context) error {
	field, err := getSimpleText(a.reader, "Field ("+editableFields+")", os.Stdout)
	if err != nil {
		return err
	}
	value, err := getSimpleText(a.reader, "Value", os.Stdout)
	if err != nil {
		return err
	}

	a.mu.Lock()
	switch field {
	case "name":
		a.doc.Personal.Name = value
	case "title":
		a.doc.Personal.Title = value
	case "location":
		a.doc.Personal.Location = value
	case "email":
		a.doc.Personal.Email = value
	case "phone":
		a.doc.Personal.Phone = value
	case "github":
		a.doc.Personal.Github = value
	case "skills":
		a.doc.Skills.Languages = value
	case "tools":
		a.doc.Skills.Tools = value
	case "languages":
		a.doc.LanguagesSpoken = value
	default:
		a.mu.Unlock()
		return fmt.Errorf("unknown field %q (expected one of: %s)", field, editableFields)
	}
	a.mu.Unlock()

	a.pushPreview()
	a.saveDraft(ctx)
	return nil
}

// AddExperience appends a work history item to the open document.
func (a *App) AddExperience(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Role title", os.Stdout)
	if err != nil {
		return err
	}
	company, err := getSimpleText(a.reader, "Company", os.Stdout)
	if err != nil {
		return err
	}
	dates, err := getSimpleText(a.reader, "Dates (e.g. 2022 - 2024)", os.Stdout)
	if err != nil {
		return err
	}
	highlights, err := GetMultiline(a.reader, "Highlights, one per line", os.Stdout)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.doc.Experiences = append(a.doc.Experiences, models.Experience{
		Title:      title,
		Company:    company,
		Dates:      dates,
		Highlights: highlights,
	})
	a.mu.Unlock()

	a.pushPreview()
	a.saveDraft(ctx)
	return nil
}

// AddEducation appends an education item to the open document.
func (a *App) AddEducation(ctx context.Context) error {
	school, err := getSimpleText(a.reader, "School", os.Stdout)
	if err != nil {
		return err
	}
	degree, err := getSimpleText(a.reader, "Degree", os.Stdout)
	if err != nil {
		return err
	}
	dates, err := getSimpleText(a.reader, "Dates (e.g. 2018 - 2022)", os.Stdout)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.doc.Education = append(a.doc.Education, models.Education{
		School: school,
		Degree: degree,
		Dates:  dates,
	})
	a.mu.Unlock()

	a.pushPreview()
	a.saveDraft(ctx)
	return nil
}

// Show prints the open document as indented JSON.
func (a *App) Show(ctx context.Context) error {
	doc, name := a.snapshot()

	if name != "" {
		fmt.Printf("Document: %q (id %d)\n", name, a.resumes.CurrentID())
	} else {
		fmt.Println("Document: unsaved")
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

// NewDocument empties the editor and detaches it from any server record, so
// the next save creates a new resume.
func (a *App) NewDocument(ctx context.Context) error {
	a.resumes.NewDocument()
	a.resetDocument()
	a.preview.Reset()

	if err := a.drafts.Delete(ctx, 0); err != nil {
		a.logger.Warn(ctx, "failed to drop unsaved draft", "error", err)
	}

	fmt.Println("Started a fresh document.")
	return nil
}

// Refresh forces an immediate preview re-render, bypassing the debounce.
func (a *App) Refresh(ctx context.Context) error {
	a.preview.Refresh()
	return nil
}
