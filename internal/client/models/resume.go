// Package models defines the client-side resume document model exchanged
// with the ResumeForge service. JSON tags match the service's wire format.
package models

import (
	"encoding/json"
	"time"
)

// PersonalInfo is the identity block at the top of a resume.
type PersonalInfo struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Github    string `json:"github"`
	GithubURL string `json:"github_url"`
}

// Education is a single education history item.
type Education struct {
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Dates       string `json:"dates"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
}

// Experience is a single work history item.
type Experience struct {
	Title      string   `json:"title"`
	Company    string   `json:"company"`
	Dates      string   `json:"dates"`
	Highlights []string `json:"highlights"`
}

// Project is a personal or professional project item.
type Project struct {
	Name       string   `json:"name"`
	Year       string   `json:"year"`
	Highlights []string `json:"highlights"`
}

// Skills groups technical skills into two free-form lines.
type Skills struct {
	Languages string `json:"languages"`
	Tools     string `json:"tools"`
}

// Leadership is a volunteering / leadership item.
type Leadership struct {
	Role       string   `json:"role"`
	Place      string   `json:"place"`
	Dates      string   `json:"dates"`
	Highlights []string `json:"highlights"`
}

// SectionFlags toggles visibility of optional resume sections.
type SectionFlags struct {
	ShowEducation   bool `json:"show_education"`
	ShowExperiences bool `json:"show_experiences"`
	ShowProjects    bool `json:"show_projects"`
	ShowSkills      bool `json:"show_skills"`
	ShowLeadership  bool `json:"show_leadership"`
	ShowLanguages   bool `json:"show_languages"`
}

// ResumeData is the full in-progress document as edited by the user and
// submitted to the rendering endpoints.
type ResumeData struct {
	Personal        PersonalInfo `json:"personal"`
	Education       []Education  `json:"education"`
	Experiences     []Experience `json:"experiences"`
	Projects        []Project    `json:"projects"`
	Skills          Skills       `json:"skills"`
	Leadership      []Leadership `json:"leadership"`
	LanguagesSpoken string       `json:"languages_spoken"`
	Flags           SectionFlags `json:"flags"`
	TemplateID      string       `json:"template_id"`
}

// EmptyResumeData returns a fresh document with all sections visible and no
// content, matching the shape the editors start from.
func EmptyResumeData() ResumeData {
	return ResumeData{
		Education:   []Education{},
		Experiences: []Experience{},
		Projects:    []Project{},
		Leadership:  []Leadership{},
		Flags: SectionFlags{
			ShowEducation:   true,
			ShowExperiences: true,
			ShowProjects:    true,
			ShowSkills:      true,
			ShowLeadership:  true,
			ShowLanguages:   true,
		},
		TemplateID: "harvard",
	}
}

// Fingerprint returns a serialized form of the document used for cheap
// change detection. Two documents with equal fingerprints are treated as
// identical by the preview synchronizer.
func (d ResumeData) Fingerprint() string {
	b, err := json.Marshal(d)
	if err != nil {
		// Marshal of plain structs cannot fail; keep the signature simple.
		return ""
	}
	return string(b)
}

// HasContent reports whether the document carries meaningful content:
// any non-empty personal identity field, or at least one populated section.
// An all-empty document is never worth rendering.
func (d ResumeData) HasContent() bool {
	if d.Personal.Name != "" || d.Personal.Title != "" || d.Personal.Email != "" {
		return true
	}
	if len(d.Education) > 0 || len(d.Experiences) > 0 ||
		len(d.Projects) > 0 || len(d.Leadership) > 0 {
		return true
	}
	if d.Skills.Languages != "" || d.Skills.Tools != "" || d.LanguagesSpoken != "" {
		return true
	}
	return false
}

// SavedResume is a named, server-stored document. Content may be null when
// the record was created as a placeholder.
type SavedResume struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Content   *ResumeData `json:"json_content"`
	CreatedAt time.Time   `json:"created_at"`
}

// SavedResumeList is the response shape of GET /resumes.
type SavedResumeList struct {
	Resumes []SavedResume `json:"resumes"`
}

// User is the identity record returned by the auth endpoints.
type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	IsGuest    bool   `json:"is_guest"`
	IsVerified bool   `json:"is_verified"`
}
