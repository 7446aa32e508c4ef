package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyResumeData(t *testing.T) {
	d := EmptyResumeData()

	assert.False(t, d.HasContent())
	assert.Equal(t, "harvard", d.TemplateID)
	assert.True(t, d.Flags.ShowEducation)
	assert.True(t, d.Flags.ShowLanguages)
	assert.NotNil(t, d.Education)
	assert.NotNil(t, d.Experiences)
}

func TestHasContent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ResumeData)
		want   bool
	}{
		{"empty document", func(d *ResumeData) {}, false},
		{"personal name", func(d *ResumeData) { d.Personal.Name = "Alice" }, true},
		{"personal title", func(d *ResumeData) { d.Personal.Title = "Engineer" }, true},
		{"personal email", func(d *ResumeData) { d.Personal.Email = "a@b.c" }, true},
		{"phone alone is not meaningful", func(d *ResumeData) { d.Personal.Phone = "555" }, false},
		{"education item", func(d *ResumeData) { d.Education = append(d.Education, Education{School: "MIT"}) }, true},
		{"experience item", func(d *ResumeData) { d.Experiences = append(d.Experiences, Experience{Company: "Acme"}) }, true},
		{"project item", func(d *ResumeData) { d.Projects = append(d.Projects, Project{Name: "p"}) }, true},
		{"leadership item", func(d *ResumeData) { d.Leadership = append(d.Leadership, Leadership{Role: "lead"}) }, true},
		{"skills line", func(d *ResumeData) { d.Skills.Languages = "Go" }, true},
		{"tools line", func(d *ResumeData) { d.Skills.Tools = "Docker" }, true},
		{"spoken languages", func(d *ResumeData) { d.LanguagesSpoken = "English" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := EmptyResumeData()
			tc.mutate(&d)
			assert.Equal(t, tc.want, d.HasContent())
		})
	}
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	a := EmptyResumeData()
	b := EmptyResumeData()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Personal.Name = "Alice"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	// A copy fingerprints identically; ordering of edits does not matter.
	c := b
	assert.Equal(t, b.Fingerprint(), c.Fingerprint())
}
