package models

import "time"

// Draft is a locally persisted working copy of a résumé. Drafts survive
// restarts so an interrupted editing session can be resumed before the
// document is ever saved to the server. ResumeID is 0 while the document has
// no server-side record yet; once the server assigns an ID the draft is
// re-keyed to it.
type Draft struct {
	Id        string
	ResumeID  int64
	Name      string
	Content   *ResumeData
	UpdatedAt time.Time
}
