package domain

// Project is a single row of the projects table.
// It is storage-agnostic and used across repository, service and HTTP layers.
type Project struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Date     string  `json:"date"`
	Owner    string  `json:"owner"`
	Notes    *string `json:"notes"`
	Status   string  `json:"status"`
	PhotoRef *string `json:"photo_ref"`
}

// Status constants
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Statuses lists every accepted status value.
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted}

// NewProject carries the fields needed to insert a project.
type NewProject struct {
	Name     string
	Date     string
	Owner    string
	Notes    *string
	Status   string
	PhotoRef *string
}

// ProjectFields holds the raw request fields. A nil pointer means the key
// was absent from the request; a pointer to "" means it was sent empty.
type ProjectFields struct {
	Name   *string
	Date   *string
	Owner  *string
	Notes  *string
	Status *string
}

// Any reports whether at least one field key was present.
func (f ProjectFields) Any() bool {
	return f.Name != nil || f.Date != nil || f.Owner != nil || f.Notes != nil || f.Status != nil
}

// ProjectPatch is a validated partial update. Nil fields are left untouched.
// ClearNotes sets notes to NULL.
type ProjectPatch struct {
	Name       *string
	Date       *string
	Owner      *string
	Notes      *string
	ClearNotes bool
	Status     *string
	PhotoRef   *string
}

func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil && p.Date == nil && p.Owner == nil &&
		p.Notes == nil && !p.ClearNotes && p.Status == nil && p.PhotoRef == nil
}
