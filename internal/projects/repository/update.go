package repository

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/project-records/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-records/internal/storage/sqldb"
)

// assignment is one "column = value" pair of a SET clause.
// column always comes from the fixed list below, never from request input.
type assignment struct {
	column string
	value  any
}

// assignments turns a patch into SET pairs in column order
// name, date, owner, notes, status, photo_ref.
func assignments(p domain.ProjectPatch) []assignment {
	var out []assignment
	if p.Name != nil {
		out = append(out, assignment{"name", *p.Name})
	}
	if p.Date != nil {
		out = append(out, assignment{"date", *p.Date})
	}
	if p.Owner != nil {
		out = append(out, assignment{"owner", *p.Owner})
	}
	if p.ClearNotes {
		out = append(out, assignment{"notes", nil})
	} else if p.Notes != nil {
		out = append(out, assignment{"notes", *p.Notes})
	}
	if p.Status != nil {
		out = append(out, assignment{"status", *p.Status})
	}
	if p.PhotoRef != nil {
		out = append(out, assignment{"photo_ref", *p.PhotoRef})
	}
	return out
}

// buildUpdate renders a parameterized UPDATE for the patch. The id is always
// the last bound argument.
func buildUpdate(d sqldb.Dialect, id int64, p domain.ProjectPatch) (string, []any, error) {
	if p.IsEmpty() {
		return "", nil, domain.ErrNoFieldsProvided
	}
	set := assignments(p)

	parts := make([]string, 0, len(set))
	args := make([]any, 0, len(set)+1)
	for i, a := range set {
		parts = append(parts, fmt.Sprintf("%s = %s", a.column, d.Placeholder(i+1)))
		args = append(args, a.value)
	}
	args = append(args, id)

	q := fmt.Sprintf("UPDATE projects SET %s WHERE id = %s",
		strings.Join(parts, ", "), d.Placeholder(len(set)+1))
	return q, args, nil
}
