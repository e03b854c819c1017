package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/GoSim-25-26J-441/project-records/internal/projects/domain"
)

// ProjectService is what the handlers call into.
type ProjectService interface {
	List(ctx context.Context, status string) ([]domain.Project, error)
	Get(ctx context.Context, id int64) (*domain.Project, error)
	Create(ctx context.Context, f domain.ProjectFields, photo *domain.Photo) (*domain.Project, error)
	Update(ctx context.Context, id int64, f domain.ProjectFields, photo *domain.Photo) (*domain.Project, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc          ProjectService
	maxBodyBytes int64
}

// New builds a Handler. maxBodyBytes caps create/update request bodies;
// zero leaves them unbounded.
func New(svc ProjectService, maxBodyBytes int64) *Handler {
	return &Handler{svc: svc, maxBodyBytes: maxBodyBytes}
}

// projectReq is the JSON form of the writable fields. Pointers tell an
// absent key apart from an empty value. Notes stays raw so an explicit
// null can clear it.
type projectReq struct {
	Name   *string         `json:"name"`
	Date   *string         `json:"date"`
	Owner  *string         `json:"owner"`
	Notes  json.RawMessage `json:"notes"`
	Status *string         `json:"status"`
}

func (r projectReq) fields() (domain.ProjectFields, error) {
	f := domain.ProjectFields{
		Name:   r.Name,
		Date:   r.Date,
		Owner:  r.Owner,
		Status: r.Status,
	}

	switch {
	case len(r.Notes) == 0:
	case bytes.Equal(r.Notes, []byte("null")):
		// null clears, same as ""
		f.Notes = new(string)
	default:
		var notes string
		if err := json.Unmarshal(r.Notes, &notes); err != nil {
			return domain.ProjectFields{}, fmt.Errorf("%w: notes must be a string or null", domain.ErrInvalidArgument)
		}
		f.Notes = &notes
	}
	return f, nil
}
