package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/GoSim-25-26J-441/project-records/internal/logging"
	"github.com/GoSim-25-26J-441/project-records/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-records/internal/projects/events"
	"github.com/GoSim-25-26J-441/project-records/internal/storage/blob"
)

// Repository is the persistence the service needs.
type Repository interface {
	List(ctx context.Context, status string) ([]domain.Project, error)
	Get(ctx context.Context, id int64) (*domain.Project, error)
	Create(ctx context.Context, in domain.NewProject) (*domain.Project, error)
	Update(ctx context.Context, id int64, patch domain.ProjectPatch) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// PhotoStore persists uploaded photos.
type PhotoStore interface {
	Put(ctx context.Context, u blob.Upload) (string, error)
	Delete(ctx context.Context, ref string) error
}

type Options struct {
	// CleanupBlobs deletes a photo once no record points at it anymore.
	CleanupBlobs bool
	// MaxPhotoBytes rejects larger uploads. Zero means no limit.
	MaxPhotoBytes int64
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo   Repository
	photos PhotoStore
	events events.Publisher
	opts   Options
}

// NewProjectService creates a new project service
func NewProjectService(repo Repository, photos PhotoStore, pub events.Publisher, opts Options) *ProjectService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &ProjectService{
		repo:   repo,
		photos: photos,
		events: pub,
		opts:   opts,
	}
}

var statusRule = validation.In(statusValues()...).
	Error("must be one of " + strings.Join(domain.Statuses, ", "))

func statusValues() []any {
	out := make([]any, len(domain.Statuses))
	for i, s := range domain.Statuses {
		out[i] = s
	}
	return out
}

// List returns all projects, filtered by status when status is non-empty.
func (s *ProjectService) List(ctx context.Context, status string) ([]domain.Project, error) {
	if err := validation.Validate(status, statusRule); err != nil {
		return nil, fmt.Errorf("%w: status %v", domain.ErrInvalidArgument, err)
	}
	return s.repo.List(ctx, status)
}

// Get returns one project.
func (s *ProjectService) Get(ctx context.Context, id int64) (*domain.Project, error) {
	return s.repo.Get(ctx, id)
}

type createInput struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Owner  string `json:"owner"`
	Status string `json:"status"`
}

var requiredOrder = []string{"name", "date", "owner", "status"}

// Create validates fields, stores the photo if any, then inserts the row.
func (s *ProjectService) Create(ctx context.Context, f domain.ProjectFields, photo *domain.Photo) (*domain.Project, error) {
	in := createInput{
		Name:   trimmed(f.Name),
		Date:   trimmed(f.Date),
		Owner:  trimmed(f.Owner),
		Status: trimmed(f.Status),
	}

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Date, validation.Required),
		validation.Field(&in.Owner, validation.Required),
		validation.Field(&in.Status, validation.Required),
	)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(requiredOrder))
			for _, name := range requiredOrder {
				if _, ok := verrs[name]; ok {
					missing = append(missing, name)
				}
			}
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingRequiredField, strings.Join(missing, ", "))
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMissingRequiredField, err)
	}

	if err := validation.Validate(in.Status, statusRule); err != nil {
		return nil, fmt.Errorf("%w: status %v", domain.ErrInvalidArgument, err)
	}
	if err := s.checkPhoto(photo); err != nil {
		return nil, err
	}

	np := domain.NewProject{
		Name:   in.Name,
		Date:   in.Date,
		Owner:  in.Owner,
		Status: in.Status,
	}
	if f.Notes != nil && *f.Notes != "" {
		notes := *f.Notes
		np.Notes = &notes
	}

	if photo != nil {
		ref, err := s.storePhoto(ctx, photo)
		if err != nil {
			return nil, err
		}
		np.PhotoRef = &ref
	}

	p, err := s.repo.Create(ctx, np)
	if err != nil {
		if np.PhotoRef != nil {
			s.removePhoto(ctx, "project.create", *np.PhotoRef)
		}
		return nil, err
	}

	s.publish(ctx, events.TypeCreated, p.ID, p)
	return p, nil
}

// Update applies the fields present in f, plus the photo if one was sent.
func (s *ProjectService) Update(ctx context.Context, id int64, f domain.ProjectFields, photo *domain.Photo) (*domain.Project, error) {
	if !f.Any() && photo == nil {
		return nil, domain.ErrNoFieldsProvided
	}

	name, date, owner, status := trimmed(f.Name), trimmed(f.Date), trimmed(f.Owner), trimmed(f.Status)
	err := validation.Errors{
		"name":   validation.Validate(name, validation.When(f.Name != nil, validation.Required)),
		"date":   validation.Validate(date, validation.When(f.Date != nil, validation.Required)),
		"owner":  validation.Validate(owner, validation.When(f.Owner != nil, validation.Required)),
		"status": validation.Validate(status, validation.When(f.Status != nil, validation.Required, statusRule)),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	if err := s.checkPhoto(photo); err != nil {
		return nil, err
	}

	var patch domain.ProjectPatch
	if f.Name != nil {
		patch.Name = &name
	}
	if f.Date != nil {
		patch.Date = &date
	}
	if f.Owner != nil {
		patch.Owner = &owner
	}
	if f.Notes != nil {
		if *f.Notes == "" {
			patch.ClearNotes = true
		} else {
			notes := *f.Notes
			patch.Notes = &notes
		}
	}
	if f.Status != nil {
		patch.Status = &status
	}

	var previous *string
	if photo != nil {
		// look the row up first so a missing id never leaves a stray blob
		existing, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		previous = existing.PhotoRef

		ref, err := s.storePhoto(ctx, photo)
		if err != nil {
			return nil, err
		}
		patch.PhotoRef = &ref
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		if patch.PhotoRef != nil {
			s.removePhoto(ctx, "project.update", *patch.PhotoRef)
		}
		return nil, err
	}

	if s.opts.CleanupBlobs && previous != nil && patch.PhotoRef != nil && *previous != *patch.PhotoRef {
		s.removePhoto(ctx, "project.update", *previous)
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeUpdated, id, p)
	return p, nil
}

// Delete removes the project. A missing id is not an error; the bool
// reports whether a row was actually removed.
func (s *ProjectService) Delete(ctx context.Context, id int64) (bool, error) {
	var photoRef *string
	if s.opts.CleanupBlobs {
		existing, err := s.repo.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		photoRef = existing.PhotoRef
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	if photoRef != nil {
		s.removePhoto(ctx, "project.delete", *photoRef)
	}

	s.publish(ctx, events.TypeDeleted, id, nil)
	return true, nil
}

func (s *ProjectService) checkPhoto(photo *domain.Photo) error {
	if photo == nil || s.opts.MaxPhotoBytes <= 0 {
		return nil
	}
	if photo.Size > s.opts.MaxPhotoBytes {
		return fmt.Errorf("%w: %d > %d bytes", domain.ErrPhotoTooLarge, photo.Size, s.opts.MaxPhotoBytes)
	}
	return nil
}

func (s *ProjectService) storePhoto(ctx context.Context, photo *domain.Photo) (string, error) {
	ref, err := s.photos.Put(ctx, blob.Upload{
		Filename:    photo.Filename,
		ContentType: photo.ContentType,
		Size:        photo.Size,
		Body:        photo.Body,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBlobStore, err)
	}
	return ref, nil
}

// removePhoto is best effort; failures are logged and left to the sweeper.
func (s *ProjectService) removePhoto(ctx context.Context, operation, ref string) {
	if err := s.photos.Delete(ctx, ref); err != nil {
		logging.New(ctx).Warnf(operation, "photo cleanup failed ref=%s error=%v", ref, err)
	}
}

func (s *ProjectService) publish(ctx context.Context, typ string, id int64, p *domain.Project) {
	err := s.events.Publish(ctx, events.Event{Type: typ, ProjectID: id, Project: p, At: time.Now().UTC()})
	if err != nil {
		logging.New(ctx).Warnf(typ, "event publish failed project_id=%d error=%v", id, err)
	}
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
