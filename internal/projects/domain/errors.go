package domain

import "errors"

var (
	ErrNotFound             = errors.New("project not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrNoFieldsProvided     = errors.New("at least one field is required to update a project")
	ErrPhotoTooLarge        = errors.New("photo exceeds the upload size limit")
	ErrStore                = errors.New("store failure")
	ErrBlobStore            = errors.New("blob store failure")
)
