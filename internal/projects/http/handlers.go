package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/project-records/internal/logging"
	"github.com/GoSim-25-26J-441/project-records/internal/projects/domain"
)

const multipartMemory = 8 << 20

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.fail(c, "project.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "project.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) create(c *gin.Context) {
	fields, photo, closeFn, err := h.bindWrite(c)
	if err != nil {
		h.fail(c, "project.create", err)
		return
	}
	defer closeFn()

	p, err := h.svc.Create(c.Request.Context(), fields, photo)
	if err != nil {
		h.fail(c, "project.create", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	fields, photo, closeFn, err := h.bindWrite(c)
	if err != nil {
		h.fail(c, "project.update", err)
		return
	}
	defer closeFn()

	p, err := h.svc.Update(c.Request.Context(), id, fields, photo)
	if err != nil {
		h.fail(c, "project.update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "project.delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
}

func (h *Handler) projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid project id"})
		return 0, false
	}
	return id, true
}

// bindWrite reads the writable fields and the optional "photo" file from a
// JSON, urlencoded or multipart body. The returned func closes the photo.
func (h *Handler) bindWrite(c *gin.Context) (domain.ProjectFields, *domain.Photo, func(), error) {
	noop := func() {}

	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}

	switch c.ContentType() {
	case gin.MIMEJSON:
		var req projectReq
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			return domain.ProjectFields{}, nil, noop, bodyError(err)
		}
		fields, err := req.fields()
		return fields, nil, noop, err

	case gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
			return domain.ProjectFields{}, nil, noop, bodyError(err)
		}

	default:
		if err := c.Request.ParseForm(); err != nil {
			return domain.ProjectFields{}, nil, noop, bodyError(err)
		}
	}

	fields := domain.ProjectFields{
		Name:   postForm(c, "name"),
		Date:   postForm(c, "date"),
		Owner:  postForm(c, "owner"),
		Notes:  postForm(c, "notes"),
		Status: postForm(c, "status"),
	}

	if c.Request.MultipartForm == nil {
		return fields, nil, noop, nil
	}

	fh, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return fields, nil, noop, nil
	}
	if err != nil {
		return domain.ProjectFields{}, nil, noop, bodyError(err)
	}

	f, err := fh.Open()
	if err != nil {
		return domain.ProjectFields{}, nil, noop, fmt.Errorf("%w: open photo: %v", domain.ErrBlobStore, err)
	}

	photo := &domain.Photo{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
	return fields, photo, func() { f.Close() }, nil
}

func postForm(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: request body over %d bytes", domain.ErrPhotoTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: invalid body", domain.ErrInvalidArgument)
}

// fail maps service errors to responses. Store and blob failures are logged
// and reported without detail.
func (h *Handler) fail(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrMissingRequiredField),
		errors.Is(err, domain.ErrNoFieldsProvided):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrPhotoTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	default:
		logging.New(c.Request.Context()).Error(operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
	}
}
