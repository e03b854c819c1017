package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"github.com/GoSim-25-26J-441/project-records/internal/projects/domain"
)

// openAPIDoc is a minimal OpenAPI 3 document for the projects API.
type openAPIDoc struct {
	OpenAPI string                    `yaml:"openapi"`
	Info    openAPIInfo               `yaml:"info"`
	Paths   map[string]map[string]any `yaml:"paths"`
}

type openAPIInfo struct {
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

func projectsDoc(version string) openAPIDoc {
	statusParam := map[string]any{
		"name": "status", "in": "query", "required": false,
		"schema": map[string]any{"type": "string", "enum": domain.Statuses},
	}
	idParam := map[string]any{
		"name": "id", "in": "path", "required": true,
		"schema": map[string]any{"type": "integer", "format": "int64"},
	}
	fields := func(withPhoto bool) map[string]any {
		props := map[string]any{
			"name":   map[string]any{"type": "string"},
			"date":   map[string]any{"type": "string"},
			"owner":  map[string]any{"type": "string"},
			"notes":  map[string]any{"type": "string", "nullable": true},
			"status": map[string]any{"type": "string", "enum": domain.Statuses},
		}
		if withPhoto {
			props["photo"] = map[string]any{"type": "string", "format": "binary"}
		}
		return map[string]any{"schema": map[string]any{"type": "object", "properties": props}}
	}
	writeBody := map[string]any{
		"content": map[string]any{
			"multipart/form-data":               fields(true),
			"application/x-www-form-urlencoded": fields(false),
			"application/json":                  fields(false),
		},
	}
	resp := func(codes ...int) map[string]any {
		out := map[string]any{}
		for _, c := range codes {
			out[strconv.Itoa(c)] = map[string]any{"description": http.StatusText(c)}
		}
		return out
	}

	return openAPIDoc{
		OpenAPI: "3.0.0",
		Info: openAPIInfo{
			Title:       "Projects API",
			Version:     version,
			Description: "CRUD over project records with optional photo upload",
		},
		Paths: map[string]map[string]any{
			"/api/v1/projects": {
				"get": map[string]any{
					"summary":    "List projects, optionally filtered by status",
					"parameters": []any{statusParam},
					"responses":  resp(200, 400, 500),
				},
				"post": map[string]any{
					"summary":     "Create a project",
					"requestBody": writeBody,
					"responses":   resp(200, 400, 413, 429, 500),
				},
			},
			"/api/v1/projects/{id}": {
				"get": map[string]any{
					"summary":    "Get a project",
					"parameters": []any{idParam},
					"responses":  resp(200, 400, 404, 500),
				},
				"put": map[string]any{
					"summary":     "Update any subset of a project's fields",
					"parameters":  []any{idParam},
					"requestBody": writeBody,
					"responses":   resp(200, 400, 404, 413, 429, 500),
				},
				"delete": map[string]any{
					"summary":    "Delete a project",
					"parameters": []any{idParam},
					"responses":  resp(200, 400, 429, 500),
				},
			},
		},
	}
}

// DocsHandler serves the OpenAPI document as YAML.
type DocsHandler struct {
	body []byte
	err  error
}

func NewDocsHandler(version string) *DocsHandler {
	b, err := yaml.Marshal(projectsDoc(version))
	return &DocsHandler{body: b, err: err}
}

func (h *DocsHandler) OpenAPI(c *gin.Context) {
	if h.err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
		return
	}
	c.Data(http.StatusOK, "application/yaml", h.body)
}

func (h *DocsHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/api-docs/openapi.yaml", h.OpenAPI)
}
