package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
)

var templatePatterns = []string{"*.tmpl", "partials/*.tmpl"}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS // Required
	// DevMode re-parses templates on every render so edits show up without a restart.
	DevMode bool
	Logger  *slog.Logger
}

// TemplateRenderer renders the shell and HTMX fragments.
type TemplateRenderer struct {
	fsys    fs.FS
	devMode bool
	logger  *slog.Logger

	mu sync.RWMutex
	t  *template.Template
}

// NewTemplateRenderer parses every template up front so syntax errors fail startup.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &TemplateRenderer{fsys: cfg.TemplateFS, devMode: cfg.DevMode, logger: logger}
	t, err := r.parse()
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", "initialization"))
		return nil, err
	}
	r.t = t
	return r, nil
}

func (r *TemplateRenderer) parse() (*template.Template, error) {
	return template.New("root").ParseFS(r.fsys, templatePatterns...)
}

func (r *TemplateRenderer) templates() *template.Template {
	if r.devMode {
		t, err := r.parse()
		if err != nil {
			r.logger.Warn("template reload failed; serving previous set", slog.Any("error", err))
		} else {
			r.mu.Lock()
			r.t = t
			r.mu.Unlock()
		}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.t
}

// Render executes the named template into a buffer and writes it with status 200.
// Headers (Hx-Trigger, cookies) must be set before calling.
func (r *TemplateRenderer) Render(w http.ResponseWriter, name string, data any) error {
	return r.RenderStatus(w, RenderParams{Name: name, Data: data, Status: http.StatusOK})
}

// RenderParams groups the inputs of RenderStatus.
type RenderParams struct {
	Name   string
	Data   any
	Status int
}

// RenderStatus renders with an explicit status code.
func (r *TemplateRenderer) RenderStatus(w http.ResponseWriter, p RenderParams) error {
	var buf bytes.Buffer
	if err := r.templates().ExecuteTemplate(&buf, p.Name, p.Data); err != nil {
		r.logger.Error("template execution failed", slog.String("template", p.Name), slog.Any("error", err))
		return err
	}

	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Debug("failed to write rendered template", slog.String("template", p.Name), slog.Any("error", err))
		return err
	}
	return nil
}

// RenderString executes a template into a string, for fragments embedded in other state.
func (r *TemplateRenderer) RenderString(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.templates().ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	// #nosec G203 -- output of html/template is already escaped.
	return template.HTML(buf.String()), nil
}
