package controllers

import (
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/planify/planify/authenticator"
	"github.com/planify/planify/callback"
	"github.com/planify/planify/models"
	"github.com/planify/planify/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, pageTemplate string, data interface{}) error {
	return renderTemplateWithStatus(w, http.StatusOK, pageTemplate, data)
}

// renderTemplateWithStatus creates a template set and renders it with the provided data and status code
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, pageTemplate string, data interface{}) error {
	tmpl := template.New("layout.html")
	tmpl.Funcs(template.FuncMap{
		"formatDateTime": func(t *time.Time) string { return models.FormatDateTime(*t) },
	})

	// Parse layout and page template
	_, err := tmpl.ParseFS(templatesFS, "templates/layout.html", "templates/"+pageTemplate)
	if err != nil {
		http.Error(w, "Failed to parse template", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return err
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Options wires the controllers to the rest of the application.
type Options struct {
	Provider authenticator.Provider
	Sessions sessions.Store
	Policy   callback.Policy
	Routes   callback.Routes
	Logger   *slog.Logger

	// SchedulerOptions are passed to every callback scheduler.
	SchedulerOptions []callback.SchedulerOption
}

// Controllers holds all controller instances
type Controllers struct {
	Auth      *AuthController
	Dashboard *DashboardController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, opts Options) *Controllers {
	return &Controllers{
		Auth:      NewAuthController(services, opts),
		Dashboard: NewDashboardController(services, opts.Routes),
	}
}
