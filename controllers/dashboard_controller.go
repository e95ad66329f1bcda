package controllers

import (
	"net/http"

	"github.com/planify/planify/callback"
	"github.com/planify/planify/models"
	"github.com/planify/planify/services"
	"github.com/planify/planify/userctx"
)

// DashboardController handles the authenticated landing pages
type DashboardController struct {
	services *services.Services
	routes   callback.Routes
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(services *services.Services, routes callback.Routes) *DashboardController {
	return &DashboardController{
		services: services,
		routes:   routes,
	}
}

// Index handles GET / by sending the browser to the landing or sign-in page
func (c *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	if _, err := c.services.Tokens.Current(r.Context(), userctx.GetDeviceID(r.Context())); err != nil {
		http.Redirect(w, r, c.routes.SignIn, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, c.routes.Landing, http.StatusSeeOther)
}

// Dashboard handles GET /dashboard
func (c *DashboardController) Dashboard(w http.ResponseWriter, r *http.Request) {
	view, err := c.sessionView(r)
	if err != nil {
		http.Redirect(w, r, c.routes.SignIn, http.StatusSeeOther)
		return
	}

	renderTemplate(w, "dashboard.html", models.PageData{
		Title:       "Dashboard",
		CurrentPage: "dashboard",
		Data:        view,
	})
}

// Session handles GET /api/session
func (c *DashboardController) Session(w http.ResponseWriter, r *http.Request) {
	view, err := c.sessionView(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, view)
}

func (c *DashboardController) sessionView(r *http.Request) (*models.SessionView, error) {
	token, err := c.services.Tokens.Current(r.Context(), userctx.GetDeviceID(r.Context()))
	if err != nil {
		return nil, err
	}

	view := &models.SessionView{
		Subject:   token.Subject,
		Email:     token.Email,
		Name:      token.Name,
		ExpiresAt: token.ExpiresAt,
	}
	if u, ok := userctx.GetUser(r.Context()); ok && view.Name == "" {
		view.Name = u.Name
	}
	if view.Name == "" {
		view.Name = userctx.GetUserEmail(r.Context())
	}
	return view, nil
}
