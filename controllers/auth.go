package controllers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"

	"github.com/planify/planify/authenticator"
	"github.com/planify/planify/callback"
	"github.com/planify/planify/middleware"
	"github.com/planify/planify/models"
	"github.com/planify/planify/services"
	"github.com/planify/planify/userctx"
)

// RelayHeader marks a callback POST sent by the fragment relay page. The
// answer is then JSON the page navigates to with location.replace.
const RelayHeader = "X-Planify-Relay"

type AuthController struct {
	services  *services.Services
	provider  authenticator.Provider
	sessions  sessions.Store
	routes    callback.Routes
	scheduler *callback.Scheduler
	logger    *slog.Logger
}

func NewAuthController(srvs *services.Services, opts Options) *AuthController {
	prober := callback.NewProber(srvs.Tokens, opts.Logger,
		callback.DefaultStrategies(opts.Provider, srvs.Tokens)...)

	return &AuthController{
		services:  srvs,
		provider:  opts.Provider,
		sessions:  opts.Sessions,
		routes:    opts.Routes,
		scheduler: callback.NewScheduler(opts.Policy, prober, opts.Logger, opts.SchedulerOptions...),
		logger:    opts.Logger,
	}
}

// Sessions is the browser session store the controller reads login state from.
func (ac *AuthController) Sessions() sessions.Store {
	return ac.sessions
}

// SignIn renders GET /login. An error code from a failed callback becomes a toast.
func (ac *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	if _, err := ac.services.Tokens.Current(r.Context(), userctx.GetDeviceID(r.Context())); err == nil {
		http.Redirect(w, r, ac.routes.Landing, http.StatusSeeOther)
		return
	}

	data := models.PageData{Title: "Sign in", CurrentPage: "login"}
	if code := r.URL.Query().Get(callback.ErrorParam); code != "" {
		msg := callback.ErrorCode(code).Message()
		if msg == "" {
			msg = "Something went wrong while signing you in. Please try again."
		}
		data.FlashMessage = &models.FlashMessage{Type: "error", Message: msg}
	}

	renderTemplate(w, "login.html", data)
}

// Login initiates the authentication process
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if ac.provider == nil {
		ac.redirectWithCode(w, r, callback.CodeConfigError)
		return
	}

	// Generate random state
	state, err := generateRandomState()
	if err != nil {
		http.Error(w, "Failed to start sign-in", http.StatusInternalServerError)
		return
	}
	verifier := oauth2.GenerateVerifier()

	// Save the state and verifier in the session to validate in callback
	sess, _ := ac.sessions.Get(r, middleware.SessionName)
	sess.Values[middleware.SessionState] = state
	sess.Values[middleware.SessionVerifier] = verifier
	if err := sess.Save(r, w); err != nil {
		ac.logger.Error("failed to save login state", "err", err)
		http.Error(w, "Failed to start sign-in", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, ac.provider.GetAuthURL(state, verifier), http.StatusTemporaryRedirect)
}

// Callback handles GET and POST /auth/callback. Each request is one callback
// page load: it owns a Controller that probes, resolves and redirects once.
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	relay := r.Header.Get(RelayHeader) != ""

	var params callback.Params
	if r.Method == http.MethodPost {
		// Only the relay page posts here. The custom header needs a CORS
		// preflight, so a cross-site form cannot plant a token.
		if !relay {
			http.Error(w, "Callback posts must come from the sign-in relay", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid callback form", http.StatusBadRequest)
			return
		}
		params = callback.ParamsFromValues(r.PostForm)
	} else {
		params = callback.ParseParams(r.URL)
		// Providers only put bearer tokens in the fragment, so a query token is planted.
		params.AccessToken, params.RefreshToken, params.ExpiresIn = "", "", ""
		if params.Empty() {
			// Tokens may be in the fragment, which only the browser can see.
			ac.serveRelay(w)
			return
		}
	}

	sess, _ := ac.sessions.Get(r, middleware.SessionName)
	state, _ := sess.Values[middleware.SessionState].(string)
	verifier, _ := sess.Values[middleware.SessionVerifier].(string)

	deviceID := userctx.GetDeviceID(r.Context())
	logger := ac.logger.With("run", uuid.NewString(), "device", deviceID)

	nav := callback.NavigatorFunc(func(target string) {
		// Login state is single use.
		delete(sess.Values, middleware.SessionState)
		delete(sess.Values, middleware.SessionVerifier)
		if err := sess.Save(r, w); err != nil {
			logger.Error("failed to clear login state", "err", err)
		}

		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Referrer-Policy", "no-referrer")
		if relay {
			writeJSON(w, http.StatusOK, map[string]string{"redirect": target})
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	})

	ctrl := callback.NewController(ac.scheduler, callback.NewDispatcher(ac.routes, nav), logger)
	stop := context.AfterFunc(r.Context(), ctrl.Teardown)
	defer stop()

	res, err := ctrl.Run(r.Context(), &callback.Request{
		Params:        params,
		DeviceID:      deviceID,
		ExpectedState: state,
		CodeVerifier:  verifier,
	})
	if errors.Is(err, callback.ErrCancelled) {
		logger.Info("callback abandoned by client")
		return
	}
	if err != nil {
		logger.Error("callback controller failed", "err", err)
		return
	}

	ac.services.Audit.RecordCallback(context.WithoutCancel(r.Context()), deviceID, res)
}

func (ac *AuthController) serveRelay(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer")
	renderTemplate(w, "relay.html", models.PageData{
		Title: "Signing in",
		Data:  ac.signInURL(callback.CodeCallbackFailed),
	})
}

// Logout handles POST /logout
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := ac.services.Tokens.SignOut(r.Context(), userctx.GetDeviceID(r.Context())); err != nil {
		ac.logger.Error("failed to delete session token", "err", err)
	}

	sess, _ := ac.sessions.Get(r, middleware.SessionName)
	sess.Options = &sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true}
	if err := sess.Save(r, w); err != nil {
		ac.logger.Error("failed to delete browser session", "err", err)
	}

	http.Redirect(w, r, ac.routes.SignIn, http.StatusSeeOther)
}

func (ac *AuthController) redirectWithCode(w http.ResponseWriter, r *http.Request, code callback.ErrorCode) {
	http.Redirect(w, r, ac.signInURL(code), http.StatusSeeOther)
}

func (ac *AuthController) signInURL(code callback.ErrorCode) string {
	d := callback.NewDispatcher(ac.routes, nil)
	return d.Target(callback.Resolution{Code: code})
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
