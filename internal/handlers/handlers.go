package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/favorites"
	"finance-tracker/internal/ledger"
	applog "finance-tracker/internal/log"
	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey contextKey = "user"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the components the handlers drive.
type Services struct {
	Credentials *auth.Credentials
	Sessions    *auth.Sessions
	Ledger      *ledger.Ledger
	Favorites   *favorites.Catalog
	DB          Pinger
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	svc          Services
	templateDir  string
	secureCookie bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc Services, templateDir string, secureCookie bool) *Handlers {
	return &Handlers{svc: svc, templateDir: templateDir, secureCookie: secureCookie}
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// Page is the layout data every view carries.
type Page struct {
	User    *models.User
	Flashes []Flash
}

// AuthMiddleware wraps handlers to require authentication.
// Sessions past the halfway point of their lifetime are renewed and the cookie refreshed.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentAuth)

		token := ""
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			token = cookie.Value
		}

		user, renewed, err := h.svc.Sessions.Resolve(r.Context(), token)
		if err != nil {
			if !errors.Is(err, models.ErrUnauthenticated) {
				logger.ErrorContext(r.Context(), "Session lookup failed", applog.FieldError, err)
			}
			if token != "" {
				h.clearSessionCookie(w)
			}
			h.redirect(w, r, "/login", Flash{Kind: FlashInfo, Message: "Please log in to continue."})
			return
		}

		if renewed {
			h.setSessionCookie(w, token)
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = applog.NewContext(ctx, applog.FromContext(ctx).With(applog.FieldUserID, user.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoginViewModel holds data for the login and register pages.
type LoginViewModel struct {
	Page
	Error    string
	Username string
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	// If already logged in, go straight to the ledger
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if _, _, err := h.svc.Sessions.Resolve(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
	}
	h.render(w, r, "login.html", LoginViewModel{Page: h.page(w, r)})
}

// Login handles the login form submission.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentAuth)

	form, err := parseCredentialsForm(w, r)
	if err != nil {
		h.render(w, r, "login.html", LoginViewModel{Page: h.page(w, r), Error: "Username and password are required", Username: form.Username})
		return
	}

	user, err := h.svc.Credentials.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		if !errors.Is(err, models.ErrInvalidCredentials) {
			logger.ErrorContext(r.Context(), "Login failed", applog.FieldError, err, applog.FieldOperation, applog.OpLogin)
		}
		h.render(w, r, "login.html", LoginViewModel{Page: h.page(w, r), Error: "Invalid username or password", Username: form.Username})
		return
	}

	session, err := h.svc.Sessions.Start(r.Context(), user.ID)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to create session", applog.FieldError, err, applog.FieldUserID, user.ID)
		h.render(w, r, "login.html", LoginViewModel{Page: h.page(w, r), Error: "An error occurred. Please try again.", Username: form.Username})
		return
	}

	logger.InfoContext(r.Context(), "User logged in", applog.FieldUserID, user.ID, applog.FieldOperation, applog.OpLogin)
	h.setSessionCookie(w, session.Token)
	h.redirect(w, r, "/", Flash{Kind: FlashSuccess, Message: "Welcome back, " + user.Username + "!"})
}

// RegisterForm renders the registration page.
func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", LoginViewModel{Page: h.page(w, r)})
}

// Register handles the registration form submission.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentAuth)

	form, err := parseCredentialsForm(w, r)
	if err != nil {
		h.render(w, r, "register.html", LoginViewModel{Page: h.page(w, r), Error: "Username and password are required", Username: form.Username})
		return
	}

	user, err := h.svc.Credentials.Register(r.Context(), form.Username, form.Password)
	switch {
	case errors.Is(err, models.ErrDuplicateUsername):
		h.render(w, r, "register.html", LoginViewModel{Page: h.page(w, r), Error: "That username is already taken", Username: form.Username})
		return
	case errors.Is(err, models.ErrInvalidInput):
		h.render(w, r, "register.html", LoginViewModel{Page: h.page(w, r), Error: "Username and password are required", Username: form.Username})
		return
	case err != nil:
		logger.ErrorContext(r.Context(), "Registration failed", applog.FieldError, err, applog.FieldOperation, applog.OpRegister)
		h.render(w, r, "register.html", LoginViewModel{Page: h.page(w, r), Error: "An error occurred. Please try again.", Username: form.Username})
		return
	}

	logger.InfoContext(r.Context(), "User registered", applog.FieldUserID, user.ID, applog.FieldOperation, applog.OpRegister)
	h.redirect(w, r, "/login", Flash{Kind: FlashSuccess, Message: "Account created. You can log in now."})
}

// Logout handles user logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentAuth)
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.svc.Sessions.End(r.Context(), cookie.Value); err != nil {
			logger.ErrorContext(r.Context(), "Failed to delete session", applog.FieldError, err, applog.FieldOperation, applog.OpLogout)
		} else {
			logger.InfoContext(r.Context(), "User logged out", applog.FieldOperation, applog.OpLogout)
		}
	}
	h.clearSessionCookie(w)
	h.redirect(w, r, "/login", Flash{Kind: FlashInfo, Message: "You have been logged out."})
}

// Health reports database reachability.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.svc.DB.Ping(ctx); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Health check failed", applog.FieldError, err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.svc.Sessions.Duration().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// page collects the layout data and consumes pending flash messages.
func (h *Handlers) page(w http.ResponseWriter, r *http.Request) Page {
	return Page{User: GetUserFromContext(r), Flashes: h.takeFlashes(w, r)}
}

// redirect stores flashes for the next request and sends a 303 to path.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, path string, flashes ...Flash) {
	h.setFlashes(w, flashes)
	http.Redirect(w, r, path, http.StatusSeeOther)
}

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"lower": strings.ToLower,
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, viewName string, data any) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate)

	tmpl, err := template.New("base.html").Funcs(templateFuncs).ParseFiles(
		filepath.Join(h.templateDir, "base.html"),
		filepath.Join(h.templateDir, viewName),
	)
	if err != nil {
		logger.ErrorContext(r.Context(), "Template error", applog.FieldError, err, applog.FieldOperation, applog.OpRender, "view", viewName)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	target := "base.html"
	if r.Header.Get("HX-Request") == "true" {
		target = "content"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, target, data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution error", applog.FieldError, err, applog.FieldOperation, applog.OpRender, "view", viewName)
	}
}
