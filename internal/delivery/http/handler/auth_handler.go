package handler

import (
	"errors"
	"net/http"
	"net/url"

	"clinic-inventory/internal/delivery/dto"
	"clinic-inventory/internal/delivery/http/middleware"
	"clinic-inventory/internal/session"
	"clinic-inventory/internal/usecase"
	"clinic-inventory/pkg/response"
	"clinic-inventory/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
	sessions    *session.Service
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator, sessions *session.Service) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		sessions:    sessions,
	}
}

// Index routes the bare domain: authenticated browsers land on the dashboard,
// everyone else on the login page.
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	if h.isAuthenticated(r) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// LoginForm serves the login entry point. A notice query parameter carries
// messages across anonymous redirects (signup success, logout).
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.isAuthenticated(r) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	var data interface{}
	if notice := r.URL.Query().Get("notice"); notice != "" {
		data = map[string]string{"notice": notice}
	}
	response.Success(w, http.StatusOK, "Please log in to access this page.", data)
}

// Login authenticates the posted credentials and establishes the session
// cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.FormError(w, "Invalid form data", nil)
		return
	}

	req := dto.LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.FormError(w, "Invalid username or password", h.validator.FormatValidationErrors(err))
		return
	}

	sess, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			response.FormError(w, "Invalid username or password", nil)
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	http.SetCookie(w, h.sessions.Cookie(sess.Token, int(h.sessions.Expiry().Seconds())))
	_ = h.sessions.AddFlash(r.Context(), sess.SessionID, "Login successful!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// SignupForm serves the registration entry point.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if h.isAuthenticated(r) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	response.Success(w, http.StatusOK, "Create a staff account.", nil)
}

// Signup registers a new staff account from the posted form.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.FormError(w, "Invalid form data", nil)
		return
	}

	req := dto.SignupRequest{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		Role:            r.PostFormValue("role"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if _, err := h.authUsecase.Signup(r.Context(), &req); err != nil {
		var weak *usecase.WeakPasswordError
		switch {
		case errors.Is(err, usecase.ErrPasswordMismatch):
			response.FormError(w, "Passwords do not match", nil)
		case errors.As(err, &weak):
			response.FormError(w, "Password too weak: "+weak.Reason, nil)
		case errors.Is(err, usecase.ErrUsernameAlreadyExists):
			response.FormError(w, "Username already exists", nil)
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			response.FormError(w, "Email already exists", nil)
		default:
			response.FormError(w, "Error creating user", nil)
		}
		return
	}

	redirectWithNotice(w, r, "/login", "Registration successful! Please login.")
}

// Logout revokes the session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
		_ = h.authUsecase.Logout(r.Context(), claims)
	}

	http.SetCookie(w, h.sessions.Cookie("", -1))
	redirectWithNotice(w, r, "/login", "You have been logged out.")
}

// isAuthenticated checks the session cookie without requiring the auth
// middleware, for routes that are public but redirect logged-in users.
func (h *AuthHandler) isAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return false
	}
	_, err = h.sessions.Validate(r.Context(), cookie.Value)
	return err == nil
}

// redirectWithNotice carries a notice through an anonymous redirect, where no
// session exists to flash against.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	query := url.Values{"notice": {notice}}
	http.Redirect(w, r, path+"?"+query.Encode(), http.StatusSeeOther)
}
