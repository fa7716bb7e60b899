package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/mmynk/billbook/internal/auth"
	"github.com/mmynk/billbook/internal/service"
)

// Index shows the login form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.LoginPage(w, r)
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	form := loginForm{}
	if r.URL.Query().Get("registered") == "1" {
		form.Notice = "Registered successfully!"
	}
	renderHTML(w, http.StatusOK, loginPage(isLoggedIn(r), form))
}

func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		if bodyTooLarge(err) {
			h.RequestTooLarge(w, r)
			return
		}
		renderHTML(w, http.StatusBadRequest, loginPage(isLoggedIn(r), loginForm{Error: "Invalid form submission"}))
		return
	}
	form := loginForm{Email: formString(r, "email")}

	result, err := h.Accounts.Login(r.Context(), form.Email, r.PostForm.Get("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		form.Error = "Invalid email or password"
		renderHTML(w, http.StatusUnauthorized, loginPage(isLoggedIn(r), form))
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	// A fresh login replaces whatever session the browser held before.
	if old, err := r.Cookie(auth.CookieName); err == nil {
		_ = h.Accounts.Logout(r.Context(), old.Value)
	}

	expires := time.Unix(result.Session.ExpiresAt, 0)
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
		MaxAge:   int(expires.Sub(h.now()).Seconds()),
	})
	http.Redirect(w, r, "/groups", http.StatusSeeOther)
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, registerPage(isLoggedIn(r), registerForm{}))
}

func (h *Handler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		if bodyTooLarge(err) {
			h.RequestTooLarge(w, r)
			return
		}
		renderHTML(w, http.StatusBadRequest, registerPage(isLoggedIn(r), registerForm{Error: "Invalid form submission"}))
		return
	}
	form := registerForm{
		Name:  formString(r, "name"),
		Email: formString(r, "email"),
	}

	_, err := h.Accounts.Register(r.Context(), service.RegisterRequest{
		Name:            form.Name,
		Email:           form.Email,
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("password2"),
	})
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			form.Error = "Passwords do not match"
		case errors.Is(err, auth.ErrEmailExists):
			form.Error = "Email already in use"
			status = http.StatusConflict
		case errors.Is(err, auth.ErrEmptyPassword):
			form.Error = "Password is required"
		case errors.Is(err, service.ErrNameRequired):
			form.Error = "Name is required"
		case errors.Is(err, service.ErrEmailRequired):
			form.Error = "Email is required"
		default:
			h.serverError(w, r, err)
			return
		}
		renderHTML(w, status, registerPage(isLoggedIn(r), form))
		return
	}

	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

// Logout ends the server-side session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		if err := h.Accounts.Logout(r.Context(), cookie.Value); err != nil {
			h.serverError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
