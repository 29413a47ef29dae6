package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/quiz-arena/internal/apperror"
	"github.com/sakif/quiz-arena/internal/auth"
	"github.com/sakif/quiz-arena/internal/service"
)

const stateCookie = "oauth_state"

// OAuthProvider is the GitHub side of the login flow. *auth.GitHubProvider
// implements it; tests substitute a fake.
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GitHubUser, error)
}

// AuthHandler serves signup, login, logout, account and GitHub OAuth routes.
type AuthHandler struct {
	auth         *service.AuthService
	github       OAuthProvider // nil when GitHub sign-in is not configured
	resp         *Responder
	cookieSecure bool
	logger       *slog.Logger
}

func NewAuthHandler(
	authService *service.AuthService,
	github OAuthProvider,
	resp *Responder,
	cookieSecure bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:         authService,
		github:       github,
		resp:         resp,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

type userView struct {
	Username string `json:"username"`
}

// HandleSignup creates an account and logs it in.
//
// HTTP: POST /api/auth/signup
// Body: {"username": "...", "password": "..."} as JSON or form fields.
// 201 on success, 409 if the username is taken.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(w, r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	res, err := h.auth.Signup(r.Context(), creds)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	auth.SetTokenCookie(w, res.Token, h.cookieSecure)
	h.resp.Success(w, http.StatusCreated, "User Authenticated", userView{Username: res.User.Username})
}

// HandleLogin checks credentials and sets the session cookie.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(w, r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	auth.SetTokenCookie(w, res.Token, h.cookieSecure)
	h.resp.Success(w, http.StatusOK, "User logged in", userView{Username: res.User.Username})
}

// HandleLogout clears the session cookie. Tokens are stateless, so there is
// nothing to revoke server-side.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w, h.cookieSecure)
	h.resp.Success(w, http.StatusOK, "User logged out", nil)
}

// HandleMe returns the logged-in user's name.
//
// HTTP: GET /api/auth/user (RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, "User fetched", userView{Username: user.Username})
}

// HandleDeleteAccount deletes the logged-in user and all their records,
// then clears the cookie.
//
// HTTP: DELETE /api/auth/user (RequireAuth)
func (h *AuthHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.auth.DeleteAccount(r.Context(), userID); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	auth.ClearTokenCookie(w, h.cookieSecure)
	h.resp.Success(w, http.StatusOK, "User deleted", nil)
}

// HandleGitHubLogin redirects the browser to GitHub.
//
// HTTP: GET /auth/github/login
//
// The random state goes both into the redirect URL and into a 10-minute
// HttpOnly cookie; the callback accepts only a matching pair (CSRF check).
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state, err := auth.NewState()
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback finishes the OAuth flow and redirects to "/".
//
// HTTP: GET /auth/github/callback?code=...&state=...
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || q.Get("state") != cookie.Value {
		h.logger.Warn("github callback: state mismatch")
		h.resp.Error(w, r, apperror.ValidationFailed("state", "invalid OAuth state"))
		return
	}

	// Single use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	if denied := q.Get("error"); denied != "" {
		h.logger.Info("github callback: authorization denied", slog.String("error", denied))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := q.Get("code")
	if code == "" {
		h.resp.Error(w, r, apperror.ValidationFailed("code", "missing OAuth code"))
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("github callback: exchange failed", slog.String("error", err.Error()))
		h.resp.Error(w, r, apperror.Unauthorized("GitHub authentication failed"))
		return
	}

	res, err := h.auth.LoginGitHub(r.Context(), ghUser)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	auth.SetTokenCookie(w, res.Token, h.cookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// readCredentials accepts either a JSON body or form fields, matching what
// both the SPA and a plain HTML form send.
func readCredentials(w http.ResponseWriter, r *http.Request) (service.Credentials, error) {
	var creds service.Credentials
	if isForm(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return creds, apperror.ValidationFailed("body", "invalid form body")
		}
		creds.Username = r.PostFormValue("username")
		creds.Password = r.PostFormValue("password")
		return creds, nil
	}

	err := decodeJSON(w, r, &creds)
	return creds, err
}
