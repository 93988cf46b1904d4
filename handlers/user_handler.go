package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"harvesterbilling/auth"
	"harvesterbilling/models"
	"harvesterbilling/services"
)

type UserHandler struct {
	Accounts *services.AccountService
	Tokens   *auth.Issuer
}

type session struct {
	Token string          `json:"token"`
	User  *models.AppUser `json:"user"`
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.Accounts.Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, err := h.Tokens.Issue(user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, "User signed up successfully", session{Token: token, User: user})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &creds); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.Accounts.Login(r.Context(), creds.Login, creds.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, err := h.Tokens.Issue(user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Login successful", session{Token: token, User: user})
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Accounts.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Accounts.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", user)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.AppUser
	if err := readJSON(w, r, &user); err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := h.Accounts.CreateUser(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, "User created", saved)
}

// UpdateUser keeps the stored password when the body omits it.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var user models.AppUser
	if err := readJSON(w, r, &user); err != nil {
		writeError(w, r, err)
		return
	}
	user.ID = chi.URLParam(r, "id")
	saved, err := h.Accounts.UpdateUser(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "User updated", saved)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "User deleted", nil)
}
