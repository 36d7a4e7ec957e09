package handler

import (
	"net/http"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := a.decode(r, &req); err != nil {
		a.writeError(w, err)
		return
	}

	user, err := a.auth.Register(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"message": "Registration successful",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := a.decode(r, &req); err != nil {
		a.writeError(w, err)
		return
	}

	token, user, err := a.auth.Login(req.Email, req.Password)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"user":    currentUser(r),
	})
}
