package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"finflio/internal/core"
	"finflio/internal/log"
	"finflio/internal/services"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, r, http.StatusBadRequest, "Required 'name' or 'email' or 'password' missing")
		return
	}

	err := s.users.Register(r.Context(), core.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if core.IsConflict(err) {
			writeFailure(w, r, http.StatusConflict, err.Error())
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Registration failed",
			log.FieldError, err)
		writeJSON(w, r, http.StatusBadRequest, authResponse{
			Status:  http.StatusBadRequest,
			Message: "Error Creating the user",
		})
		return
	}

	writeJSON(w, r, http.StatusOK, authResponse{
		Status:  http.StatusOK,
		Message: "Registration Successful",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, r, http.StatusBadRequest, "Required 'email' or 'password' missing.")
		return
	}

	token, err := s.users.Login(r.Context(), core.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case core.IsConflict(err):
			writeFailure(w, r, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrIncorrectCredentials):
			writeFailure(w, r, http.StatusBadRequest, err.Error())
		default:
			log.FromContext(r.Context()).ErrorContext(r.Context(), "Login failed",
				log.FieldError, err)
			writeFailure(w, r, http.StatusInternalServerError, "Something went wrong!")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, authResponse{
		Status:  http.StatusOK,
		Message: "Login Successful",
		Token:   token,
	})
}
