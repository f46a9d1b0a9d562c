package httpapi

import (
	"net/http"

	"github.com/ashishkaushik/leazzy/internal/server/auth"
	"github.com/ashishkaushik/leazzy/internal/server/models"
	"github.com/ashishkaushik/leazzy/internal/server/services"
)

type userPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
}

type authResponse struct {
	User         userPayload `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		AvatarURL:     u.AvatarURL,
		EmailVerified: u.EmailVerified,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, err)
		return
	}

	user, pair, err := s.users.Register(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	s.collector.RecordSignup()
	writeJSON(w, http.StatusOK, authResponse{
		User:         toUserPayload(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, err)
		return
	}

	user, pair, err := s.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	s.collector.RecordLogin()
	writeJSON(w, http.StatusOK, authResponse{
		User:         toUserPayload(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, err)
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), in.RefreshToken)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), auth.UserID(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]userPayload{"user": toUserPayload(user)})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name      *string `json:"name"`
		Phone     *string `json:"phone"`
		AvatarURL *string `json:"avatarUrl"`
	}
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, err)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), auth.UserID(r.Context()), services.ProfilePatch{
		Name:      in.Name,
		Phone:     in.Phone,
		AvatarURL: in.AvatarURL,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]userPayload{"user": toUserPayload(user)})
}
