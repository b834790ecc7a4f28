package gateway

import (
	"errors"
	"net/http"

	identitydomain "github.com/jupiterclapton/buyv/internal/identity/core/domain"
	identityports "github.com/jupiterclapton/buyv/internal/identity/core/ports"
)

type registerRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"` // secondes
}

type userResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	IsPromoter      bool   `json:"is_promoter"`
}

func toAuthResponse(resp *identityports.AuthResponse) authResponse {
	return authResponse{
		User:         toUserResponse(resp.User),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    int64(resp.ExpiresIn.Seconds()),
	}
}

func toUserResponse(u *identitydomain.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		DisplayName:     u.DisplayName,
		ProfileImageURL: u.ProfileImageURL,
		IsPromoter:      u.IsPromoter,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	resp, err := s.identity.Register(r.Context(), identityports.RegisterCmd{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrEmailAlreadyExists):
			respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, identitydomain.ErrInvalidEmail),
			errors.Is(err, identitydomain.ErrInvalidUsername):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	respondJSON(w, http.StatusCreated, toAuthResponse(resp))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	resp, err := s.identity.Login(r.Context(), identityports.LoginCmd{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// Toujours 401 générique : ne jamais révéler si l'email existe.
		respondError(w, http.StatusUnauthorized, identitydomain.ErrInvalidCredentials.Error())
		return
	}

	respondJSON(w, http.StatusOK, toAuthResponse(resp))
}

type updateProfileRequest struct {
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url"`
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := s.identity.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, identitydomain.ErrUserNotFound.Error())
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	user, err := s.identity.UpdateProfile(r.Context(), identityports.UpdateProfileCmd{
		UserID:          userID,
		DisplayName:     req.DisplayName,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		if errors.Is(err, identitydomain.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "could not update profile")
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}
