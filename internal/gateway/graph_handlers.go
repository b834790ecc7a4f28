package gateway

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	graphdomain "github.com/jupiterclapton/buyv/internal/graph/core/domain"
)

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	// On ne suit qu'en son propre nom
	if userID != chi.URLParam(r, "id") {
		respondError(w, http.StatusForbidden, "cannot follow on behalf of another user")
		return
	}

	err := s.graph.FollowUser(r.Context(), userID, chi.URLParam(r, "target"))
	if err != nil {
		if errors.Is(err, graphdomain.ErrSelfFollow) || errors.Is(err, graphdomain.ErrEmptyUserID) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "could not follow user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if userID != chi.URLParam(r, "id") {
		respondError(w, http.StatusForbidden, "cannot unfollow on behalf of another user")
		return
	}

	err := s.graph.UnfollowUser(r.Context(), userID, chi.URLParam(r, "target"))
	if err != nil {
		if errors.Is(err, graphdomain.ErrSelfUnfollow) || errors.Is(err, graphdomain.ErrEmptyUserID) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "could not unfollow user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRelation(w http.ResponseWriter, r *http.Request) {
	status, err := s.graph.CheckRelation(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "target"))
	if err != nil {
		if errors.Is(err, graphdomain.ErrEmptyUserID) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "could not check relation")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"is_following":   status.IsFollowing,
		"is_followed_by": status.IsFollowedBy,
		"mutual":         status.Mutual(),
	})
}

func (s *Server) handleFollowCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.graph.GetFollowCounts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not load follow counts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"followers": counts.Followers,
		"following": counts.Following,
	})
}
