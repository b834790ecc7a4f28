package gateway

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	reelsdomain "github.com/jupiterclapton/buyv/internal/reels/core/domain"
)

type createReelRequest struct {
	Caption   string   `json:"caption"`
	VideoURL  string   `json:"video_url"`
	ImageURLs []string `json:"image_urls"`
	ProductID string   `json:"product_id"`
}

type reelResponse struct {
	ID         string    `json:"id"`
	PromoterID string    `json:"promoter_id"`
	Caption    string    `json:"caption,omitempty"`
	VideoURL   string    `json:"video_url,omitempty"`
	ImageURLs  []string  `json:"image_urls,omitempty"`
	ProductID  string    `json:"product_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toReelResponse(reel *reelsdomain.Reel) reelResponse {
	return reelResponse{
		ID:         reel.ID,
		PromoterID: reel.PromoterID,
		Caption:    reel.Caption,
		VideoURL:   reel.VideoURL,
		ImageURLs:  reel.ImageURLs,
		ProductID:  reel.ProductID,
		CreatedAt:  reel.CreatedAt,
	}
}

func (s *Server) handleCreateReel(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createReelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	reel, err := s.reels.CreateReel(r.Context(), userID, req.Caption, req.VideoURL, req.ImageURLs, req.ProductID)
	if err != nil {
		if errors.Is(err, reelsdomain.ErrNoMedia) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "could not create reel")
		return
	}

	respondJSON(w, http.StatusCreated, toReelResponse(reel))
}

func (s *Server) handleGetReel(w http.ResponseWriter, r *http.Request) {
	reel, err := s.reels.GetReel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, reelsdomain.ErrReelNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "could not load reel")
		return
	}
	respondJSON(w, http.StatusOK, toReelResponse(reel))
}

func (s *Server) handleDeleteReel(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	err := s.reels.DeleteReel(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, reelsdomain.ErrReelNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, reelsdomain.ErrNotOwner):
			respondError(w, http.StatusForbidden, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "could not delete reel")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPromoterReels(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")

	reelList, next, err := s.reels.ListByPromoter(r.Context(), chi.URLParam(r, "id"), limit, cursor)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cursor or promoter")
		return
	}

	items := make([]reelResponse, 0, len(reelList))
	for _, reel := range reelList {
		items = append(items, toReelResponse(reel))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"reels":       items,
		"next_cursor": next,
	})
}
