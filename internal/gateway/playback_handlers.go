package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jupiterclapton/buyv/internal/playback"
)

// Les endpoints playback miroir les callbacks du lecteur mobile : chaque
// changement de page, toggle ou transition de lifecycle est relayé au
// Coordinator de la session.

type playbackItem struct {
	ID         string   `json:"id"`
	VideoURL   string   `json:"video_url,omitempty"`
	ImageURLs  []string `json:"image_urls,omitempty"`
	PromoterID string   `json:"promoter_id,omitempty"`
	ProductID  string   `json:"product_id,omitempty"`
}

type pageChangedRequest struct {
	Index int            `json:"index"`
	Items []playbackItem `json:"items"`
}

type toggleRequest struct {
	ItemID       string `json:"item_id"`
	WantsPlaying bool   `json:"wants_playing"`
}

func (s *Server) handlePlaybackPage(w http.ResponseWriter, r *http.Request) {
	var req pageChangedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	items := make([]playback.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, playback.Item{
			ID:         it.ID,
			VideoURL:   it.VideoURL,
			ImageURLs:  it.ImageURLs,
			PromoterID: it.PromoterID,
			ProductID:  it.ProductID,
		})
	}

	coord := s.sessions.Get(chi.URLParam(r, "sid"))
	coord.OnPageChanged(r.Context(), req.Index, items)

	active := ""
	if req.Index >= 0 && req.Index < len(items) {
		active = items[req.Index].ID
	}
	respondJSON(w, http.StatusOK, map[string]any{"playing": active})
}

func (s *Server) handlePlaybackToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	coord := s.sessions.Get(chi.URLParam(r, "sid"))
	coord.OnUserToggledPlayback(req.ItemID, req.WantsPlaying)

	respondJSON(w, http.StatusOK, map[string]any{
		"playing": coord.IsPlaying(req.ItemID),
	})
}

func (s *Server) handlePlaybackBackground(w http.ResponseWriter, r *http.Request) {
	s.sessions.Get(chi.URLParam(r, "sid")).OnAppBackgrounded()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlaybackForeground(w http.ResponseWriter, r *http.Request) {
	s.sessions.Get(chi.URLParam(r, "sid")).OnAppForegrounded()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlaybackStop(w http.ResponseWriter, r *http.Request) {
	s.sessions.Drop(chi.URLParam(r, "sid"))
	w.WriteHeader(http.StatusNoContent)
}
