package gateway

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	trackingdomain "github.com/jupiterclapton/buyv/internal/tracking/core/domain"
	trackingports "github.com/jupiterclapton/buyv/internal/tracking/core/ports"
)

// Les noms de champs (promoter_uid, viewer_uid) sont le contrat historique
// des clients mobiles : ne pas les "normaliser".
type trackViewRequest struct {
	ReelID         string  `json:"reel_id"`
	PromoterUID    string  `json:"promoter_uid"`
	ProductID      string  `json:"product_id"`
	ViewerUID      string  `json:"viewer_uid"`
	SessionID      string  `json:"session_id"`
	WatchDuration  int     `json:"watch_duration"`
	CompletionRate float64 `json:"completion_rate"`
}

type trackClickRequest struct {
	ReelID      string `json:"reel_id"`
	ProductID   string `json:"product_id"`
	PromoterUID string `json:"promoter_uid"`
	ViewerUID   string `json:"viewer_uid"`
	SessionID   string `json:"session_id"`
	DeviceInfo  string `json:"device_info"`
}

type trackConversionRequest struct {
	OrderID        string `json:"order_id"`
	ClickSessionID string `json:"click_session_id"`
}

func (s *Server) handleTrackView(w http.ResponseWriter, r *http.Request) {
	var req trackViewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	// Un viewer authentifié prime sur le champ du body
	viewerID := ForContext(r.Context())
	if viewerID == "" {
		viewerID = req.ViewerUID
	}

	view, err := s.tracking.TrackView(r.Context(), trackingports.TrackViewCmd{
		ReelID:         req.ReelID,
		PromoterID:     req.PromoterUID,
		ProductID:      req.ProductID,
		ViewerID:       viewerID,
		SessionID:      req.SessionID,
		WatchDuration:  req.WatchDuration,
		CompletionRate: req.CompletionRate,
	})
	if err != nil {
		if errors.Is(err, trackingdomain.ErrMissingReel) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "could not track view")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"view_id": view.ID})
}

func (s *Server) handleTrackClick(w http.ResponseWriter, r *http.Request) {
	var req trackClickRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	viewerID := ForContext(r.Context())
	if viewerID == "" {
		viewerID = req.ViewerUID
	}

	click, err := s.tracking.TrackClick(r.Context(), trackingports.TrackClickCmd{
		ReelID:     req.ReelID,
		ProductID:  req.ProductID,
		PromoterID: req.PromoterUID,
		ViewerID:   viewerID,
		SessionID:  req.SessionID,
		DeviceInfo: req.DeviceInfo,
	})
	if err != nil {
		if errors.Is(err, trackingdomain.ErrMissingReel) || errors.Is(err, trackingdomain.ErrMissingProduct) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "could not track click")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"click_id": click.ID})
}

func (s *Server) handleTrackConversion(w http.ResponseWriter, r *http.Request) {
	var req trackConversionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	conv, err := s.tracking.TrackConversion(r.Context(), trackingports.TrackConversionCmd{
		OrderID:        req.OrderID,
		ClickSessionID: req.ClickSessionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, trackingdomain.ErrClickNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, trackingdomain.ErrMissingOrder):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "could not track conversion")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"conversion_id": conv.ID})
}

func (s *Server) handlePromoterStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tracking.GetPromoterStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not load stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"promoter_id": stats.PromoterID,
		"views":       stats.TotalViews,
		"clicks":      stats.TotalClicks,
		"conversions": stats.TotalConversions,
	})
}
