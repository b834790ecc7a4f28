package gateway

import (
	"net/http"

	"github.com/jupiterclapton/buyv/internal/deeplink"
)

type shareLinkRequest struct {
	Type  string `json:"type"` // profile, post, product, order, reels, search
	ID    string `json:"id,omitempty"`
	Query string `json:"query,omitempty"`
}

type resolvedLink struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Query string `json:"query,omitempty"`
}

// handleShareLink construit l'URL buyv:// à mettre dans la share sheet.
func (s *Server) handleShareLink(w http.ResponseWriter, r *http.Request) {
	var req shareLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	var target deeplink.Result
	switch req.Type {
	case "profile":
		target = deeplink.Profile{UserID: req.ID}
	case "post":
		target = deeplink.Post{PostID: req.ID}
	case "product":
		target = deeplink.Product{ProductID: req.ID}
	case "order":
		target = deeplink.Order{OrderID: req.ID}
	case "reels":
		target = deeplink.Reels{ReelID: req.ID}
	case "search":
		target = deeplink.Search{Query: req.Query}
	default:
		respondError(w, http.StatusBadRequest, "unknown link type")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": deeplink.Build(target)})
}

// handleResolveLink parse une URL entrante (notification push, QR code).
// Une URL qui ne matche aucune destination est un 404 sec : jamais de
// résultat partiel.
func (s *Server) handleResolveLink(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "url parameter required")
		return
	}

	result := deeplink.Parse(raw)
	if result == nil {
		respondError(w, http.StatusNotFound, "unrecognized link")
		return
	}

	var resp resolvedLink
	switch t := result.(type) {
	case deeplink.Profile:
		resp = resolvedLink{Type: "profile", ID: t.UserID}
	case deeplink.Post:
		resp = resolvedLink{Type: "post", ID: t.PostID}
	case deeplink.Product:
		resp = resolvedLink{Type: "product", ID: t.ProductID}
	case deeplink.Order:
		resp = resolvedLink{Type: "order", ID: t.OrderID}
	case deeplink.Reels:
		resp = resolvedLink{Type: "reels", ID: t.ReelID}
	case deeplink.Search:
		resp = resolvedLink{Type: "search", Query: t.Query}
	}

	respondJSON(w, http.StatusOK, resp)
}
