package gateway

import (
	"net/http"
	"strconv"

	feeddomain "github.com/jupiterclapton/buyv/internal/feed/core/domain"
)

const defaultFeedLimit = 20

// handleGetFeed lit la timeline Redis (des ids ordonnés) puis hydrate les
// reels en batch. Un reel supprimé depuis le fan-out est silencieusement
// filtré : la timeline peut référencer des ids morts pendant 30 jours.
func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	if limit <= 0 || limit > 100 {
		limit = defaultFeedLimit
	}
	offset, _ := strconv.ParseInt(q.Get("offset"), 10, 64)

	req := feeddomain.TimelineRequest{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	}
	if kind := q.Get("kind"); kind != "" {
		req.Kinds = []feeddomain.ReelKind{feeddomain.ReelKind(kind)}
	}

	entries, err := s.feed.GetTimeline(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not load feed")
		return
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ReelID)
	}

	reelList, err := s.reels.GetReels(r.Context(), ids)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not hydrate feed")
		return
	}

	// Ré-ordonnancement selon la timeline (GetReels ne garantit pas l'ordre)
	byID := make(map[string]reelResponse, len(reelList))
	for _, reel := range reelList {
		byID[reel.ID] = toReelResponse(reel)
	}

	items := make([]reelResponse, 0, len(entries))
	for _, e := range entries {
		if resp, found := byID[e.ReelID]; found {
			items = append(items, resp)
		}
	}

	// L'offset compte des positions BRUTES de timeline : le repo fenêtre
	// [offset, offset+limit) avant d'appliquer le filtre kind. Avancer du
	// nombre d'entrées filtrées rejouerait la fin de la fenêtre (doublons)
	// et une fenêtre entièrement filtrée ne progresserait jamais.
	respondJSON(w, http.StatusOK, map[string]any{
		"reels":  items,
		"offset": offset + limit,
	})
}
