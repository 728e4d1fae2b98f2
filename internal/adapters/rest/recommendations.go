package rest

import "net/http"

// Recommend handles GET /recommendations?q=<query>.
// The catalog token is taken from the Authorization header.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if h.recs == nil {
		writeError(w, http.StatusNotImplemented, "recommendations not configured")
		return
	}

	payload, err := h.recs.RecommendGenres(r.Context(), r.URL.Query().Get("q"), bearerToken(r))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}
