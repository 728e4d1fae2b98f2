package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
)

const maxHistoryLimit = 200

type savePlaylistRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Public      bool     `json:"public"`
	Query       string   `json:"query"`
	TrackIDs    []string `json:"trackIds"`
}

type partialSaveResponse struct {
	errorResponse
	Playlist domain.SavedPlaylist `json:"playlist"`
}

// SavePlaylist handles POST /playlists
func (h *Handler) SavePlaylist(w http.ResponseWriter, r *http.Request) {
	if h.playlists == nil {
		writeError(w, http.StatusNotImplemented, "playlist saving not configured")
		return
	}
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var body savePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req, err := domain.NewPlaylistRequest(body.Name, body.Description, body.Public, body.TrackIDs)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	req.Query = body.Query

	saved, err := h.playlists.Save(r.Context(), bearerToken(r), *req)
	if err != nil {
		if saved.ID != "" {
			// The playlist exists but not every batch landed.
			_, base := statusFor(err)
			base.Code = errCodePartialSave
			writeJSON(w, http.StatusBadGateway, partialSaveResponse{errorResponse: base, Playlist: saved})
			return
		}
		writeServiceError(w, r, h.logger, err)
		return
	}

	if saved.URL != "" {
		w.Header().Set("Location", saved.URL)
	}
	writeJSON(w, http.StatusCreated, saved)
}

// PlaylistHistory handles GET /playlists/history?limit=n
func (h *Handler) PlaylistHistory(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		writeError(w, http.StatusNotImplemented, "playlist ledger not configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := h.ledger.Recent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
