package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MimeLyc/yt-caption-translator/internal/subtitle"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTranslate runs the pipeline and returns the Result as JSON.
// The v query parameter accepts a video URL or a bare ID.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	input := r.URL.Query().Get("v")
	if input == "" {
		writeError(w, http.StatusBadRequest, "missing v query parameter")
		return
	}

	result := s.svc.ProcessVideo(r.Context(), input)
	if !result.Success {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleTranslateSRT runs the pipeline and returns the timeline as a
// downloadable SubRip file.
func (s *Server) handleTranslateSRT(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	input := r.URL.Query().Get("v")
	if input == "" {
		writeError(w, http.StatusBadRequest, "missing v query parameter")
		return
	}

	result := s.svc.ProcessVideo(r.Context(), input)
	if !result.Success {
		writeError(w, http.StatusUnprocessableEntity, result.Error)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="subtitles.srt"`)
	_, _ = fmt.Fprint(w, subtitle.FormatSRT(result.Data))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
