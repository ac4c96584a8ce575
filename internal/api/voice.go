package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

type voiceRequest struct {
	Language    string `json:"language"`
	AudioBase64 string `json:"audioBase64"`
}

// VoiceDetect classifies a voice sample as AI-generated or human.
func (h *Handler) VoiceDetect(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "malformed input")
		return
	}
	if strings.TrimSpace(req.Language) == "" || strings.TrimSpace(req.AudioBase64) == "" {
		Error(w, http.StatusBadRequest, "language and audioBase64 are required")
		return
	}

	result, err := h.voice.Detect(req.Language, req.AudioBase64)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"status":          "success",
		"language":        result.Language,
		"classification":  result.Classification,
		"confidenceScore": result.Confidence,
		"explanation":     result.Explanation,
	})
}
