package handlers

import (
	"net/http"

	"egov-portal/assistant"
	"egov-portal/models"
)

// Chat relays a question to the assistant. Failures surface as the fallback
// reply with a 200, never as an error.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	st := h.store.State()
	reply := h.assistant.Reply(r.Context(), st.Services, st.Language, req.Message)
	sendJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

func (h *Handlers) SpeechError(w http.ResponseWriter, r *http.Request) {
	var req models.SpeechErrorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"message": assistant.SpeechErrorMessage(req.Code)})
}
