package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"egov-portal/qr"
)

const qrImageSize = 256

func (h *Handlers) issueQR(w http.ResponseWriter) (qr.Payload, bool) {
	st := h.store.State()
	if st.Profile == nil {
		sendError(w, http.StatusUnauthorized, "Not signed in", nil)
		return qr.Payload{}, false
	}
	token := qr.LatestToken(st.Applications, st.Profile.ID)
	payload, err := qr.Issue(st.Profile, token, h.now(), h.config.QRTTL)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to issue QR code", nil)
		return qr.Payload{}, false
	}
	return payload, true
}

func (h *Handlers) GetQR(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.issueQR(w)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"payload":           payload,
		"remaining_seconds": int(payload.Remaining(h.now()) / time.Second),
	})
}

func (h *Handlers) GetQRImage(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.issueQR(w)
	if !ok {
		return
	}
	png, err := payload.PNG(qrImageSize)
	if err != nil {
		h.logger.Error("failed to render qr code", zap.Error(err))
		sendError(w, http.StatusInternalServerError, "Failed to render QR code", nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
