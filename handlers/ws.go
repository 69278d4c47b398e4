package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// ServeWS attaches the caller to the realtime feed. The upgrader writes its
// own error response on a failed handshake.
func (h *Handlers) ServeWS(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrReject(w, r)
	if claims == nil {
		return
	}
	if err := h.hub.ServeWS(w, r, claims.ProfileID); err != nil {
		h.logger.Warn("websocket connection refused", zap.String("profile_id", claims.ProfileID), zap.Error(err))
	}
}
