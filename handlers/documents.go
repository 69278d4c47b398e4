package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"egov-portal/state"
	"egov-portal/utils"
)

const maxUploadSize = 10 << 20

// UploadDocument hashes a multipart "file" part and records it in the
// caller's wallet. The bytes themselves are discarded.
func (h *Handlers) UploadDocument(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrReject(w, r)
	if claims == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid multipart upload", err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", map[string]string{"file": "file is required"})
		return
	}
	defer file.Close()

	docType := utils.SanitizeString(r.FormValue("doc_type"))
	if docType == "" {
		sendError(w, http.StatusBadRequest, "Validation failed", map[string]string{"doc_type": "doc_type is required"})
		return
	}
	metadata := map[string]string{}
	if number := utils.SanitizeString(r.FormValue("number")); number != "" {
		metadata["number"] = number
	}
	if err := utils.ValidateDocumentMetadata(docType, metadata); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", map[string]string{"number": err.Error()})
		return
	}

	hash, size, err := utils.HashDocument(file)
	if err != nil {
		h.logger.Error("failed to hash upload", zap.String("profile_id", claims.ProfileID), zap.Error(err))
		sendError(w, http.StatusBadRequest, "Failed to read upload", nil)
		return
	}

	id := h.store.NewID()
	fileName := filepath.Base(header.Filename)
	_, st, err := h.store.DispatchAfter(r.Context(), h.config.SimulatedDelay, state.UploadDocument{
		ID:          id,
		DocType:     docType,
		FileName:    fileName,
		Hash:        hash,
		StoragePath: fmt.Sprintf("wallet/%s/%s", claims.ProfileID, id),
		Metadata:    metadata,
	})
	if err != nil {
		sendError(w, http.StatusRequestTimeout, "Upload was cancelled", nil)
		return
	}

	doc, ok := st.FindDocument(id)
	if !ok {
		sendError(w, http.StatusConflict, "Document was not stored", lastToast(st))
		return
	}

	h.logger.Info("document uploaded",
		zap.String("profile_id", claims.ProfileID),
		zap.String("document_id", id),
		zap.Int64("size", size),
	)
	h.logAudit(claims, "UPLOAD", "DOCUMENT", fmt.Sprintf("%s (%s, %d bytes)", fileName, docType, size), r)
	sendJSON(w, http.StatusCreated, doc)
}
