package handler

import (
	"campussafety/internal/log"
	"campussafety/internal/repository"
	"campussafety/internal/service"
	"campussafety/internal/transport/rest/middleware"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// UploadHandler accepts photos and serves stored files
type UploadHandler struct {
	uploadSvc *service.UploadService
	files     repository.FileStore
	maxBytes  int64
}

func NewUploadHandler(uploadSvc *service.UploadService, files repository.FileStore, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc, files: files, maxBytes: maxBytes}
}

// Upload handles POST /v1/assignments/{id}/questions/{questionId}/upload
// with a multipart "file" field. The transfer finishes in the background.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	vars := mux.Vars(r)

	if h.maxBytes > 0 {
		// room for the multipart envelope
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeValidation(w, "validation failed", map[string]string{"file": "a multipart file field is required"})
		return
	}
	defer file.Close()

	data, err := readFile(file, h.maxBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	ticket, err := h.uploadSvc.Upload(r.Context(), vars["id"], vars["questionId"], claims, header.Filename, data)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, ticket)
}

// readFile reads one byte past max so the service can reject oversize
// files. A max of 0 or less reads everything.
func readFile(r io.Reader, max int64) ([]byte, error) {
	if max > 0 {
		r = io.LimitReader(r, max+1)
	}
	return io.ReadAll(r)
}

// File handles GET /v1/files/{fileId}
func (h *UploadHandler) File(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["fileId"]

	rc, info, err := h.files.Open(r.Context(), id)
	if err != nil {
		writeFault(w, r, err)
		return
	}
	if rc == nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", info.Name))
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		log.WithFields(log.Fields{"file": id}).WithError(err).Warn("file stream interrupted")
	}
}
