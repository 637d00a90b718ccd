package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/gestiongasto/internal/logging"
)

var maxUploadBytes int64 = 64 << 20

func newRouter(h *Handlers, l logging.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/healthz", h.Health)

	mux.HandleFunc("POST /v1/requests/{id}/attachments", limitBody(maxUploadBytes, h.UploadAttachments))
	mux.HandleFunc("GET /v1/requests/{id}/attachments", h.ListAttachments)
	mux.HandleFunc("GET /v1/requests/{id}/attachments/history", h.AttachmentHistory)

	// S3 keys contain slashes
	mux.HandleFunc("GET /v1/files/{id...}", h.GetFile)
	mux.HandleFunc("DELETE /v1/files/{id...}", h.DeleteFile)

	mux.HandleFunc("GET /v1/folders", h.ListFolder)
	mux.HandleFunc("POST /v1/folders", h.CreateFolder)

	return withRequestID(withLogging(l)(mux))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
