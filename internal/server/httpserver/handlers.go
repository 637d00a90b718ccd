package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/logging"
	"github.com/dmitrijs2005/gestiongasto/internal/models"
	"github.com/dmitrijs2005/gestiongasto/internal/server/auth"
	"github.com/dmitrijs2005/gestiongasto/internal/server/services"
)

// StoreProvider hands out the FileStore bound to a caller's token.
// *sessions.Registry implements it.
type StoreProvider interface {
	Get(ctx context.Context, token string) (services.FileStore, error)
	Evict(token string)
}

type Handlers struct {
	attachments *services.AttachmentService
	stores      StoreProvider
	logger      logging.Logger
}

const uploadField = "files"

// store resolves the caller's FileStore. On failure the error is already
// written.
func (h *Handlers) store(w http.ResponseWriter, r *http.Request) (services.FileStore, string, bool) {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, err)
		return nil, "", false
	}
	s, err := h.stores.Get(r.Context(), token)
	if err != nil {
		h.fail(w, r, token, err)
		return nil, "", false
	}
	return s, token, true
}

// fail writes err and drops the session when the store rejected the token.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, token string, err error) {
	if errors.Is(err, common.ErrorUnauthorized) && token != "" {
		h.stores.Evict(token)
	}
	status, _ := mapError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "req_id", requestIDFromCtx(r.Context()), "error", err)
	}
	writeError(w, err)
}

func kindOf(r *http.Request) (models.AttachmentKind, error) {
	return models.ParseAttachmentKind(r.URL.Query().Get("kind"))
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]any{"status": "ok", "time": time.Now().UTC()})
}

func (h *Handlers) UploadAttachments(w http.ResponseWriter, r *http.Request) {
	kind, err := kindOf(r)
	if err != nil {
		writeError(w, err)
		return
	}

	store, token, ok := h.store(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, fmt.Errorf("%w: limit is %d bytes", errTooLarge, mbe.Limit))
			return
		}
		writeError(w, fmt.Errorf("%w: invalid multipart: %v", errBadRequest, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		writeError(w, fmt.Errorf("%w: no %q parts", errBadRequest, uploadField))
		return
	}

	uploads := make([]models.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeError(w, fmt.Errorf("%w: %s: %v", errBadRequest, fh.Filename, err))
			return
		}
		defer f.Close()

		h.logger.Debug(r.Context(), "upload part",
			"req_id", requestIDFromCtx(r.Context()), "name", fh.Filename, "size", fh.Size, "content_type", sniff(f))
		uploads = append(uploads, models.Upload{Name: fh.Filename, Content: f})
	}

	res, err := h.attachments.Upload(r.Context(), store, r.PathValue("id"), kind, uploads)
	if err != nil {
		h.fail(w, r, token, err)
		return
	}
	writeData(w, res)
}

// sniff detects the part's content type and rewinds it.
func sniff(f multipart.File) string {
	mt, err := mimetype.DetectReader(f)
	if _, serr := f.Seek(0, io.SeekStart); serr != nil || err != nil {
		return ""
	}
	return mt.String()
}

func (h *Handlers) ListAttachments(w http.ResponseWriter, r *http.Request) {
	kind, err := kindOf(r)
	if err != nil {
		writeError(w, err)
		return
	}

	store, token, ok := h.store(w, r)
	if !ok {
		return
	}

	files, err := h.attachments.List(r.Context(), store, r.PathValue("id"), kind)
	if err != nil {
		h.fail(w, r, token, err)
		return
	}
	writeData(w, files)
}

// AttachmentHistory reads the ledger only; the token is checked but no
// session is started.
func (h *Handlers) AttachmentHistory(w http.ResponseWriter, r *http.Request) {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err == nil {
		err = auth.CheckNotExpired(token, time.Now())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	rows, err := h.attachments.History(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, "", err)
		return
	}
	if rows == nil {
		rows = []*models.Attachment{}
	}
	writeData(w, rows)
}

func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	store, token, ok := h.store(w, r)
	if !ok {
		return
	}

	f, err := h.attachments.Get(r.Context(), store, r.PathValue("id"))
	if err != nil {
		h.fail(w, r, token, err)
		return
	}
	writeData(w, f)
}

func (h *Handlers) DeleteFile(w http.ResponseWriter, r *http.Request) {
	store, token, ok := h.store(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.attachments.Delete(r.Context(), store, id); err != nil {
		h.fail(w, r, token, err)
		return
	}
	writeData(w, map[string]any{"deleted": true, "id": id})
}

func (h *Handlers) ListFolder(w http.ResponseWriter, r *http.Request) {
	store, token, ok := h.store(w, r)
	if !ok {
		return
	}

	files, err := h.attachments.Browse(r.Context(), store, r.URL.Query().Get("path"))
	if err != nil {
		h.fail(w, r, token, err)
		return
	}
	writeData(w, files)
}

func (h *Handlers) CreateFolder(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("path")
	if p == "" {
		writeError(w, fmt.Errorf("%w: missing path", errBadRequest))
		return
	}

	store, token, ok := h.store(w, r)
	if !ok {
		return
	}

	if err := h.attachments.EnsureFolder(r.Context(), store, p); err != nil {
		h.fail(w, r, token, err)
		return
	}
	writeData(w, map[string]any{"path": p})
}
