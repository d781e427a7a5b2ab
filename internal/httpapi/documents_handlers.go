package httpapi

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"resumematch-engine/internal/docparse"
	"resumematch-engine/internal/logger"
)

type DocumentsHandler struct {
	D *Deps
}

// Parse extracts plain text from a multipart upload in the "file" field.
func (h DocumentsHandler) Parse(w http.ResponseWriter, r *http.Request) {
	limit := h.D.config().Uploads.MaxBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			WriteError(w, r, http.StatusRequestEntityTooLarge, "too_large", "file is too large")
			return
		}
		WriteError(w, r, http.StatusBadRequest, "invalid_request", "expected a multipart form with a file field")
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", "file is required")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", "could not read upload")
		return
	}
	if int64(len(data)) > limit {
		WriteError(w, r, http.StatusRequestEntityTooLarge, "too_large", "file is too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	text, err := docparse.Extract(fh.Filename, data)
	if err != nil && errors.Is(err, docparse.ErrUnsupportedFormat) {
		// fall back to the declared content type for files without a useful extension
		if ct := fh.Header.Get("Content-Type"); ct != "" {
			text, err = docparse.ExtractMIME(ct, data)
		}
	}
	if h.D.Metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		h.D.Metrics.Documents.WithLabelValues(ext, result).Inc()
	}

	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, map[string]any{"text": text})
	case errors.Is(err, docparse.ErrUnsupportedFormat):
		WriteError(w, r, http.StatusUnsupportedMediaType, "unsupported_format", docparse.UserMessage(err))
	default:
		h.D.Log.Warn("document parse", zap.String("file", logger.Truncate(fh.Filename, logTextLimit)), zap.Error(err))
		WriteError(w, r, http.StatusUnprocessableEntity, "parse_failed", docparse.UserMessage(err))
	}
}
