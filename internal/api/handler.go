package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/compression"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/model"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/obfuscate"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/obfuscation"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/storage"
)

// maxRequestBytes bounds the request document, not the file it names.
const maxRequestBytes = 1 << 20

// Obfuscator masks the file named by a request.
type Obfuscator interface {
	ObfuscateRequest(ctx context.Context, req model.Request, opts obfuscate.WriteOptions) (obfuscation.Output, error)
}

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	obfuscator Obfuscator
	options    obfuscate.WriteOptions
}

// NewHandler creates a new Handler. opts is forwarded to the Parquet encoder.
func NewHandler(obfuscator Obfuscator, opts obfuscate.WriteOptions) *Handler {
	return &Handler{obfuscator: obfuscator, options: opts}
}

// RegisterRoutes attaches all routes to the provided mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /obfuscate", h.handleObfuscate)
}

// handleHealth returns 204 No Content for liveness checks.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// handleObfuscate masks the file named in the JSON body and streams it back.
// ?compress=gzip|bzip2 compresses the response body.
func (h *Handler) handleObfuscate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	codec := r.URL.Query().Get("compress")
	if codec != "" && compression.Extension(codec) == "" {
		writeError(w, http.StatusBadRequest, "unsupported compression "+codec)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		status := http.StatusBadRequest
		if errors.As(err, new(*http.MaxBytesError)) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err.Error())
		return
	}
	req, err := model.DecodeRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.obfuscator.ObfuscateRequest(ctx, req, h.options)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.ErrorContext(ctx, "obfuscation failed", "file", req.FileToObfuscate, "error", err)
		}
		writeError(w, status, err.Error())
		return
	}

	data := out.Data
	filename := path.Base(out.Location.Key)
	contentType := out.Type.ContentType()
	if codec != "" {
		if data, err = compression.Compress(data, codec); err != nil {
			slog.ErrorContext(ctx, "compression failed", "compress", codec, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		filename += compression.Extension(codec)
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if len(out.Skipped) > 0 {
		w.Header().Set("X-Skipped-Fields", strings.Join(out.Skipped, ","))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrMalformedRequest), errors.Is(err, model.ErrUnsupportedDataType):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrNoSuchBucket):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
