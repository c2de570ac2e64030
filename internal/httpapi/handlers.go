package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
	"github.com/afalcongonzalez/chromaviews/internal/imaging"
	"github.com/afalcongonzalez/chromaviews/internal/palette"
)

const (
	imageField      = "image"
	requestIDHeader = "X-Request-ID"
	// Room for multipart boundaries and headers on top of the image limit.
	multipartOverhead = 1 << 20
)

var (
	errMissingImage  = errors.New("field \"image\" is required")
	errImageTooLarge = errors.New("image exceeds the upload limit")
)

var (
	allowedMimeTypes  = []string{"image/jpeg", "image/jpg", "image/png"}
	allowedExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}
)

type upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// GET /healthz
func (app *Application) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/test
func (app *Application) testCors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "CORS is working",
		"origins": app.Config.AllowedOrigins,
	})
}

// POST /api/analyze?k=8
func (app *Application) analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	start := time.Now()
	requestID := uuid.NewString()
	w.Header().Set(requestIDHeader, requestID)
	logger := app.logger().With("request_id", requestID)

	k, err := app.parseK(r)
	if err != nil {
		app.validationError(w, r, err)
		return
	}

	limit := app.Config.MaxImageBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	up, err := readUpload(r, imageField, limit)
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		err = errImageTooLarge
	}
	switch {
	case errors.Is(err, errMissingImage), errors.Is(err, http.ErrNotMultipart):
		app.validationError(w, r, err)
		return
	case errors.Is(err, errImageTooLarge):
		logger.Warn("file too large", "max_mb", app.Config.MaxImageMB)
		app.badRequest(w, r, fmt.Errorf("Image size exceeds maximum (%d MB). Please compress the image first.", app.Config.MaxImageMB))
		return
	case err != nil:
		logger.Error("error reading file", "error", err)
		app.badRequest(w, r, fmt.Errorf("Failed to read image file: %w", err))
		return
	}

	logger.Info("analyze request received", "filename", up.Filename,
		"content_type", up.ContentType, "bytes", len(up.Data), "k", k)

	if !isSupportedUpload(up.Filename, up.ContentType) && len(up.Data) > 0 {
		err := fmt.Errorf("Only JPEG and PNG images are supported. Received: filename=%s, content_type=%s, ext=%s",
			up.Filename, up.ContentType, extension(up.Filename))
		logger.Warn("unsupported upload", "error", err)
		app.badRequest(w, r, err)
		return
	}

	res, err := app.Analyzer.With("request_id", requestID).AnalyzeBytes(r.Context(), up.Data, k)
	switch {
	case errors.Is(err, imaging.ErrInvalidImage):
		logger.Error("image validation failed", "filename", up.Filename, "error", err)
		app.invalidImage(w, r, err)
		return
	case errors.Is(err, palette.ErrClusterCount):
		app.validationError(w, r, err)
		return
	case errors.Is(err, palette.ErrEmptyImage):
		app.badRequest(w, r, err)
		return
	case err != nil:
		logger.Error("analysis failed", "filename", up.Filename, "error", err)
		app.internalServerError(w, r, fmt.Errorf("Failed to analyze image: %w", err))
		return
	}

	logger.Info("analysis completed", "filename", up.Filename, "duration", time.Since(start))
	writeJSON(w, http.StatusOK, res)
}

// GET /api/name?hex=RRGGBB
func (app *Application) colorName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	hex := r.URL.Query().Get("hex")
	if !colorspace.IsHex(hex) {
		app.validationError(w, r, fmt.Errorf("hex must be 6 hexadecimal digits without '#', got %q", hex))
		return
	}

	match, err := app.Analyzer.Name(hex)
	if err != nil {
		app.logger().Error("error finding color name", "hex", hex, "error", err)
		app.internalServerError(w, r, fmt.Errorf("Failed to find color name: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, match)
}

// parseK reads the k query parameter, falling back to the configured default.
func (app *Application) parseK(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("k")
	if raw == "" {
		if app.Config.DefaultK == 0 {
			return palette.DefaultK, nil
		}
		return app.Config.DefaultK, nil
	}
	k, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("k must be an integer, got %q", raw)
	}
	if err := palette.ValidateK(k); err != nil {
		return 0, err
	}
	return k, nil
}

// readUpload streams the multipart body until it finds field and reads at
// most limit bytes of it.
func readUpload(r *http.Request, field string, limit int64) (upload, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return upload{}, err
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return upload{}, errMissingImage
		}
		if err != nil {
			return upload{}, err
		}
		if part.FormName() != field {
			part.Close()
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, limit+1))
		part.Close()
		if err != nil {
			return upload{}, err
		}
		if int64(len(data)) > limit {
			return upload{}, errImageTooLarge
		}
		return upload{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}
}

// isSupportedUpload accepts JPEG and PNG types or extensions, any image/*
// type, and uploads that carry no filename or content type at all.
func isSupportedUpload(filename, contentType string) bool {
	if filename == "" || contentType == "" {
		return true
	}
	for _, m := range allowedMimeTypes {
		if contentType == m {
			return true
		}
	}
	for _, e := range allowedExtensions {
		if extension(filename) == e {
			return true
		}
	}
	return strings.HasPrefix(contentType, "image/")
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
