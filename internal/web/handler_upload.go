package web

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/kitroom/internal/store"
)

const maxUploadSize = 20 * 1024 * 1024 // 20 MB

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mimeType := http.DetectContentType(data)
	if allowedImageTypes[mimeType] {
		return mimeType, true
	}
	return "", false
}

// parseForm reads urlencoded and multipart bodies alike, capped at
// maxUploadSize.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxUploadSize)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return badField("body", "request too large")
		}
		return badField("body", "malformed form")
	}
	return nil
}

// formImage returns the optional "image" upload. A nil reader means no file
// was sent.
func (s *Server) formImage(r *http.Request) (io.Reader, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, badField("image", "unreadable upload")
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, badField("image", "unreadable upload")
	}
	if len(data) == 0 {
		return nil, nil
	}
	if _, ok := allowedImageMIME(data); !ok {
		return nil, badField("image", "unsupported image format")
	}
	return bytes.NewReader(data), nil
}

func formInt(r *http.Request, key string) (int, error) {
	v := strings.TrimSpace(r.FormValue(key))
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badField(key, "must be a whole number")
	}
	return n, nil
}

// formDate parses YYYY-MM-DD. A missing date is the zero time, which the
// services replace with today.
func formDate(r *http.Request, key string) (time.Time, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(store.DateLayout, v)
	if err != nil {
		return time.Time{}, badField(key, "must be YYYY-MM-DD")
	}
	return t, nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badField("id", "must be a positive integer")
	}
	return id, nil
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
