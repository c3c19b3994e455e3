package upload

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmarques/go-rest-starter/internal/api"
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// UploadedFile is the metadata echoed back after a successful upload.
type UploadedFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	MimeType     string `json:"mimetype"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}

type UploadHandler struct {
	logger      *slog.Logger
	dest        string
	maxFileSize int64
}

func NewUploadHandler(dest string, maxFileSize int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		logger:      logger,
		dest:        dest,
		maxFileSize: maxFileSize,
	}
}

// UploadImage handles POST /upload/image. The file arrives in the multipart
// field "file"; the extension is checked before anything touches disk and
// the stored name is randomized so client-supplied names never reach the
// filesystem.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Small allowance on top of the file cap for the multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+4096)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			api.ErrorResponse(w, r, http.StatusBadRequest,
				fmt.Sprintf("file must not be larger than %d bytes", h.maxFileSize))
			return
		}
		api.ErrorResponse(w, r, http.StatusBadRequest, "malformed multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Only image files are allowed!")
		return
	}
	if header.Size > h.maxFileSize {
		api.ErrorResponse(w, r, http.StatusBadRequest,
			fmt.Sprintf("file must not be larger than %d bytes", h.maxFileSize))
		return
	}

	name, err := randomFilename(ext)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to generate filename", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := os.MkdirAll(h.dest, 0o755); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to create upload directory", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	storedPath := filepath.Join(h.dest, name)
	dst, err := os.Create(storedPath)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to create upload file", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(storedPath)
		h.logger.ErrorContext(r.Context(), "Failed to store upload", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.logger.InfoContext(r.Context(), "File uploaded",
		slog.String("filename", name), slog.Int64("size", written))

	api.WriteJSONResponse(w, r, http.StatusCreated, UploadedFile{
		Filename:     name,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         written,
		Path:         storedPath,
	})
}

// randomFilename returns 32 hex characters plus the original extension.
func randomFilename(ext string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random filename: %w", err)
	}
	return hex.EncodeToString(buf) + ext, nil
}
