package handlers

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/pkg/config"
)

const audioField = "audio"

// AudioUpload reads the audio part of a multipart request against an
// allow-list of MIME types and a size limit.
type AudioUpload struct {
	maxSize int64
	allowed map[string]bool
	list    string
}

func NewAudioUpload(cfg config.UploadConfig) *AudioUpload {
	allowed := make(map[string]bool, len(cfg.AllowedMimeTypes))
	for _, m := range cfg.AllowedMimeTypes {
		allowed[strings.ToLower(m)] = true
	}
	return &AudioUpload{
		maxSize: cfg.MaxFileSize,
		allowed: allowed,
		list:    strings.Join(cfg.AllowedMimeTypes, ", "),
	}
}

// Read returns (nil, nil) when the request carries no audio part.
func (u *AudioUpload) Read(c *fiber.Ctx) (*domain.AudioInput, error) {
	fh, err := c.FormFile(audioField)
	if err != nil {
		return nil, nil
	}

	mimeType := mediaType(fh.Header.Get(fiber.HeaderContentType))
	if !u.allowed[mimeType] {
		return nil, domain.NewValidationError(fmt.Sprintf("Invalid file type. Allowed types: %s", u.list))
	}

	if u.maxSize > 0 && fh.Size > u.maxSize {
		return nil, domain.NewValidationError(fmt.Sprintf("File too large: audio file must be less than %dMB", u.maxSize/(1024*1024)))
	}

	data, err := readPart(fh)
	if err != nil {
		return nil, domain.NewValidationError("File upload error: " + err.Error())
	}

	return &domain.AudioInput{Data: data, MimeType: mimeType}, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// mediaType drops parameters such as codecs=opus.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
