// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"shop-go/internal/imaging"
	"shop-go/internal/util"
)

// MaxUploadImages is the maximum number of image files per product request.
const MaxUploadImages = 5

// imagesURLPrefix is the public URL prefix for stored product images.
const imagesURLPrefix = "/static/images/"

// MediaService stores uploaded product images and maps them to public URLs.
type MediaService struct {
	processor *imaging.Processor
}

// NewMediaService creates a media service writing into imagesDir.
func NewMediaService(imagesDir string) *MediaService {
	return &MediaService{
		processor: imaging.NewProcessor(imagesDir),
	}
}

// SaveUploads validates and stores the uploaded files, returning their public
// URLs in upload order. On any failure the files already written are removed
// so a rejected request leaves no stray files behind.
func (m *MediaService) SaveUploads(files []*multipart.FileHeader) ([]string, error) {
	if len(files) > MaxUploadImages {
		return nil, fmt.Errorf("%w: at most %d images per product", ErrValidation, MaxUploadImages)
	}

	var urls []string
	for _, fh := range files {
		url, err := m.saveOne(fh)
		if err != nil {
			m.cleanup(urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// DeleteByURL removes the stored file (and thumbnail) behind a public image
// URL. URLs outside the images prefix are external and left untouched.
func (m *MediaService) DeleteByURL(url string) error {
	if !strings.HasPrefix(url, imagesURLPrefix) {
		return nil
	}
	return m.processor.Delete(path.Base(url))
}

func (m *MediaService) saveOne(fh *multipart.FileHeader) (string, error) {
	filename, err := util.SanitizeFilename(fh.Filename)
	if err != nil {
		return "", fmt.Errorf("%w: invalid filename", ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !imaging.AllowedExtension(ext) {
		return "", fmt.Errorf("%w: unsupported image type %q", ErrValidation, ext)
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	name := uuid.NewString() + ext
	result, err := m.processor.Process(file, name)
	if err != nil {
		return "", fmt.Errorf("%w: file %q is not a valid image", ErrValidation, filename)
	}

	slog.Debug("image stored", "name", result.Filename, "size", result.Size,
		"dimensions", fmt.Sprintf("%dx%d", result.Width, result.Height))
	return imagesURLPrefix + name, nil
}

func (m *MediaService) cleanup(urls []string) {
	for _, url := range urls {
		if err := m.DeleteByURL(url); err != nil {
			slog.Warn("failed to clean up uploaded image", "url", url, "error", err)
		}
	}
}
