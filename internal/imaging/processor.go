// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

// Package imaging validates and stores uploaded product images using pure Go
// decoders, including EXIF auto-rotation and thumbnail generation.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"shop-go/internal/util"
)

// ThumbWidth is the width thumbnails are resized to, preserving aspect ratio.
const ThumbWidth = 300

// thumbsSubDir is the directory under the images dir holding thumbnails.
const thumbsSubDir = "thumbs"

// allowedExtensions are the upload extensions accepted for product images.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// ProcessResult describes a stored image.
type ProcessResult struct {
	Filename  string // base filename under the images dir
	FilePath  string // absolute path of the stored original
	ThumbPath string // absolute path of the thumbnail, empty if skipped
	Width     int
	Height    int
	Size      int64
}

// Processor stores validated product images under a single images directory.
type Processor struct {
	imagesDir string
}

// NewProcessor creates a processor writing into imagesDir.
func NewProcessor(imagesDir string) *Processor {
	return &Processor{imagesDir: imagesDir}
}

// AllowedExtension reports whether the (dot-prefixed) extension is accepted.
func AllowedExtension(ext string) bool {
	return allowedExtensions[strings.ToLower(ext)]
}

// Process validates image data, applies EXIF orientation, stores the original
// as <name> in the images dir and a thumbnail under thumbs/. The name should
// already be unique (the caller derives it from a UUID).
func (p *Processor) Process(reader io.Reader, name string) (*ProcessResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	// Auto-rotate per EXIF; pure Go encoders drop the metadata afterwards.
	orientation := readExifOrientation(bytes.NewReader(data))
	img = applyOrientation(img, orientation)

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	processed, err := encodeImage(img, format, 95)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	filePath, err := p.saveImageFile("", name, processed)
	if err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	result := &ProcessResult{
		Filename: name,
		FilePath: filePath,
		Width:    width,
		Height:   height,
		Size:     int64(len(processed)),
	}

	// Thumbnail only when the source is wider than the target.
	if width > ThumbWidth {
		thumb := imaging.Resize(img, ThumbWidth, 0, imaging.Lanczos)
		thumbData, err := encodeImage(thumb, format, 85)
		if err != nil {
			return nil, fmt.Errorf("encoding thumbnail: %w", err)
		}
		thumbPath, err := p.saveImageFile(thumbsSubDir, name, thumbData)
		if err != nil {
			return nil, fmt.Errorf("saving thumbnail: %w", err)
		}
		result.ThumbPath = thumbPath
	}

	return result, nil
}

// Delete removes a stored image and its thumbnail. Missing files are ignored.
func (p *Processor) Delete(name string) error {
	safe, err := util.SanitizeFilename(name)
	if err != nil {
		return fmt.Errorf("invalid image name: %q", name)
	}

	original, err := util.SafeJoinPath(p.imagesDir, safe)
	if err != nil {
		return err
	}
	thumb, err := util.SafeJoinPath(p.imagesDir, thumbsSubDir, safe)
	if err != nil {
		return err
	}

	if err := os.Remove(original); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting image: %w", err)
	}
	if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting thumbnail: %w", err)
	}
	return nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image to bytes with the specified format and quality.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		// JPEG output; WebP encoding is not available in pure Go
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// saveImageFile creates the directory if needed and writes image data.
// The filename is sanitized and the target stays inside the images dir.
func (p *Processor) saveImageFile(subDir, filename string, data []byte) (string, error) {
	safeFilename, err := util.SanitizeFilename(filename)
	if err != nil {
		return "", fmt.Errorf("invalid filename")
	}

	targetDir, err := util.SafeJoinPath(p.imagesDir, subDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	filePath, err := util.SafeJoinPath(targetDir, safeFilename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	return filePath, nil
}
