package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	// Decoders for the formats admins actually upload.
	_ "image/gif"
	_ "image/png"

	apierr "github.com/saforex/saforex-go/internal/errors"
	"github.com/saforex/saforex-go/internal/logger"
	"github.com/saforex/saforex-go/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const (
	// DefaultMaxBytes is the upload size ceiling.
	DefaultMaxBytes = 5 * 1024 * 1024

	// No resized dimension exceeds this bound.
	maxDimension = 1200

	// Re-encode quality for downscaled uploads.
	jpegQuality = 80
)

// Helper validates, downscales and uploads an image, returning the public
// URL to store on the content row. Errors are returned to the caller so the
// UI can show them next to the triggering control.
type Helper struct {
	store    storage.ObjectStore
	bucket   string
	maxBytes int64
	now      func() time.Time
}

// New creates a Helper uploading into the given bucket.
func New(store storage.ObjectStore, bucket string) *Helper {
	return &Helper{
		store:    store,
		bucket:   bucket,
		maxBytes: DefaultMaxBytes,
		now:      time.Now,
	}
}

// WithMaxBytes overrides the size ceiling for call sites with a lower limit.
func (h *Helper) WithMaxBytes(n int64) *Helper {
	c := *h
	c.maxBytes = n
	return &c
}

// Upload validates and optimizes the image, then stores it under a
// timestamp-derived name. The original bytes are discarded after resizing.
func (h *Helper) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if err := h.validate(data); err != nil {
		return "", err
	}

	optimized, err := optimize(data)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%d%s", h.now().UnixMilli(), extOf(filename))

	result, err := h.store.Upload(ctx, h.bucket, key, optimized, "image/jpeg")
	if err != nil {
		if apierr.IsConflict(err) {
			return "", apierr.Conflict("هذا الملف موجود بالفعل، الرجاء اختيار اسم آخر")
		}
		logger.Log.Error("media upload failed",
			logger.WithBucket(h.bucket), zap.Error(err))
		return "", err
	}

	logger.Log.Debug("media uploaded",
		logger.WithBucket(h.bucket),
		zap.String("key", key),
		zap.Int64("bytes", result.Size),
	)
	return result.URL, nil
}

// validate enforces the size ceiling and image MIME type before any
// network call is made.
func (h *Helper) validate(data []byte) error {
	if int64(len(data)) > h.maxBytes {
		return apierr.Validation(fmt.Sprintf(
			"حجم الصورة يجب أن لا يتجاوز %d ميجابايت", h.maxBytes/(1024*1024)))
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return apierr.Validation("يجب اختيار ملف صورة")
	}
	return nil
}

// optimize decodes the image, scales it down so neither dimension exceeds
// maxDimension while preserving aspect ratio, and re-encodes as JPEG.
func optimize(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apierr.Validation("فشل تحميل الصورة")
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > maxDimension || height > maxDimension {
		if width > height {
			height = height * maxDimension / width
			width = maxDimension
		} else {
			width = width * maxDimension / height
			height = maxDimension
		}

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// extOf keeps the original extension for the derived filename.
func extOf(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}
