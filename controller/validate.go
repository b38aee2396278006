package controller

import (
	"fmt"
	"strings"
)

// MaxLogoBytes is the largest accepted logo upload (5 MiB).
const MaxLogoBytes = 5 * 1024 * 1024

// ValidateLogo checks an upload's declared type and size. Only the declared
// MIME type is considered; the bytes are not sniffed here.
func ValidateLogo(mimeType string, sizeBytes int64) error {
	if sizeBytes > MaxLogoBytes {
		return &ValidationError{
			Code:    CodeTooLarge,
			Field:   "logo",
			Message: fmt.Sprintf("%d bytes exceeds the %d byte limit", sizeBytes, MaxLogoBytes),
		}
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/") {
		return &ValidationError{
			Code:    CodeNotAnImage,
			Field:   "logo",
			Message: fmt.Sprintf("type %q is not an image", mimeType),
		}
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
