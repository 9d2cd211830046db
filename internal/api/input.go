package api

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxInputLength is the maximum number of characters accepted for encoding.
const MaxInputLength = 1000

const (
	maxFormBytes     = 1 << 20
	maxFormMemory    = 1 << 20
	formFieldData    = "data"
	downloadFilename = "qrcode.png"
)

var (
	// ErrEmptyInput is returned when the submitted text is missing or blank.
	ErrEmptyInput = errors.New("no text provided")
	// ErrInputTooLong is returned when the submitted text exceeds MaxInputLength characters.
	ErrInputTooLong = fmt.Errorf("input exceeds %d characters", MaxInputLength)
)

var (
	msgEmptyInput   = "No text provided for QR generation."
	msgInputTooLong = fmt.Sprintf("Input too long. Please limit text to %d characters.", MaxInputLength)
)

// validateInput trims surrounding whitespace and enforces the length bounds.
// Length is measured in characters, not bytes.
func validateInput(raw string) (string, error) {
	text := strings.TrimFunc(raw, isStripped)
	if text == "" {
		return "", ErrEmptyInput
	}
	if utf8.RuneCountInString(text) > MaxInputLength {
		return "", ErrInputTooLong
	}
	return text, nil
}

// isStripped reports whether r is trimmed from input. The ASCII information
// separators U+001C..U+001F count as whitespace alongside unicode.IsSpace.
func isStripped(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

// parseForm accepts urlencoded and multipart submissions.
func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}
