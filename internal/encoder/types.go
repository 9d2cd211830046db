package encoder

import (
	"bytes"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

// Options controls the visual parameters of generated symbols.
// ModuleSize is the edge length of a single module in pixels and Border is the
// quiet zone width measured in modules.
type Options struct {
	ModuleSize    int
	Border        int
	Foreground    color.Color
	Background    color.Color
	RecoveryLevel qrcode.RecoveryLevel
}

// Option configures an Encoder.
type Option func(*Options)

// Encoder describes the behaviour required from a QR image encoder.
type Encoder interface {
	Encode(text string) (*bytes.Reader, error)
}
