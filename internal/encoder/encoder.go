package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	defaultModuleSize = 10
	defaultBorder     = 5
)

type pngEncoder struct {
	opts Options
}

// DefaultOptions returns black-on-white symbols with 10px modules and a
// five module quiet zone.
func DefaultOptions() Options {
	return Options{
		ModuleSize:    defaultModuleSize,
		Border:        defaultBorder,
		Foreground:    color.Black,
		Background:    color.White,
		RecoveryLevel: qrcode.Medium,
	}
}

// WithModuleSize overrides the pixel size of a single module.
func WithModuleSize(px int) Option {
	return func(o *Options) {
		if px > 0 {
			o.ModuleSize = px
		}
	}
}

// WithBorder overrides the quiet zone width, in modules.
func WithBorder(modules int) Option {
	return func(o *Options) {
		if modules >= 0 {
			o.Border = modules
		}
	}
}

// WithColors overrides the foreground and background colours.
func WithColors(fg, bg color.Color) Option {
	return func(o *Options) {
		if fg != nil {
			o.Foreground = fg
		}
		if bg != nil {
			o.Background = bg
		}
	}
}

// WithRecoveryLevel overrides the error correction level.
func WithRecoveryLevel(level qrcode.RecoveryLevel) Option {
	return func(o *Options) {
		o.RecoveryLevel = level
	}
}

// New creates an Encoder producing PNG images.
func New(opts ...Option) Encoder {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &pngEncoder{opts: o}
}

// Encode renders text as a QR code PNG. The symbol version grows to fit the
// payload. The returned reader is positioned at its start.
func (e *pngEncoder) Encode(text string) (*bytes.Reader, error) {
	code, err := qrcode.New(text, e.opts.RecoveryLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	code.DisableBorder = true
	code.ForegroundColor = e.opts.Foreground
	code.BackgroundColor = e.opts.Background

	// A negative size asks the library for a fixed number of pixels per module.
	symbol := code.Image(-e.opts.ModuleSize)

	margin := e.opts.Border * e.opts.ModuleSize
	bounds := symbol.Bounds()
	canvas := image.NewPaletted(
		image.Rect(0, 0, bounds.Dx()+2*margin, bounds.Dy()+2*margin),
		color.Palette{e.opts.Background, e.opts.Foreground},
	)
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(e.opts.Background), image.Point{}, draw.Src)
	draw.Draw(canvas, bounds.Add(image.Pt(margin, margin)), symbol, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("%w: write png: %v", ErrEncode, err)
	}

	return bytes.NewReader(buf.Bytes()), nil
}

// SymbolModules reports the number of modules along one edge of the symbol
// generated for text, excluding the quiet zone.
func SymbolModules(text string, level qrcode.RecoveryLevel) (int, error) {
	code, err := qrcode.New(text, level)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	code.DisableBorder = true
	return len(code.Bitmap()), nil
}
