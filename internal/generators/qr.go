package generators

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/CADit-app/maker-chips/internal/kernel"
)

// QRParams configures the QR code part.
type QRParams struct {
	// Content is the encoded payload.
	Content string
	// Size is the side length of the code in mm.
	Size float64
	// Depth is the extrusion height in mm.
	Depth float64
}

// WithDefaults fills unset fields with the package defaults.
func (p QRParams) WithDefaults() QRParams {
	if p.Size <= 0 {
		p.Size = DefaultQRSize
	}
	if p.Depth <= 0 {
		p.Depth = DefaultDepth
	}
	return p
}

// QRCode generates a QR code plate at medium error correction.
type QRCode struct {
	params QRParams
}

func NewQRCode(params QRParams) *QRCode {
	return &QRCode{params: params.WithDefaults()}
}

func (g *QRCode) Label() string {
	return "QR Code"
}

func (g *QRCode) Generate(k kernel.Kernel) (kernel.Solid, error) {
	if strings.TrimSpace(g.params.Content) == "" {
		return nil, errors.New("qr content is empty")
	}

	code, err := qrcode.New(g.params.Content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encoding qr content: %w", err)
	}
	code.DisableBorder = true

	grid := code.Bitmap()
	if len(grid) == 0 {
		return nil, errors.New("qr encoder returned an empty bitmap")
	}

	cell := g.params.Size / float64(len(grid))
	section := rasterSection(k, grid, cell)
	if section == nil {
		return nil, errors.New("qr bitmap has no modules set")
	}

	return k.Extrude(section, g.params.Depth), nil
}
