package graphics

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// nesPalette is the 2C02's 64-entry NTSC color table, indexed by the 6-bit
// palette index the PPU stores per pixel. Lifted from the donor PPU, which
// baked this conversion into the rendering core itself; here it lives in
// the presenter, the only place that still deals in RGB (see DESIGN.md).
var nesPalette = [64]color.RGBA{
	{0x66, 0x66, 0x66, 0xFF}, {0x00, 0x2A, 0x88, 0xFF}, {0x14, 0x12, 0xA7, 0xFF}, {0x3B, 0x00, 0xA4, 0xFF},
	{0x5C, 0x00, 0x7E, 0xFF}, {0x6E, 0x00, 0x40, 0xFF}, {0x6C, 0x06, 0x00, 0xFF}, {0x56, 0x1D, 0x00, 0xFF},
	{0x33, 0x35, 0x00, 0xFF}, {0x0B, 0x48, 0x00, 0xFF}, {0x00, 0x52, 0x00, 0xFF}, {0x00, 0x4F, 0x08, 0xFF},
	{0x00, 0x40, 0x4D, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF},
	{0xAD, 0xAD, 0xAD, 0xFF}, {0x15, 0x5F, 0xD9, 0xFF}, {0x42, 0x40, 0xFF, 0xFF}, {0x75, 0x27, 0xFE, 0xFF},
	{0xA0, 0x1A, 0xCC, 0xFF}, {0xB7, 0x1E, 0x7B, 0xFF}, {0xB5, 0x31, 0x20, 0xFF}, {0x99, 0x4E, 0x00, 0xFF},
	{0x6B, 0x6D, 0x00, 0xFF}, {0x38, 0x87, 0x00, 0xFF}, {0x0C, 0x93, 0x00, 0xFF}, {0x00, 0x8F, 0x32, 0xFF},
	{0x00, 0x7C, 0x8D, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF},
	{0xFF, 0xFE, 0xFF, 0xFF}, {0x64, 0xB0, 0xFF, 0xFF}, {0x92, 0x90, 0xFF, 0xFF}, {0xC6, 0x76, 0xFF, 0xFF},
	{0xF3, 0x6A, 0xFF, 0xFF}, {0xFE, 0x6E, 0xCC, 0xFF}, {0xFE, 0x81, 0x70, 0xFF}, {0xEA, 0x9E, 0x22, 0xFF},
	{0xBC, 0xBE, 0x00, 0xFF}, {0x88, 0xD8, 0x00, 0xFF}, {0x5C, 0xE4, 0x30, 0xFF}, {0x45, 0xE0, 0x82, 0xFF},
	{0x48, 0xCD, 0xDE, 0xFF}, {0x4F, 0x4F, 0x4F, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF},
	{0xFF, 0xFE, 0xFF, 0xFF}, {0xC0, 0xDF, 0xFF, 0xFF}, {0xD3, 0xD2, 0xFF, 0xFF}, {0xE8, 0xC8, 0xFF, 0xFF},
	{0xFB, 0xC2, 0xFF, 0xFF}, {0xFE, 0xC4, 0xEA, 0xFF}, {0xFE, 0xCC, 0xC5, 0xFF}, {0xF7, 0xD8, 0xA5, 0xFF},
	{0xE4, 0xE5, 0x94, 0xFF}, {0xCF, 0xF2, 0x9B, 0xFF}, {0xBE, 0xFB, 0xB3, 0xFF}, {0xB8, 0xF8, 0xD8, 0xFF},
	{0xB8, 0xF8, 0xF8, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF},
}

// StepFunc advances the emulator core by one frame and returns its
// completed palette-index buffer.
type StepFunc func() *[256 * 240]uint8

// EbitenPresenter is the GUI Presenter, backed by github.com/hajimehoshi/ebiten/v2.
// It implements ebiten.Game so Run can hand the OS event loop to Ebitengine;
// each host Update calls back into the emulator core via step.
type EbitenPresenter struct {
	scale  int
	closed bool

	img  *ebiten.Image
	rgba []byte

	step StepFunc
}

// NewEbitenPresenter configures the Ebitengine window (title, integer
// pixel scale, VSync) and returns the presenter. Call Run to start the
// blocking game loop.
func NewEbitenPresenter(title string, scale int, vsync bool) *EbitenPresenter {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(256*scale, 240*scale)
	ebiten.SetVsyncEnabled(vsync)
	return &EbitenPresenter{
		scale: scale,
		img:   ebiten.NewImage(256, 240),
		rgba:  make([]byte, 256*240*4),
	}
}

// SetStepFunc installs the callback Update uses to advance the emulator
// core once per host frame.
func (p *EbitenPresenter) SetStepFunc(step StepFunc) { p.step = step }

func (p *EbitenPresenter) IsOpen() bool { return !p.closed }

// Present expands frame's palette indices to RGBA and uploads them to the
// backing image for the next Draw.
func (p *EbitenPresenter) Present(frame *[256 * 240]uint8) {
	for i, index := range frame {
		c := nesPalette[index&0x3F]
		p.rgba[i*4+0] = c.R
		p.rgba[i*4+1] = c.G
		p.rgba[i*4+2] = c.B
		p.rgba[i*4+3] = c.A
	}
	p.img.WritePixels(p.rgba)
}

// Run hands the OS event loop to Ebitengine. It blocks until the window is
// closed.
func (p *EbitenPresenter) Run() error {
	return ebiten.RunGame(p)
}

// Update implements ebiten.Game: it checks for the quit key and advances
// the emulator core by one frame via the installed StepFunc.
func (p *EbitenPresenter) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		p.closed = true
	}
	if p.closed {
		return ebiten.Termination
	}
	if p.step != nil {
		if frame := p.step(); frame != nil {
			p.Present(frame)
		}
	}
	return nil
}

// Draw implements ebiten.Game, blitting the presented frame scaled to the
// window.
func (p *EbitenPresenter) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(p.scale), float64(p.scale))
	screen.DrawImage(p.img, op)
}

// Layout implements ebiten.Game with a fixed integer-scaled window.
func (p *EbitenPresenter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 256 * p.scale, 240 * p.scale
}
