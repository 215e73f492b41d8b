// Package graphics implements the presenter layer: expanding the core's
// 6-bit palette-index frame buffer to RGB and handing it to a window, once
// per completed frame.
package graphics

// Presenter is the sink the emulator core hands a completed frame to.
type Presenter interface {
	IsOpen() bool
	Present(frame *[256 * 240]uint8)
}

// HeadlessPresenter discards frames after recording the most recent one,
// for automated runs and tests that have no window to draw to.
type HeadlessPresenter struct {
	open       bool
	frameCount int
	lastFrame  [256 * 240]uint8
}

// NewHeadlessPresenter returns a Presenter that stays open until Close is
// called.
func NewHeadlessPresenter() *HeadlessPresenter {
	return &HeadlessPresenter{open: true}
}

func (p *HeadlessPresenter) IsOpen() bool { return p.open }

func (p *HeadlessPresenter) Present(frame *[256 * 240]uint8) {
	p.lastFrame = *frame
	p.frameCount++
}

// Close marks the presenter closed, so the driving loop can stop.
func (p *HeadlessPresenter) Close() { p.open = false }

// FrameCount reports how many frames have been presented.
func (p *HeadlessPresenter) FrameCount() int { return p.frameCount }

// LastFrame returns the most recently presented frame buffer.
func (p *HeadlessPresenter) LastFrame() *[256 * 240]uint8 { return &p.lastFrame }
