package ppu

import (
	"errors"
	"fmt"
)

const (
	// ScreenWidth and ScreenHeight are the visible LCD dimensions.
	ScreenWidth  = 160
	ScreenHeight = 144

	// CyclesPerLine is the machine-cycle budget of one scanline;
	// LinesPerFrame includes the ten vblank lines.
	CyclesPerLine = 114
	LinesPerFrame = 154

	visibleLines = 144
)

// FrameBytes is the size of one delivered frame: RGB, row-major.
const FrameBytes = ScreenWidth * ScreenHeight * 3

// ErrUnknownRegister reports a control access inside FF40–FF4B that no
// register decodes.
var ErrUnknownRegister = errors.New("ppu: unknown control register")

// LCDC bits used by the renderer.
const (
	lcdcDisplayEnable  = 1 << 7 // LCD on/off
	lcdcTileDataSelect = 1 << 4 // set: 0x8000 unsigned; clear: 0x8800 signed
	lcdcBGMapSelect    = 1 << 3 // set: 0x9C00; clear: 0x9800
)

// PPU owns VRAM, OAM, the LCD register file and scanline timing. It is
// mutated only by the bus's forwarding calls and by its own renderer, so
// it carries no locking; a completed frame leaves through a single-slot
// channel on every vblank entry.
type PPU struct {
	vram [0x2000]byte // 0x8000–0x9FFF
	oam  [0xA0]byte   // 0xFE00–0xFE9F

	lcdc byte // FF40
	stat byte // FF41
	scy  byte // FF42
	scx  byte // FF43
	ly   byte // FF44, read-only from the bus
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B

	// Palette maps cached on register write, never recomputed mid-render.
	// The object maps are kept current but unused until sprites render.
	bgPal   [4]byte
	objPal0 [4]byte
	objPal1 [4]byte

	cycles int // accumulated within the current line, 0..113

	iflags byte // bit 0: vblank pending; this side only ever sets it

	fb      []byte
	frames  chan []byte
	dropped int
}

func New() *PPU {
	return &PPU{
		bgPal:   resolvePalette(0),
		objPal0: resolvePalette(0),
		objPal1: resolvePalette(0),
		fb:      make([]byte, FrameBytes),
		frames:  make(chan []byte, 1),
	}
}

// Frames is the hand-off channel for completed frame buffers. Each
// delivered slice is owned by the receiver; the PPU never writes to it
// again.
func (p *PPU) Frames() <-chan []byte { return p.frames }

// InterruptFlags returns the pending-interrupt byte (bit 0 = vblank).
// Clearing is the instruction engine's business, not the PPU's.
func (p *PPU) InterruptFlags() byte { return p.iflags }

// DroppedFrames counts frames that found the hand-off slot still full.
func (p *PPU) DroppedFrames() int { return p.dropped }

func (p *PPU) ReadVRAM(addr uint16) byte { return p.vram[addr&0x1FFF] }

func (p *PPU) WriteVRAM(addr uint16, value byte) { p.vram[addr&0x1FFF] = value }

func (p *PPU) ReadOAM(addr uint16) byte { return p.oam[int(addr&0xFF)%len(p.oam)] }

func (p *PPU) WriteOAM(addr uint16, value byte) { p.oam[int(addr&0xFF)%len(p.oam)] = value }

// ReadControl returns a register byte for addresses in FF40–FF4B.
func (p *PPU) ReadControl(addr uint16) (byte, error) {
	switch addr {
	case 0xFF40:
		return p.lcdc, nil
	case 0xFF41:
		return p.stat, nil
	case 0xFF42:
		return p.scy, nil
	case 0xFF43:
		return p.scx, nil
	case 0xFF44:
		return p.ly, nil
	case 0xFF47:
		return p.bgp, nil
	case 0xFF48:
		return p.obp0, nil
	case 0xFF49:
		return p.obp1, nil
	case 0xFF4A:
		return p.wy, nil
	case 0xFF4B:
		return p.wx, nil
	default:
		return 0xFF, fmt.Errorf("%w: read %#04x", ErrUnknownRegister, addr)
	}
}

// WriteControl stores a register byte. LY is read-only and the write is
// discarded; palette writes refresh their cached maps.
func (p *PPU) WriteControl(addr uint16, value byte) error {
	switch addr {
	case 0xFF40:
		p.lcdc = value
	case 0xFF41:
		p.stat = value
	case 0xFF42:
		p.scy = value
	case 0xFF43:
		p.scx = value
	case 0xFF44:
		// read only
	case 0xFF47:
		p.bgp = value
		p.bgPal = resolvePalette(value)
	case 0xFF48:
		p.obp0 = value
		p.objPal0 = resolvePalette(value)
	case 0xFF49:
		p.obp1 = value
		p.objPal1 = resolvePalette(value)
	case 0xFF4A:
		p.wy = value
	case 0xFF4B:
		p.wx = value
	default:
		return fmt.Errorf("%w: write %#04x", ErrUnknownRegister, addr)
	}
	return nil
}

// AdvanceCycles consumes a processor cycle budget. Every 114 accumulated
// cycles advance LY by one (mod 154), carrying the remainder; lines 0..143
// render as they are entered, and the step into line 144 raises the vblank
// flag and hands off the frame. With the display disabled nothing moves.
func (p *PPU) AdvanceCycles(n int) {
	if n <= 0 || p.lcdc&lcdcDisplayEnable == 0 {
		return
	}
	p.cycles += n
	for p.cycles >= CyclesPerLine {
		p.cycles -= CyclesPerLine
		p.ly = (p.ly + 1) % LinesPerFrame
		switch {
		case p.ly < visibleLines:
			p.renderLine()
		case p.ly == visibleLines:
			p.iflags |= 0x01
			p.deliverFrame()
		}
	}
}

func (p *PPU) bgMapBase() uint16 {
	if p.lcdc&lcdcBGMapSelect != 0 {
		return 0x9C00
	}
	return 0x9800
}

func (p *PPU) renderLine() {
	ids := renderBGScanline(p, p.bgMapBase(), p.lcdc&lcdcTileDataSelect != 0, p.scx, p.scy, p.ly)
	row := int(p.ly) * ScreenWidth * 3
	for x := 0; x < ScreenWidth; x++ {
		shade := p.bgPal[ids[x]&0x03]
		o := row + x*3
		p.fb[o] = shade
		p.fb[o+1] = shade
		p.fb[o+2] = shade
	}
}

// deliverFrame transfers ownership of the in-progress buffer and starts a
// fresh one. The send never blocks: a consumer that is behind (or absent,
// in headless runs) costs a dropped frame, not a stalled emulation.
func (p *PPU) deliverFrame() {
	out := p.fb
	p.fb = make([]byte, FrameBytes)
	select {
	case p.frames <- out:
	default:
		p.dropped++
	}
}
