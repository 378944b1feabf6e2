package emu

import (
	"errors"
	"log"

	"github.com/ghiculescu/rustyboy/internal/bus"
	"github.com/ghiculescu/rustyboy/internal/ppu"
)

// ErrNoCartridge reports a load with no ROM bytes.
var ErrNoCartridge = errors.New("emu: no cartridge data")

// frameCycles is one full 154-line refresh.
const frameCycles = ppu.LinesPerFrame * ppu.CyclesPerLine

// Stepper is the instruction-execution boundary: Step runs one
// instruction against the bus and returns its cycle cost. The core ships
// without a CPU; a Machine with no Stepper burns a fixed budget per step
// so the display pipeline still runs.
type Stepper interface {
	Step(b *bus.Bus) int
}

// Machine owns the bus and paces it one frame at a time for a frontend.
type Machine struct {
	cfg     Config
	bus     *bus.Bus
	stepper Stepper
	frames  <-chan []byte
	last    []byte
	dropped int
}

func New(cfg Config) *Machine {
	if cfg.StepCycles <= 0 {
		cfg.StepCycles = 4
	}
	return &Machine{cfg: cfg, last: make([]byte, ppu.FrameBytes)}
}

// LoadCartridge builds a fresh bus over the ROM image and applies the
// post-boot register defaults, so execution can start at 0x0100 without a
// boot ROM.
func (m *Machine) LoadCartridge(rom []byte) error {
	if len(rom) == 0 {
		return ErrNoCartridge
	}
	m.bus = bus.New(rom)
	m.frames = m.bus.PPU().Frames()
	m.applyPostBootIO()
	return nil
}

// SetStepper installs the external instruction engine.
func (m *Machine) SetStepper(s Stepper) { m.stepper = s }

// Bus exposes the memory system to steppers and tests.
func (m *Machine) Bus() *bus.Bus { return m.bus }

// Framebuffer returns the last delivered frame (RGB, 160x144).
func (m *Machine) Framebuffer() []byte { return m.last }

// StepFrame drives the core until the next frame is delivered and returns
// it. With the display disabled it gives up after two frames' worth of
// cycles and returns the previous frame, so a frontend never wedges on a
// dark LCD.
func (m *Machine) StepFrame() []byte {
	budget := 2 * frameCycles
	for budget > 0 {
		var cycles int
		if m.stepper != nil {
			cycles = m.stepper.Step(m.bus)
		} else {
			cycles = m.cfg.StepCycles
		}
		if cycles <= 0 {
			cycles = m.cfg.StepCycles
		}
		m.bus.AdvanceCycles(cycles)
		budget -= cycles

		select {
		case fb := <-m.frames:
			m.last = fb
			m.noteDrops()
			return fb
		default:
		}
	}
	m.noteDrops()
	return m.last
}

// noteDrops reports frames the hand-off slot could not take. Losing
// frames is survivable; losing them silently is not.
func (m *Machine) noteDrops() {
	if d := m.bus.PPU().DroppedFrames(); d != m.dropped {
		log.Printf("display channel behind: %d frame(s) dropped", d-m.dropped)
		m.dropped = d
	}
}

// applyPostBootIO writes the register state the boot ROM would leave
// behind: LCD on with unsigned tile data, identity palettes.
func (m *Machine) applyPostBootIO() {
	regs := []struct {
		addr  uint16
		value byte
	}{
		{0xFF40, 0x91}, // LCDC
		{0xFF41, 0x85}, // STAT
		{0xFF42, 0x00}, // SCY
		{0xFF43, 0x00}, // SCX
		{0xFF47, 0xFC}, // BGP
		{0xFF48, 0xFF}, // OBP0
		{0xFF49, 0xFF}, // OBP1
		{0xFF4A, 0x00}, // WY
		{0xFF4B, 0x00}, // WX
	}
	for _, r := range regs {
		if err := m.bus.Write(r.addr, r.value); err != nil {
			log.Printf("post-boot IO %04x: %v", r.addr, err)
		}
	}
}
