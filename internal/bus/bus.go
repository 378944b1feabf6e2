package bus

import (
	"errors"
	"fmt"

	"github.com/ghiculescu/rustyboy/internal/ppu"
	"github.com/ghiculescu/rustyboy/internal/serial"
)

// The DMG maps 8KB of working RAM; the switchable CGB banks would need
// 0x8000 here.
const (
	wramSize = 0x2000
	hramSize = 0x80
)

// ErrCartRAMUnmapped reports an access to 0xA000–0xBFFF, which this bus
// does not back. The caller decides whether to substitute a value or halt.
var ErrCartRAMUnmapped = errors.New("bus: cartridge RAM not implemented")

// Bus is the processor's complete load/store view: it owns ROM, working
// and high RAM, the PPU and the serial stub, and routes every access by
// address range. It is driven by a single goroutine and carries no locks.
type Bus struct {
	rom  []byte
	wram [wramSize]byte
	hram [hramSize]byte

	dma byte // last value written to FF46

	ppu    *ppu.PPU
	serial *serial.Serial
}

func New(rom []byte) *Bus {
	return &Bus{
		rom:    rom,
		ppu:    ppu.New(),
		serial: serial.New(),
	}
}

// PPU exposes the owned pixel engine for frame and interrupt consumers.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// AdvanceCycles forwards a processor cycle budget to the PPU. Any line
// advances and at most one frame hand-off happen before it returns.
func (b *Bus) AdvanceCycles(n int) { b.ppu.AdvanceCycles(n) }

// Read dispatches a byte load. Reads beyond the end of ROM and from
// unmapped regions return 0xFF (open bus); cartridge RAM is an explicit
// error since it commonly means an unsupported cartridge feature.
func (b *Bus) Read(addr uint16) (byte, error) {
	switch {
	case addr < 0x8000: // ROM
		if int(addr) < len(b.rom) {
			return b.rom[addr], nil
		}
		return 0xFF, nil
	case addr < 0xA000: // video RAM
		return b.ppu.ReadVRAM(addr), nil
	case addr < 0xC000: // cartridge RAM
		return 0xFF, fmt.Errorf("%w: read %#04x", ErrCartRAMUnmapped, addr)
	case addr < 0xFE00: // working RAM and its echo
		return b.wram[addr&(wramSize-1)], nil
	case addr < 0xFEA0: // sprite attribute table
		return b.ppu.ReadOAM(addr), nil
	case addr == 0xFF01 || addr == 0xFF02:
		return b.serial.Read(addr), nil
	case addr == 0xFF46:
		return b.dma, nil
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return b.ppu.ReadControl(addr)
	case addr >= 0xFF80: // zero-page RAM
		return b.hram[addr&(hramSize-1)], nil
	default:
		return 0xFF, nil // open bus
	}
}

// Write dispatches a byte store. ROM writes are permitted in this model
// (no banking protection); unmapped writes are discarded.
func (b *Bus) Write(addr uint16, value byte) error {
	switch {
	case addr < 0x8000:
		if int(addr) < len(b.rom) {
			b.rom[addr] = value
		}
		return nil
	case addr < 0xA000:
		b.ppu.WriteVRAM(addr, value)
		return nil
	case addr < 0xC000:
		return fmt.Errorf("%w: write %#04x", ErrCartRAMUnmapped, addr)
	case addr < 0xFE00:
		b.wram[addr&(wramSize-1)] = value
		return nil
	case addr < 0xFEA0:
		b.ppu.WriteOAM(addr, value)
		return nil
	case addr == 0xFF01 || addr == 0xFF02:
		b.serial.Write(addr, value)
		return nil
	case addr == 0xFF46:
		b.dma = value
		b.runDMA(value)
		return nil
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return b.ppu.WriteControl(addr, value)
	case addr >= 0xFF80:
		b.hram[addr&(hramSize-1)] = value
		return nil
	default:
		return nil // discarded
	}
}

// ReadWord composes two consecutive byte loads little-endian.
func (b *Bus) ReadWord(addr uint16) (uint16, error) {
	lo, err := b.Read(addr)
	if err != nil {
		return 0, err
	}
	hi, err := b.Read(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// WriteWord stores the low byte at addr and the high byte at addr+1.
func (b *Bus) WriteWord(addr uint16, value uint16) error {
	if err := b.Write(addr, byte(value&0xFF)); err != nil {
		return err
	}
	return b.Write(addr+1, byte(value>>8))
}

// runDMA copies 160 bytes from src<<8 into the sprite table through the
// normal read path. Source bytes that dispatch to an error region arrive
// as open-bus 0xFF.
func (b *Bus) runDMA(src byte) {
	base := uint16(src) << 8
	for i := uint16(0); i < 0xA0; i++ {
		v, err := b.Read(base + i)
		if err != nil {
			v = 0xFF
		}
		b.ppu.WriteOAM(0xFE00+i, v)
	}
}
