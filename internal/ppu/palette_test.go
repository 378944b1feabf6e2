package ppu

import "testing"

func TestResolvePaletteIdentity(t *testing.T) {
	// 0b11100100: each color id selects its own shade.
	m := resolvePalette(0xE4)
	want := [4]byte{255, 192, 96, 0}
	if m != want {
		t.Fatalf("palette map got %v, want %v", m, want)
	}
}

func TestResolvePaletteInverted(t *testing.T) {
	m := resolvePalette(0x1B) // 0b00011011
	want := [4]byte{0, 96, 192, 255}
	if m != want {
		t.Fatalf("palette map got %v, want %v", m, want)
	}
}

func TestPaletteCacheRecomputedOnWriteOnly(t *testing.T) {
	p := New()
	if err := p.WriteControl(0xFF47, 0xE4); err != nil {
		t.Fatalf("BGP write: %v", err)
	}
	if want := [4]byte{255, 192, 96, 0}; p.bgPal != want {
		t.Fatalf("cached map after BGP write got %v, want %v", p.bgPal, want)
	}

	// Unrelated register writes must not disturb the cache.
	if err := p.WriteControl(0xFF42, 0x33); err != nil {
		t.Fatalf("SCY write: %v", err)
	}
	if err := p.WriteControl(0xFF40, 0x91); err != nil {
		t.Fatalf("LCDC write: %v", err)
	}
	if want := [4]byte{255, 192, 96, 0}; p.bgPal != want {
		t.Fatalf("cache changed by unrelated writes: %v", p.bgPal)
	}

	if err := p.WriteControl(0xFF47, 0x1B); err != nil {
		t.Fatalf("BGP rewrite: %v", err)
	}
	if want := [4]byte{0, 96, 192, 255}; p.bgPal != want {
		t.Fatalf("cache not recomputed on rewrite: %v", p.bgPal)
	}
}

func TestObjectPaletteCaches(t *testing.T) {
	p := New()
	if err := p.WriteControl(0xFF48, 0xE4); err != nil {
		t.Fatalf("OBP0 write: %v", err)
	}
	if err := p.WriteControl(0xFF49, 0x1B); err != nil {
		t.Fatalf("OBP1 write: %v", err)
	}
	if want := [4]byte{255, 192, 96, 0}; p.objPal0 != want {
		t.Fatalf("OBP0 map got %v, want %v", p.objPal0, want)
	}
	if want := [4]byte{0, 96, 192, 255}; p.objPal1 != want {
		t.Fatalf("OBP1 map got %v, want %v", p.objPal1, want)
	}
}
