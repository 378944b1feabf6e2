package ppu

import "testing"

// mockVRAM lets scanline tests lay out tile maps and tile data sparsely.
type mockVRAM map[uint16]byte

func (m mockVRAM) ReadVRAM(addr uint16) byte { return m[addr] }

func TestTileRowAddrUnsigned(t *testing.T) {
	if got := tileRowAddr(true, 0, 0); got != 0x8000 {
		t.Fatalf("unsigned tile 0 got %04x, want 8000", got)
	}
	if got := tileRowAddr(true, 255, 0); got != 0x8FF0 {
		t.Fatalf("unsigned tile 255 got %04x, want 8FF0", got)
	}
}

func TestTileRowAddrSigned(t *testing.T) {
	if got := tileRowAddr(false, 0, 0); got != 0x9000 {
		t.Fatalf("signed tile 0 got %04x, want 9000", got)
	}
	if got := tileRowAddr(false, 128, 0); got != 0x8800 {
		t.Fatalf("signed tile 128 got %04x, want 8800", got)
	}
	if got := tileRowAddr(false, 255, 0); got != 0x8FF0 {
		t.Fatalf("signed tile 255 got %04x, want 8FF0", got)
	}
}

func TestTileRowAddrFineY(t *testing.T) {
	if got := tileRowAddr(true, 1, 7); got != 0x8000+16+14 {
		t.Fatalf("tile 1 row 7 got %04x, want %04x", got, 0x8000+16+14)
	}
}

func TestScanlineSCXOffsetAndTileWrap(t *testing.T) {
	// 32-tile map row at 0x9800 with sequential tile numbers; each tile's
	// row 0 is lo=tile, hi=^tile.
	mapBase := uint16(0x9800)
	mem := mockVRAM{}
	for tile := 0; tile < 32; tile++ {
		mem[mapBase+uint16(tile)] = byte(tile)
		base := uint16(0x8000 + tile*16)
		mem[base] = byte(tile)
		mem[base+1] = ^byte(tile)
	}

	// scx=5 discards the first 5 pixels of tile 0.
	out := renderBGScanline(mem, mapBase, true, 5, 0, 0)
	lo0, hi0 := byte(0), ^byte(0)
	for i := 0; i < 3; i++ {
		b := 2 - byte(i)
		want := ((hi0>>b)&1)<<1 | ((lo0 >> b) & 1)
		if out[i] != want {
			t.Fatalf("px %d got %d, want %d", i, out[i], want)
		}
	}
	lo1, hi1 := byte(1), ^byte(1)
	for i := 0; i < 8; i++ {
		b := 7 - byte(i)
		want := ((hi1>>b)&1)<<1 | ((lo1 >> b) & 1)
		if out[3+i] != want {
			t.Fatalf("tile1 px %d got %d, want %d", i, out[3+i], want)
		}
	}
}

func TestScanlineHorizontalWraparound(t *testing.T) {
	// scx=200: columns past pixel 255 wrap back to tile column 0.
	mapBase := uint16(0x9800)
	mem := mockVRAM{}
	mem[mapBase] = 7                // tile column 0
	mem[uint16(0x8000+7*16)] = 0xFF // tile 7 row 0: all color id 1
	out := renderBGScanline(mem, mapBase, true, 200, 0, 0)
	// Pixel 56 of the line is background column (200+56)%256 = 0.
	if out[56] != 1 {
		t.Fatalf("wrapped pixel got %d, want 1", out[56])
	}
	if out[55] != 0 {
		t.Fatalf("pre-wrap pixel got %d, want 0", out[55])
	}
}

func TestScanlineSCYSelectsTileRow(t *testing.T) {
	mapBase := uint16(0x9800)
	mem := mockVRAM{}
	mem[mapBase] = 0
	// Tile 0 row 5 is all color id 2.
	mem[0x8000+5*2+1] = 0xFF
	out := renderBGScanline(mem, mapBase, true, 0, 5, 0)
	if out[0] != 2 {
		t.Fatalf("scy=5 row pixel got %d, want 2", out[0])
	}
	// scy+ly crossing a tile boundary moves to the next map row.
	mem[mapBase+32] = 1
	mem[0x8000+16] = 0xFF // tile 1 row 0: color id 1
	out = renderBGScanline(mem, mapBase, true, 0, 5, 3)
	if out[0] != 1 {
		t.Fatalf("next map row pixel got %d, want 1", out[0])
	}
}

func TestScanlineSignedAddressing(t *testing.T) {
	mapBase := uint16(0x9800)
	mem := mockVRAM{}
	mem[mapBase] = 0x80 // -128 as int8, resolves to 0x8800
	mem[0x8800] = 0xFF
	mem[0x8801] = 0xFF
	out := renderBGScanline(mem, mapBase, false, 0, 0, 0)
	for x := 0; x < 8; x++ {
		if out[x] != 3 {
			t.Fatalf("signed-mode px %d got %d, want 3", x, out[x])
		}
	}
}
