package ppu

// vramReader provides tile map and tile data bytes to the scanline
// renderer. The live PPU satisfies it; tests substitute a map.
type vramReader interface {
	ReadVRAM(addr uint16) byte
}

// pixelFIFO is a small ring buffer of 2-bit color ids sitting between the
// tile fetcher and pixel output.
type pixelFIFO struct {
	buf  [16]byte
	head int
	tail int
	size int
}

func (q *pixelFIFO) Len() int { return q.size }

func (q *pixelFIFO) Push(ci byte) {
	if q.size == len(q.buf) {
		return
	}
	q.buf[q.tail] = ci & 0x03
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
}

func (q *pixelFIFO) Pop() byte {
	if q.size == 0 {
		return 0
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v
}

// tileRowAddr resolves the address of one pixel row of a tile. Unsigned
// mode indexes tiles from 0x8000. Signed mode re-centers the index so that
// indexes 0..127 land at 0x9000.. and 128..255 (negative as int8) fill
// 0x8800–0x8FFF; the explicit int8 conversion carries the 8-bit wraparound.
func tileRowAddr(unsigned bool, tileNum, fineY byte) uint16 {
	if unsigned {
		return 0x8000 + uint16(tileNum)*16 + uint16(fineY)*2
	}
	adjusted := uint16(int16(int8(tileNum)) + 128)
	return 0x8800 + adjusted*16 + uint16(fineY)*2
}

// fetchTileRow reads the tile index at tileIndexAddr, resolves its data
// address for the given row, and pushes the row's 8 color ids onto the
// FIFO, leftmost pixel first. The low byte is bit-plane 1, the high byte
// bit-plane 2.
func fetchTileRow(mem vramReader, q *pixelFIFO, unsigned bool, tileIndexAddr uint16, fineY byte) {
	tileNum := mem.ReadVRAM(tileIndexAddr)
	addr := tileRowAddr(unsigned, tileNum, fineY)
	lo := mem.ReadVRAM(addr)
	hi := mem.ReadVRAM(addr + 1)
	for px := 0; px < 8; px++ {
		bit := 7 - byte(px)
		ci := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
		q.Push(ci)
	}
}

// renderBGScanline produces the 160 background color ids for scanline ly.
// Scroll registers offset into the 256x256 background plane, wrapping at
// the edges; the 32-tile map row wraps with them.
func renderBGScanline(mem vramReader, mapBase uint16, unsigned bool, scx, scy, ly byte) [ScreenWidth]byte {
	var out [ScreenWidth]byte

	bgY := scy + ly // wraps mod 256
	fineY := bgY & 7
	mapY := uint16(bgY >> 3) // 0..31

	tileX := uint16(scx>>3) & 31
	fineX := int(scx & 7)

	var q pixelFIFO
	fetchTileRow(mem, &q, unsigned, mapBase+mapY*32+tileX, fineY)
	// Discard the scx fractional pixels of the first tile.
	for i := 0; i < fineX; i++ {
		q.Pop()
	}

	for x := 0; x < ScreenWidth; x++ {
		if q.Len() == 0 {
			tileX = (tileX + 1) & 31
			fetchTileRow(mem, &q, unsigned, mapBase+mapY*32+tileX, fineY)
		}
		out[x] = q.Pop()
	}
	return out
}
