package ppu

// shades maps a 2-bit color id to a grayscale intensity, id 0 brightest.
var shades = [4]byte{255, 192, 96, 0}

// resolvePalette expands a packed palette byte into four intensities.
// The byte holds four 2-bit shade selectors, color id 0 in the lowest bits.
func resolvePalette(p byte) [4]byte {
	var m [4]byte
	for id := uint(0); id < 4; id++ {
		m[id] = shades[(p>>(id*2))&0x03]
	}
	return m
}
