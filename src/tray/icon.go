package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
)

const iconSize = 16

var (
	frameColor = color.NRGBA{R: 0x00, G: 0x78, B: 0xD4, A: 0xFF}
	crossColor = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}
)

// IconPNG draws the tray glyph: a dashed element frame with a crosshair.
func IconPNG() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	for i := 2; i < 14; i++ {
		if i%3 == 2 {
			continue
		}
		img.Set(i, 2, frameColor)
		img.Set(i, 13, frameColor)
		img.Set(2, i, frameColor)
		img.Set(13, i, frameColor)
	}
	for i := 5; i <= 10; i++ {
		img.Set(i, 8, crossColor)
		img.Set(8, i, crossColor)
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// Icon wraps IconPNG in a single-image ICO container, which the Windows
// tray requires.
func Icon() []byte {
	data := IconPNG()
	var buf bytes.Buffer
	w := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }

	// ICONDIR
	w(uint16(0))
	w(uint16(1))
	w(uint16(1))
	// ICONDIRENTRY
	w(uint8(iconSize))
	w(uint8(iconSize))
	w(uint8(0))
	w(uint8(0))
	w(uint16(1))
	w(uint16(32))
	w(uint32(len(data)))
	w(uint32(6 + 16))

	buf.Write(data)
	return buf.Bytes()
}
