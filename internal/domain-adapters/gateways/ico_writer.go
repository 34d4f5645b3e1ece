package gateways

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
)

const (
	icoHeaderSize = 6
	icoEntrySize  = 16
)

// EncodeICO writes a Windows icon container with one PNG-compressed tile
// per image. Tiles keep the order given.
func EncodeICO(w io.Writer, tiles []image.Image) error {
	if len(tiles) == 0 {
		return fmt.Errorf("ico needs at least one tile")
	}

	payloads := make([][]byte, len(tiles))
	for i, img := range tiles {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("failed to encode tile %d: %w", i, err)
		}
		payloads[i] = buf.Bytes()
	}

	var out bytes.Buffer
	// ICONDIR: reserved, type (1 = icon), count
	_ = binary.Write(&out, binary.LittleEndian, [3]uint16{0, 1, uint16(len(tiles))})

	offset := uint32(icoHeaderSize + icoEntrySize*len(tiles))
	for i, img := range tiles {
		b := img.Bounds()
		out.Write([]byte{icoDim(b.Dx()), icoDim(b.Dy()), 0, 0})
		_ = binary.Write(&out, binary.LittleEndian, uint16(1))  // planes
		_ = binary.Write(&out, binary.LittleEndian, uint16(32)) // bpp
		_ = binary.Write(&out, binary.LittleEndian, uint32(len(payloads[i])))
		_ = binary.Write(&out, binary.LittleEndian, offset)
		offset += uint32(len(payloads[i]))
	}
	for _, p := range payloads {
		out.Write(p)
	}

	_, err := w.Write(out.Bytes())
	return err
}

// icoDim stores 256 as 0.
func icoDim(n int) byte {
	if n >= 256 {
		return 0
	}
	return byte(n)
}

// ICOEntry is one directory entry read back from an icon container.
type ICOEntry struct {
	Width, Height int
	Size, Offset  uint32
}

// ReadICODirectory parses the header and directory of an icon container.
func ReadICODirectory(data []byte) ([]ICOEntry, error) {
	if len(data) < icoHeaderSize {
		return nil, fmt.Errorf("ico too short")
	}
	if binary.LittleEndian.Uint16(data[2:]) != 1 {
		return nil, fmt.Errorf("not an icon container")
	}
	count := int(binary.LittleEndian.Uint16(data[4:]))
	if len(data) < icoHeaderSize+count*icoEntrySize {
		return nil, fmt.Errorf("ico directory truncated")
	}

	entries := make([]ICOEntry, count)
	for i := range entries {
		e := data[icoHeaderSize+i*icoEntrySize:]
		w, h := int(e[0]), int(e[1])
		if w == 0 {
			w = 256
		}
		if h == 0 {
			h = 256
		}
		entries[i] = ICOEntry{
			Width:  w,
			Height: h,
			Size:   binary.LittleEndian.Uint32(e[8:]),
			Offset: binary.LittleEndian.Uint32(e[12:]),
		}
	}
	return entries, nil
}
