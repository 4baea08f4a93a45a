package testutils

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExifFields selects the tags written by WriteJPEGWithExif. Rationals are
// {numerator, denominator}; a zero denominator omits the tag.
type ExifFields struct {
	DateTimeOriginal string
	FNumber          [2]uint32
	ExposureTime     [2]uint32
}

func gradient(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / max(w, 1)), G: uint8(y * 255 / max(h, 1)), B: 128, A: 255})
		}
	}
	return img
}

// WritePNG writes a w×h PNG to path.
func WritePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradient(w, h)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

// WriteJPEG writes a w×h JPEG without metadata to path.
func WriteJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, encodeJPEG(t, w, h), 0644))
}

// WriteJPEGWithExif writes a JPEG carrying an APP1 EXIF segment built from f.
func WriteJPEGWithExif(t *testing.T, path string, w, h int, f ExifFields) {
	t.Helper()
	data := encodeJPEG(t, w, h)
	out := make([]byte, 0, len(data)+256)
	out = append(out, data[:2]...) // SOI
	out = append(out, exifSegment(f)...)
	out = append(out, data[2:]...)
	require.NoError(t, os.WriteFile(path, out, 0644))
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, gradient(w, h), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func rational(r [2]uint32) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0:], r[0])
	binary.LittleEndian.PutUint32(b[4:], r[1])
	return b
}

// exifSegment builds a little-endian TIFF with IFD0 pointing at an Exif IFD.
// Entries are kept in ascending tag order.
func exifSegment(f ExifFields) []byte {
	const (
		typeASCII    = 2
		typeLong     = 4
		typeRational = 5
	)

	var entries []ifdEntry
	if f.ExposureTime[1] != 0 {
		entries = append(entries, ifdEntry{0x829A, typeRational, 1, rational(f.ExposureTime)})
	}
	if f.FNumber[1] != 0 {
		entries = append(entries, ifdEntry{0x829D, typeRational, 1, rational(f.FNumber)})
	}
	if f.DateTimeOriginal != "" {
		s := append([]byte(f.DateTimeOriginal), 0)
		if len(s)%2 == 1 {
			s = append(s, 0)
		}
		entries = append(entries, ifdEntry{0x9003, typeASCII, uint32(len(f.DateTimeOriginal) + 1), s})
	}

	le := binary.LittleEndian
	const ifd0 = 8
	exifIFD := ifd0 + 2 + 12 + 4
	dataOff := exifIFD + 2 + 12*len(entries) + 4

	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, le, uint16(42))
	binary.Write(&buf, le, uint32(ifd0))

	binary.Write(&buf, le, uint16(1))
	binary.Write(&buf, le, uint16(0x8769))
	binary.Write(&buf, le, uint16(typeLong))
	binary.Write(&buf, le, uint32(1))
	binary.Write(&buf, le, uint32(exifIFD))
	binary.Write(&buf, le, uint32(0))

	var data bytes.Buffer
	binary.Write(&buf, le, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&buf, le, e.tag)
		binary.Write(&buf, le, e.typ)
		binary.Write(&buf, le, e.count)
		if len(e.data) <= 4 {
			padded := make([]byte, 4)
			copy(padded, e.data)
			buf.Write(padded)
			continue
		}
		binary.Write(&buf, le, uint32(dataOff+data.Len()))
		data.Write(e.data)
	}
	binary.Write(&buf, le, uint32(0))
	buf.Write(data.Bytes())

	tiff := buf.Bytes()
	var seg bytes.Buffer
	seg.Write([]byte{0xFF, 0xE1})
	binary.Write(&seg, binary.BigEndian, uint16(2+6+len(tiff)))
	seg.WriteString("Exif\x00\x00")
	seg.Write(tiff)
	return seg.Bytes()
}
