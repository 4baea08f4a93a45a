// Package imaging decodes the images a session displays and scales them to
// fit the viewer.
package imaging

import (
	"bufio"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"picsort/internal/errors"
	"picsort/internal/log"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
)

// Image is a decoded image that can be shrunk in place.
type Image struct {
	path   string
	format string
	img    image.Image
}

// Open decodes the image at path.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("image not found", path, errors.FileNotFound, err)
		}
		return nil, errors.NewFileError("failed to open image", path, errors.FileAccessDenied, err)
	}
	defer f.Close()

	img, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.NewFileError("failed to decode image", path, errors.FileOperationFailed, err)
	}
	log.LogWithFields(log.F("path", path), log.F("format", format)).Debug("Decoded image")
	return &Image{path: path, format: format, img: img}, nil
}

// DecodeConfig reads only the header of the image at path and returns its
// dimensions.
func DecodeConfig(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, errors.NewFileError("failed to open image", path, errors.FileAccessDenied, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return 0, 0, errors.NewFileError("failed to decode image header", path, errors.FileOperationFailed, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Path returns the file the image was decoded from.
func (i *Image) Path() string { return i.path }

// Format returns the decoder name, e.g. "jpeg" or "bmp".
func (i *Image) Format() string { return i.format }

// Size returns the current width and height.
func (i *Image) Size() (width, height int) {
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

// Thumbnail shrinks the image in place to fit within maxWidth×maxHeight,
// keeping its aspect ratio. Images already within bounds are left as is.
func (i *Image) Thumbnail(maxWidth, maxHeight int) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return
	}
	w, h := i.Size()
	if w <= maxWidth && h <= maxHeight {
		return
	}
	i.img = resize.Thumbnail(uint(maxWidth), uint(maxHeight), i.img, resize.Lanczos3)
}

// Image returns the decoded pixels.
func (i *Image) Image() image.Image {
	return i.img
}
