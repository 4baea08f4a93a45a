// Package metadata reads the EXIF fields shown next to the current image in
// copy mode. Reading never fails: absent data is reported as Unknown.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"picsort/internal/errors"
	"picsort/internal/log"
	"picsort/pkg/types"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"
)

// Unknown is shown for any field that could not be read.
const Unknown = "Unknown"

// Status tells how much of the metadata was found.
type Status int

const (
	// Missing means the image carries no EXIF block at all.
	Missing Status = iota
	// Partial means some tags were absent or unusable.
	Partial
	// Complete means every field was read.
	Complete
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Partial:
		return "partial"
	default:
		return "missing"
	}
}

// Fields are the values displayed for an image.
type Fields struct {
	FileName     string
	DateTime     string
	Aperture     string
	ShutterSpeed string
}

// Result is the outcome of a read. Err holds the reason when Status is
// Missing and is informational only.
type Result struct {
	Fields Fields
	Status Status
	Err    error
}

// Lines returns the fields as "Label: value" lines in display order.
func (r Result) Lines() []string {
	return []string{
		"File Name: " + r.Fields.FileName,
		"Date/Time: " + r.Fields.DateTime,
		"Aperture: " + r.Fields.Aperture,
		"Shutter Speed: " + r.Fields.ShutterSpeed,
	}
}

var registerOnce sync.Once

func unknownFields(path string) Fields {
	return Fields{
		FileName:     filepath.Base(path),
		DateTime:     Unknown,
		Aperture:     Unknown,
		ShutterSpeed: Unknown,
	}
}

// Read extracts the capture time, aperture and shutter speed of the image at
// path. The file name is always set.
func Read(path string) Result {
	registerOnce.Do(func() { exif.RegisterParsers(mknote.All...) })
	logger := log.LogWithFields(log.F("path", path))

	result := Result{Fields: unknownFields(path), Status: Missing}

	file, err := os.Open(path)
	if err != nil {
		result.Err = errors.NewFileError("failed to open image for exif", path, errors.MetadataUnavailable, err)
		logger.WithError(result.Err).Debug("Metadata unavailable")
		return result
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		result.Err = errors.NewSessionError("image has no metadata", errors.MetadataUnavailable, err)
		logger.Debugf("No EXIF data found or failed to decode: %v", err)
		return result
	}

	found := 0
	if dt, ok := dateTime(x); ok {
		result.Fields.DateTime = dt
		found++
	}
	if tag, err := x.Get(exif.FNumber); err == nil {
		if v, ok := ratFloat(tag); ok && v > 0 {
			result.Fields.Aperture = FormatAperture(v)
			found++
		}
	}
	if tag, err := x.Get(exif.ExposureTime); err == nil {
		if v, ok := ratFloat(tag); ok && v > 0 {
			result.Fields.ShutterSpeed = FormatShutterSpeed(v)
			found++
		}
	}

	switch found {
	case 3:
		result.Status = Complete
	default:
		result.Status = Partial
	}
	logger.With(log.F("status", result.Status.String())).Debug("Read metadata")
	return result
}

// dateTime prefers the capture time and falls back to the IFD0 modification
// time. Values are kept in their EXIF "YYYY:MM:DD HH:MM:SS" form.
func dateTime(x *exif.Exif) (string, bool) {
	for _, name := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		s, err := tag.StringVal()
		s = strings.TrimRight(strings.TrimSpace(s), "\x00")
		if err == nil && s != "" {
			return s, true
		}
	}
	return "", false
}

func ratFloat(tag *tiff.Tag) (float64, bool) {
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}

// FormatAperture renders an f-number with one decimal, e.g. "f/2.8".
func FormatAperture(fnumber float64) string {
	return fmt.Sprintf("f/%.1f", fnumber)
}

// FormatShutterSpeed renders an exposure time in seconds as its rounded
// reciprocal, e.g. 0.004 becomes "1/250".
func FormatShutterSpeed(exposure float64) string {
	return fmt.Sprintf("1/%.0f", 1/exposure)
}

// Describe gathers what the scan command lists for one file: its detected
// content type, size and metadata.
func Describe(path string) (*types.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("failed to stat file", path, errors.FileNotFound, err)
		}
		return nil, errors.NewFileError("failed to stat file", path, errors.FileAccessDenied, err)
	}

	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, errors.NewFileError("failed to detect content type", path, errors.FileOperationFailed, err)
	}

	meta := Read(path)
	return &types.FileInfo{
		Path:        path,
		ContentType: mime.String(),
		Size:        info.Size(),
		Metadata: map[string]string{
			"DateTime":     meta.Fields.DateTime,
			"Aperture":     meta.Fields.Aperture,
			"ShutterSpeed": meta.Fields.ShutterSpeed,
		},
		MetadataStatus: meta.Status.String(),
	}, nil
}
