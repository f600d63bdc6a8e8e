// Package service provides image decoding, metadata extraction and the
// background loader that feeds the canvas.
package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nicky-ayoub/ebitview/internal/viewport"
	"github.com/rwcarlsen/goexif/exif"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ImageInfo holds metadata about an image.
type ImageInfo struct {
	Width    int
	Height   int
	Size     int64
	Format   string
	ModTime  time.Time
	EXIFData map[string]string
}

// Asset is a decoded image ready to be drawn. It is immutable once loaded.
type Asset struct {
	Name  string
	Image image.Image
	Info  ImageInfo
}

// Size returns the natural size of the image.
func (a *Asset) Size() viewport.Size {
	return viewport.Size{W: a.Info.Width, H: a.Info.Height}
}

// Source is something the loader can open and decode.
type Source interface {
	Name() string
	Open() (io.ReadSeekCloser, error)
}

type fileSource string

// FileSource returns a Source reading the file at path.
func FileSource(path string) Source { return fileSource(path) }

func (f fileSource) Name() string { return filepath.Base(string(f)) }

func (f fileSource) Open() (io.ReadSeekCloser, error) {
	file, err := os.Open(string(f))
	if err != nil {
		return nil, err
	}
	return file, nil
}

type bytesSource struct {
	name string
	data []byte
}

// BytesSource returns a Source over an in-memory encoded image.
func BytesSource(name string, data []byte) Source {
	return bytesSource{name: name, data: data}
}

func (b bytesSource) Name() string { return b.name }

func (b bytesSource) Open() (io.ReadSeekCloser, error) {
	return nopCloser{bytes.NewReader(b.data)}, nil
}

type nopCloser struct{ io.ReadSeeker }

func (nopCloser) Close() error { return nil }

// ImageService provides methods for loading and decoding images.
type ImageService struct {
	log *zap.Logger
}

// NewImageService creates a new ImageService.
func NewImageService(log *zap.Logger) *ImageService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ImageService{log: log}
}

// Load opens src and decodes it.
func (is *ImageService) Load(src Source) (*Asset, error) {
	r, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", src.Name(), err)
	}
	defer r.Close()
	return is.Decode(src.Name(), r)
}

// Decode reads a full image from r along with its metadata. Missing EXIF
// data is not an error.
func (is *ImageService) Decode(name string, r io.ReadSeeker) (*Asset, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("decoding %s: %w", name, viewport.ErrEmptyImage)
	}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("measuring %s: %w", name, err)
	}

	info := ImageInfo{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Size:     size,
		Format:   format,
		EXIFData: make(map[string]string),
	}
	if f, ok := r.(interface{ Stat() (os.FileInfo, error) }); ok {
		if fi, err := f.Stat(); err == nil {
			info.ModTime = fi.ModTime()
		}
	}

	// Reset the reader to read EXIF data
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking %s for exif: %w", name, err)
	}
	if x, err := exif.Decode(r); err == nil {
		readEXIF(x, info.EXIFData)
	}

	is.log.Debug("decoded image",
		zap.String("name", name),
		zap.String("format", format),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.Int64("bytes", info.Size))

	return &Asset{Name: name, Image: img, Info: info}, nil
}

func readEXIF(x *exif.Exif, into map[string]string) {
	if camModel, err := x.Get(exif.Model); err == nil {
		if s, err := camModel.StringVal(); err == nil {
			into["Camera Model"] = s
		}
	}
	if fNum, err := x.Get(exif.FNumber); err == nil {
		if numer, denom, err := fNum.Rat2(0); err == nil && denom != 0 {
			into["F-Number"] = fmt.Sprintf("f/%.1f", float64(numer)/float64(denom))
		}
	}
	if expTime, err := x.Get(exif.ExposureTime); err == nil {
		if numer, denom, err := expTime.Rat2(0); err == nil {
			into["Exposure Time"] = fmt.Sprintf("%d/%d s", numer, denom)
		}
	}
}
