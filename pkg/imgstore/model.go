package imgstore

import (
	"fmt"
	"strings"

	"github.com/oneconcern/imgstore/pkg/imgstore/status"
)

// Resolution of an image variant stored in a slot
type Resolution int

const (
	// ResThumb is the thumbnail variant
	ResThumb Resolution = iota
	// ResSmall is the small variant
	ResSmall
	// ResOrig is the original image, as inserted
	ResOrig

	// NbRes is the number of resolutions tracked per slot
	NbRes = 3
)

const (
	// StoreName is the type tag written in every store header
	StoreName = "EPFL ImgStore binary"

	// MaxStoreName is the maximum length of the header type tag
	MaxStoreName = 31

	// MaxImgID is the maximum length of an image identifier
	MaxImgID = 127

	// MaxMaxFiles is the maximum capacity of a store
	MaxMaxFiles = 100000

	// UnsetOffset marks a resolution which has not been materialized.
	// The header lives at offset 0, so no content may start there.
	UnsetOffset uint64 = 0

	// DefaultMaxFiles is the capacity of a store when none is given
	DefaultMaxFiles = 10
)

// resize boxes bounds, per derived resolution
var (
	DefaultThumbRes = [2]uint16{64, 64}
	DefaultSmallRes = [2]uint16{256, 256}
	MaxThumbRes     = [2]uint16{128, 128}
	MaxSmallRes     = [2]uint16{512, 512}
)

// ParseResolution from its textual name
func ParseResolution(s string) (Resolution, error) {
	switch strings.TrimSpace(s) {
	case "thumb", "thumbnail":
		return ResThumb, nil
	case "small":
		return ResSmall, nil
	case "orig", "original":
		return ResOrig, nil
	default:
		return 0, status.ErrResolutions.Wrapf("unknown resolution %q", s)
	}
}

func (r Resolution) String() string {
	switch r {
	case ResThumb:
		return "thumb"
	case ResSmall:
		return "small"
	case ResOrig:
		return "orig"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// Valid tells if r is a known resolution
func (r Resolution) Valid() bool {
	return r >= ResThumb && r <= ResOrig
}

// Derived resolutions, in the order they are tracked
func Derived() []Resolution {
	return []Resolution{ResThumb, ResSmall}
}

// Config holds the store-wide settings fixed at creation time
type Config struct {
	MaxFiles uint32
	// ResResized holds the thumbnail then small bounding boxes, as width, height pairs
	ResResized [2 * (NbRes - 1)]uint16
}

// DefaultConfig returns the settings used when none are specified
func DefaultConfig() Config {
	return NewConfig(DefaultMaxFiles, DefaultThumbRes, DefaultSmallRes)
}

// NewConfig builds a Config from a capacity and the thumbnail and small boxes
func NewConfig(maxFiles uint32, thumb, small [2]uint16) Config {
	return Config{
		MaxFiles:   maxFiles,
		ResResized: [2 * (NbRes - 1)]uint16{thumb[0], thumb[1], small[0], small[1]},
	}
}

// Box returns the bounding box (width, height) of a derived resolution
func (c Config) Box(res Resolution) (uint32, uint32) {
	return uint32(c.ResResized[2*int(res)]), uint32(c.ResResized[2*int(res)+1])
}

// Validate the capacity and resize boxes
func (c Config) Validate() error {
	if c.MaxFiles == 0 || c.MaxFiles > MaxMaxFiles {
		return status.ErrMaxFiles.Wrapf("max files must be in [1, %d], got %d", MaxMaxFiles, c.MaxFiles)
	}
	limits := map[Resolution][2]uint16{ResThumb: MaxThumbRes, ResSmall: MaxSmallRes}
	for _, res := range Derived() {
		w, h := c.Box(res)
		limit := limits[res]
		if w == 0 || h == 0 || w > uint32(limit[0]) || h > uint32(limit[1]) {
			return status.ErrResolutions.Wrapf(
				"%s box %dx%d must be within 1x1 and %dx%d", res, w, h, limit[0], limit[1])
		}
	}
	return nil
}

// Header of a store file
type Header struct {
	Name       string
	Version    uint32
	NumFiles   uint32
	MaxFiles   uint32
	ResResized [2 * (NbRes - 1)]uint16
}

// Config replicates the settings of the store, e.g. to create a replacement
func (h Header) Config() Config {
	return Config{MaxFiles: h.MaxFiles, ResResized: h.ResResized}
}

// Metadata describes one slot of the store
type Metadata struct {
	ImgID   string
	SHA     Digest
	OrigRes [2]uint32
	Size    [NbRes]uint32
	Offset  [NbRes]uint64
	IsValid bool
}

// Materialized tells if the content of some resolution is present in the store
func (m *Metadata) Materialized(res Resolution) bool {
	return m.Offset[res] != UnsetOffset
}

// ValidateImgID checks the length of an image identifier
func ValidateImgID(imgID string) error {
	if imgID == "" || len(imgID) > MaxImgID {
		return status.ErrInvalidImgID.Wrapf("image id must have 1 to %d bytes, got %d", MaxImgID, len(imgID))
	}
	return nil
}
