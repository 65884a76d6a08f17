package imgstore

import (
	"github.com/oneconcern/imgstore/pkg/imgstore/status"
)

// ResolveDuplicates checks the slot at index, already populated with an
// identifier and a digest, against all other valid slots.
//
// It fails with status.ErrDuplicateID if another valid slot holds the same
// identifier. Otherwise, whenever another valid slot has the same digest, its
// offsets and sizes for all resolutions are copied onto the target slot. The
// scan always runs over the whole table: when several slots share the
// content, the last one in table order wins.
//
// When no slot shares the content, the original resolution offset of the
// target is reset to UnsetOffset, telling the caller that the bytes must be
// written.
//
// Only the target slot is ever modified.
func ResolveDuplicates(s *Store, index int) error {
	if s == nil || s.Metadata == nil {
		return status.ErrInvalidArgument.Wrapf("dedup on a store with no metadata")
	}
	if index < 0 || index >= int(s.Header.MaxFiles) || index >= len(s.Metadata) {
		return status.ErrInvalidArgument.Wrapf("dedup index %d out of range", index)
	}

	target := &s.Metadata[index]
	hasContentClone := false

	for i := range s.Metadata {
		if i == index || !s.Metadata[i].IsValid {
			continue
		}
		other := &s.Metadata[i]

		if sameImgID(target.ImgID, other.ImgID) {
			return status.ErrDuplicateID.Wrapf("image with id %q already exists at slot %d", target.ImgID, i)
		}

		if Compare(target.SHA, other.SHA) == 0 {
			target.Offset = other.Offset
			target.Size = other.Size
			hasContentClone = true
		}
	}

	if !hasContentClone {
		target.Offset[ResOrig] = UnsetOffset
	}
	return nil
}

// sameImgID compares identifiers on their first MaxImgID bytes, as stored on disk
func sameImgID(a, b string) bool {
	if len(a) > MaxImgID {
		a = a[:MaxImgID]
	}
	if len(b) > MaxImgID {
		b = b[:MaxImgID]
	}
	return a == b
}
