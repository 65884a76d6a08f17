package imgstore

import (
	"github.com/oneconcern/imgstore/pkg/imgstore/status"
	"go.uber.org/zap"
)

// Insert an image under imgID.
//
// When identical content is already present, the new slot is aliased to it
// and no bytes are written. On failure, the table and header are left as
// they were.
func (s *Store) Insert(img []byte, imgID string) (err error) {
	defer func() { s.record("insert", err) }()

	if err = s.writable(); err != nil {
		return err
	}
	if s.Header.NumFiles >= s.Header.MaxFiles {
		return status.ErrFullImgStore.Wrapf("%d of %d slots in use", s.Header.NumFiles, s.Header.MaxFiles)
	}
	if err = ValidateImgID(imgID); err != nil {
		return err
	}
	if uint64(len(img)) > uint64(^uint32(0)) {
		return status.ErrInvalidArgument.Wrapf("image too large: %d bytes", len(img))
	}

	index := s.freeSlot()
	if index < 0 {
		// num files says otherwise: the table is inconsistent
		return status.ErrFullImgStore.Wrapf("no free slot")
	}

	slot := &s.Metadata[index]
	prev := *slot
	*slot = Metadata{
		ImgID: imgID,
		SHA:   ComputeDigest(img),
	}
	slot.Size[ResOrig] = uint32(len(img))

	if err = ResolveDuplicates(s, index); err != nil {
		*slot = prev
		return err
	}

	width, height, erd := s.resizer.Dimensions(img)
	if erd != nil {
		*slot = prev
		return status.ErrImgLib.Wrap(erd)
	}
	slot.OrigRes = [2]uint32{width, height}

	aliased := slot.Materialized(ResOrig)
	if !aliased {
		offset, erw := s.appendContent(img)
		if erw != nil {
			*slot = prev
			return erw
		}
		slot.Offset[ResOrig] = offset
		slot.Size[ResOrig] = uint32(len(img))
	}

	md := *slot
	md.IsValid = true
	header := s.Header
	header.NumFiles++
	header.Version++
	if err = s.commit(index, md, prev, header); err != nil {
		*slot = prev
		return err
	}

	if aliased {
		s.m.Dedup()
	} else {
		s.m.Written(ResOrig.String(), len(img))
	}
	s.l.Debug("inserted image",
		zap.String("img_id", imgID),
		zap.Int("slot", index),
		zap.Stringer("sha", md.SHA),
		zap.Bool("deduplicated", aliased),
		zap.Uint64("offset", md.Offset[ResOrig]),
		zap.Uint32("size", md.Size[ResOrig]),
	)
	return nil
}

func (s *Store) freeSlot() int {
	for i := range s.Metadata {
		if !s.Metadata[i].IsValid {
			return i
		}
	}
	return -1
}
