package imgstore

import (
	"github.com/oneconcern/imgstore/pkg/imgstore/status"
	"go.uber.org/zap"
)

// Read the content of image imgID at some resolution.
//
// Derived resolutions which are not present yet are generated and stored first.
func (s *Store) Read(imgID string, res Resolution) (content []byte, err error) {
	defer func() { s.record("read", err) }()

	if err = s.writable(); err != nil {
		return nil, err
	}
	if !res.Valid() {
		return nil, status.ErrResolutions.Wrapf("unsupported resolution code %d", int(res))
	}
	index, err := s.FindIndex(imgID)
	if err != nil {
		return nil, err
	}

	if res != ResOrig && !s.Metadata[index].Materialized(res) {
		if err = s.LazilyResize(res, index); err != nil {
			return nil, err
		}
	}

	slot := &s.Metadata[index]
	return s.readContent(slot.Offset[res], slot.Size[res])
}

// LazilyResize materializes a derived resolution of the valid slot at index.
//
// It is a no-op for the original resolution, or when the resolution is
// already present. The generated content is shared with every other valid
// slot holding the same content and still lacking that resolution.
func (s *Store) LazilyResize(res Resolution, index int) (err error) {
	if err = s.writable(); err != nil {
		return err
	}
	if !res.Valid() {
		return status.ErrResolutions.Wrapf("unsupported resolution code %d", int(res))
	}
	if !s.IsValidIndex(index) {
		return status.ErrInvalidArgument.Wrapf("no valid image at slot %d", index)
	}
	slot := &s.Metadata[index]
	if res == ResOrig || slot.Materialized(res) {
		return nil
	}
	defer func() { s.record("resize", err) }()

	original, err := s.readContent(slot.Offset[ResOrig], slot.Size[ResOrig])
	if err != nil {
		return err
	}
	width, height := s.Header.Config().Box(res)
	resized, err := s.resizer.Resize(original, width, height)
	if err != nil {
		return status.ErrImgLib.Wrap(err)
	}
	if uint64(len(resized)) > uint64(^uint32(0)) {
		return status.ErrImgLib.Wrapf("resized image too large: %d bytes", len(resized))
	}

	offset, err := s.appendContent(resized)
	if err != nil {
		return err
	}
	s.m.Written(res.String(), len(resized))
	s.m.Materialize(res.String())

	for i := range s.Metadata {
		other := s.Metadata[i]
		if i != index && (!other.IsValid || other.Materialized(res) || Compare(other.SHA, slot.SHA) != 0) {
			continue
		}
		other.Offset[res] = offset
		other.Size[res] = uint32(len(resized))
		if err = s.writeMetadata(i, &other); err != nil {
			return err
		}
		s.Metadata[i] = other
	}

	s.l.Debug("materialized resolution",
		zap.String("img_id", slot.ImgID),
		zap.Int("slot", index),
		zap.Stringer("resolution", res),
		zap.Uint64("offset", offset),
		zap.Int("size", len(resized)),
	)
	return nil
}
