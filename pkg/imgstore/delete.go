package imgstore

import (
	"go.uber.org/zap"
)

// Delete image imgID.
//
// The slot is only invalidated: its content stays in the file until the
// store is compacted. On failure, the image is still there.
func (s *Store) Delete(imgID string) (err error) {
	defer func() { s.record("delete", err) }()

	if err = s.writable(); err != nil {
		return err
	}
	index, err := s.FindIndex(imgID)
	if err != nil {
		return err
	}

	md := s.Metadata[index]
	md.IsValid = false
	header := s.Header
	header.NumFiles--
	header.Version++
	if err = s.commit(index, md, s.Metadata[index], header); err != nil {
		return err
	}

	s.l.Debug("deleted image", zap.String("img_id", imgID), zap.Int("slot", index))
	return nil
}
