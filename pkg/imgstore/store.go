package imgstore

import (
	"fmt"
	"io"
	"os"

	"github.com/oneconcern/imgstore/pkg/imgstore/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Store is an open image store file.
//
// Header and Metadata mirror the on-disk header and slot table. They are
// exported for inspection: callers must not modify them directly.
type Store struct {
	Header   Header
	Metadata []Metadata

	path string
	fs   afero.Fs
	file afero.File
	options
}

// Create a new empty store at path, truncating any existing file.
//
// The returned store is open for read and update.
func Create(fs afero.Fs, path string, cfg Config, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, status.ErrInvalidFilename.Wrapf("empty store path")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	file, err := fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, status.ErrIO.Wrap(err)
	}

	s := &Store{
		Header: Header{
			Name:       StoreName,
			MaxFiles:   cfg.MaxFiles,
			ResResized: cfg.ResResized,
		},
		Metadata: make([]Metadata, cfg.MaxFiles),
		path:     path,
		fs:       fs,
		file:     file,
		options:  defaultOptions(opts),
	}

	// header and empty table are written in one go
	buf := make([]byte, 0, contentStart(cfg.MaxFiles))
	buf = append(buf, encodeHeader(&s.Header)...)
	for i := range s.Metadata {
		buf = append(buf, encodeMetadata(&s.Metadata[i])...)
	}
	if _, err := file.WriteAt(buf, 0); err != nil {
		_ = file.Close()
		return nil, status.ErrIO.Wrap(err)
	}

	s.l.Debug("created image store",
		zap.String("path", path),
		zap.Uint32("max_files", cfg.MaxFiles),
		zap.Uint16s("res_resized", cfg.ResResized[:]),
	)
	return s, nil
}

// Open an existing store for read and update
func Open(fs afero.Fs, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, status.ErrInvalidFilename.Wrapf("empty store path")
	}
	file, err := fs.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, status.ErrIO.Wrap(err)
	}

	s := &Store{
		path:    path,
		fs:      fs,
		file:    file,
		options: defaultOptions(opts),
	}
	if err := s.load(); err != nil {
		_ = file.Close()
		return nil, err
	}

	s.l.Debug("opened image store",
		zap.String("path", path),
		zap.Uint32("version", s.Header.Version),
		zap.Uint32("num_files", s.Header.NumFiles),
		zap.Uint32("max_files", s.Header.MaxFiles),
	)
	return s, nil
}

func (s *Store) load() error {
	buf := make([]byte, HeaderSize)
	if _, err := s.file.ReadAt(buf, 0); err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("reading header: %w", err))
	}
	h, err := decodeHeader(buf)
	if err != nil {
		return err
	}
	if h.MaxFiles == 0 || h.MaxFiles > MaxMaxFiles {
		return status.ErrMaxFiles.Wrapf("corrupted header: max files is %d", h.MaxFiles)
	}
	if h.NumFiles > h.MaxFiles {
		return status.ErrIO.Wrapf("corrupted header: %d files for %d slots", h.NumFiles, h.MaxFiles)
	}

	table := make([]byte, int64(h.MaxFiles)*MetadataSize)
	if _, err := s.file.ReadAt(table, HeaderSize); err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("reading metadata: %w", err))
	}
	metadata := make([]Metadata, h.MaxFiles)
	for i := range metadata {
		if metadata[i], err = decodeMetadata(table[i*MetadataSize : (i+1)*MetadataSize]); err != nil {
			return err
		}
	}

	s.Header = h
	s.Metadata = metadata
	return nil
}

// Close the store file
func (s *Store) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return status.ErrIO.Wrap(err)
	}
	return nil
}

// Path of the store file
func (s *Store) Path() string {
	return s.path
}

// IsValidIndex tells if index designates a valid slot
func (s *Store) IsValidIndex(index int) bool {
	return index >= 0 && index < len(s.Metadata) && s.Metadata[index].IsValid
}

// FindIndex returns the index of the valid slot holding imgID
func (s *Store) FindIndex(imgID string) (int, error) {
	if err := ValidateImgID(imgID); err != nil {
		return -1, err
	}
	for i := range s.Metadata {
		if s.Metadata[i].IsValid && s.Metadata[i].ImgID == imgID {
			return i, nil
		}
	}
	return -1, status.ErrFileNotFound.Wrapf("no image with id %q", imgID)
}

func (s *Store) record(operation string, err error) {
	if s != nil {
		s.m.Op(operation, err)
	}
}

func (s *Store) writable() error {
	if s == nil || s.file == nil {
		return status.ErrInvalidArgument.Wrapf("store is not open")
	}
	return nil
}

// writeHeader persists h, which only becomes the store header once written
func (s *Store) writeHeader(h *Header) error {
	if _, err := s.file.WriteAt(encodeHeader(h), 0); err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("writing header: %w", err))
	}
	return nil
}

// writeMetadata persists m as the slot at index
func (s *Store) writeMetadata(index int, m *Metadata) error {
	if _, err := s.file.WriteAt(encodeMetadata(m), metadataOffset(index)); err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("writing metadata slot %d: %w", index, err))
	}
	return nil
}

// commit persists the slot at index then the header, and only then applies
// both in memory. When the header cannot be written, prev is written back to
// the slot so that the file keeps matching the in-memory table.
func (s *Store) commit(index int, md, prev Metadata, h Header) error {
	if err := s.writeMetadata(index, &md); err != nil {
		return err
	}
	if err := s.writeHeader(&h); err != nil {
		if erb := s.writeMetadata(index, &prev); erb != nil {
			s.l.Warn("could not restore metadata slot", zap.Int("slot", index), zap.Error(erb))
		}
		return err
	}
	s.Metadata[index] = md
	s.Header = h
	return nil
}

// appendContent writes data at the end of the file and returns its offset
func (s *Store) appendContent(data []byte) (uint64, error) {
	offset, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, status.ErrIO.Wrap(err)
	}
	if offset < contentStart(s.Header.MaxFiles) {
		return 0, status.ErrIO.Wrapf("truncated store: content would start at %d", offset)
	}
	if _, err := s.file.Write(data); err != nil {
		return 0, status.ErrIO.Wrap(fmt.Errorf("appending %d bytes: %w", len(data), err))
	}
	return uint64(offset), nil
}

func (s *Store) readContent(offset uint64, size uint32) ([]byte, error) {
	if offset == UnsetOffset {
		return nil, status.ErrIO.Wrapf("reading content at unset offset")
	}
	info, err := s.file.Stat()
	if err != nil {
		return nil, status.ErrIO.Wrap(err)
	}
	if offset > uint64(info.Size()) || uint64(size) > uint64(info.Size())-offset {
		return nil, status.ErrIO.Wrapf("corrupted slot: %d bytes at %d past the end of a %d bytes store",
			size, offset, info.Size())
	}
	buf := make([]byte, size)
	if _, err = s.file.ReadAt(buf, int64(offset)); err != nil {
		return nil, status.ErrIO.Wrap(fmt.Errorf("reading %d bytes at %d: %w", size, offset, err))
	}
	return buf, nil
}
