package imgstore

import (
	"bytes"
	"encoding/binary"

	"github.com/oneconcern/imgstore/pkg/imgstore/status"
)

// Layout of a store file, little endian:
//
//	header   (HeaderSize bytes)
//	metadata (MaxFiles x MetadataSize bytes)
//	content  (appended image bytes)
const (
	HeaderSize   = 64
	MetadataSize = 216

	nameField  = MaxStoreName + 1
	imgIDField = MaxImgID + 1
)

var byteOrder = binary.LittleEndian

// field offsets within an encoded header
const (
	hdrVersion  = nameField
	hdrNumFiles = hdrVersion + 4
	hdrMaxFiles = hdrNumFiles + 4
	hdrRes      = hdrMaxFiles + 4
)

// field offsets within an encoded metadata slot
const (
	mdSHA     = imgIDField
	mdOrigRes = mdSHA + DigestSize
	mdSize    = mdOrigRes + 2*4
	mdOffset  = mdSize + NbRes*4 + 4
	mdIsValid = mdOffset + NbRes*8
)

const (
	slotEmpty    uint16 = 0
	slotNonEmpty uint16 = 1
)

func metadataOffset(index int) int64 {
	return HeaderSize + int64(index)*MetadataSize
}

func contentStart(maxFiles uint32) int64 {
	return metadataOffset(int(maxFiles))
}

// putString copies s into a zero-padded fixed-size field
func putString(field []byte, s string) {
	for i := range field {
		field[i] = 0
	}
	copy(field[:len(field)-1], s)
}

func getString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return string(field[:i])
	}
	return string(field)
}

func encodeHeader(h *Header) []byte {
	buf := make([]byte, HeaderSize)
	putString(buf[:nameField], h.Name)
	byteOrder.PutUint32(buf[hdrVersion:], h.Version)
	byteOrder.PutUint32(buf[hdrNumFiles:], h.NumFiles)
	byteOrder.PutUint32(buf[hdrMaxFiles:], h.MaxFiles)
	for i, r := range h.ResResized {
		byteOrder.PutUint16(buf[hdrRes+2*i:], r)
	}
	return buf
}

func decodeHeader(buf []byte) (Header, error) {
	var h Header
	if len(buf) < HeaderSize {
		return h, status.ErrIO.Wrapf("short header: %d bytes", len(buf))
	}
	h.Name = getString(buf[:nameField])
	h.Version = byteOrder.Uint32(buf[hdrVersion:])
	h.NumFiles = byteOrder.Uint32(buf[hdrNumFiles:])
	h.MaxFiles = byteOrder.Uint32(buf[hdrMaxFiles:])
	for i := range h.ResResized {
		h.ResResized[i] = byteOrder.Uint16(buf[hdrRes+2*i:])
	}
	return h, nil
}

func encodeMetadata(m *Metadata) []byte {
	buf := make([]byte, MetadataSize)
	putString(buf[:imgIDField], m.ImgID)
	copy(buf[mdSHA:mdOrigRes], m.SHA[:])
	for i, v := range m.OrigRes {
		byteOrder.PutUint32(buf[mdOrigRes+4*i:], v)
	}
	for i, v := range m.Size {
		byteOrder.PutUint32(buf[mdSize+4*i:], v)
	}
	for i, v := range m.Offset {
		byteOrder.PutUint64(buf[mdOffset+8*i:], v)
	}
	valid := slotEmpty
	if m.IsValid {
		valid = slotNonEmpty
	}
	byteOrder.PutUint16(buf[mdIsValid:], valid)
	return buf
}

func decodeMetadata(buf []byte) (Metadata, error) {
	var m Metadata
	if len(buf) < MetadataSize {
		return m, status.ErrIO.Wrapf("short metadata: %d bytes", len(buf))
	}
	m.ImgID = getString(buf[:imgIDField])
	copy(m.SHA[:], buf[mdSHA:mdOrigRes])
	for i := range m.OrigRes {
		m.OrigRes[i] = byteOrder.Uint32(buf[mdOrigRes+4*i:])
	}
	for i := range m.Size {
		m.Size[i] = byteOrder.Uint32(buf[mdSize+4*i:])
	}
	for i := range m.Offset {
		m.Offset[i] = byteOrder.Uint64(buf[mdOffset+8*i:])
	}
	m.IsValid = byteOrder.Uint16(buf[mdIsValid:]) == slotNonEmpty
	return m, nil
}
