package imgstore

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// ListMode selects the output of List
type ListMode int

const (
	// ListText dumps the header and every valid slot, for diagnostics
	ListText ListMode = iota
	// ListJSON renders the identifiers of valid slots as {"Images": [...]}
	ListJSON
)

const (
	emptyStoreText    = "<< empty imgStore >>\n"
	unimplementedList = "unimplemented do_list output mode"
	banner            = "*****************************************\n"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseListMode from its textual name
func ParseListMode(s string) (ListMode, bool) {
	switch s {
	case "text", "stdout":
		return ListText, true
	case "json":
		return ListJSON, true
	default:
		return 0, false
	}
}

// ImageList is the JSON document listing the images of a store
type ImageList struct {
	Images []string `json:"Images"`
}

// List renders the store. It never modifies the store.
//
// On a serialization failure the JSON mode returns an empty string, which
// callers cannot tell apart from an unreadable store.
func (s *Store) List(mode ListMode) string {
	if s == nil || s.Metadata == nil {
		return ""
	}
	switch mode {
	case ListText:
		return s.listText()
	case ListJSON:
		return s.listJSON()
	default:
		return unimplementedList
	}
}

// Images returns the identifiers of valid slots, in table order
func (s *Store) Images() []string {
	ids := make([]string, 0, s.Header.NumFiles)
	for i := range s.Metadata {
		if s.Metadata[i].IsValid {
			ids = append(ids, s.Metadata[i].ImgID)
		}
	}
	return ids
}

func (s *Store) listJSON() string {
	b, err := json.Marshal(ImageList{Images: s.Images()})
	if err != nil {
		s.l.Warn("could not render image list")
		return ""
	}
	return string(b)
}

func (s *Store) listText() string {
	var b strings.Builder
	printHeader(&b, &s.Header)
	if s.Header.NumFiles == 0 {
		b.WriteString(emptyStoreText)
		return b.String()
	}
	for i := range s.Metadata {
		if s.Metadata[i].IsValid {
			printMetadata(&b, &s.Metadata[i])
		}
	}
	return b.String()
}

func printHeader(b *strings.Builder, h *Header) {
	b.WriteString(banner)
	b.WriteString("**********IMGSTORE HEADER START**********\n")
	fmt.Fprintf(b, "TYPE: %31s\n", h.Name)
	fmt.Fprintf(b, "VERSION: %d\n", h.Version)
	fmt.Fprintf(b, "IMAGE COUNT: %d\t\tMAX IMAGES: %d\n", h.NumFiles, h.MaxFiles)
	fmt.Fprintf(b, "THUMBNAIL: %d x %d\tSMALL: %d x %d\n",
		h.ResResized[0], h.ResResized[1], h.ResResized[2], h.ResResized[3])
	b.WriteString("***********IMGSTORE HEADER END***********\n")
	b.WriteString(banner)
}

func printMetadata(b *strings.Builder, m *Metadata) {
	fmt.Fprintf(b, "IMAGE ID: %s\n", m.ImgID)
	fmt.Fprintf(b, "SHA: %s\n", m.SHA)
	fmt.Fprintf(b, "VALID: %d\n", boolToInt(m.IsValid))
	fmt.Fprintf(b, "UNUSED: %d\n", 0)
	fmt.Fprintf(b, "OFFSET ORIG. : %d\t\tSIZE ORIG. : %d\n", m.Offset[ResOrig], m.Size[ResOrig])
	fmt.Fprintf(b, "OFFSET THUMB.: %d\t\tSIZE THUMB.: %d\n", m.Offset[ResThumb], m.Size[ResThumb])
	fmt.Fprintf(b, "OFFSET SMALL : %d\t\tSIZE SMALL : %d\n", m.Offset[ResSmall], m.Size[ResSmall])
	fmt.Fprintf(b, "ORIGINAL: %d x %d\n", m.OrigRes[0], m.OrigRes[1])
	b.WriteString(banner)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
