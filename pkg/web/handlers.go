package web

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/oneconcern/imgstore/pkg/imgstore"
	"github.com/oneconcern/imgstore/pkg/imgstore/status"
	"go.uber.org/zap"
)

// HandleList replies with the identifiers of the stored images, as JSON.
//
// Query (optional): format, json or text. The text format is the diagnostic
// dump of the header and every valid slot.
func (s *Server) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, contentType := imgstore.ListJSON, "application/json"
		if format := r.URL.Query().Get("format"); format != "" {
			var ok bool
			if mode, ok = imgstore.ParseListMode(format); !ok {
				s.replyError(w, r, status.ErrInvalidArgument.Wrapf("unknown list format %q", format))
				return
			}
			if mode == imgstore.ListText {
				contentType = "text/plain; charset=utf-8"
			}
		}

		s.mu.Lock()
		list := s.store.List(mode)
		s.mu.Unlock()

		if list == "" {
			s.replyError(w, r, status.ErrIO.Wrapf("could not list store"))
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(list)))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, list)
	}
}

// HandleRead replies with the content of an image at some resolution.
//
// Query: res, img_id.
func (s *Server) HandleRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resName, err := queryVar(r, "res")
		if err != nil {
			s.replyError(w, r, err)
			return
		}
		res, err := imgstore.ParseResolution(resName)
		if err != nil {
			s.replyError(w, r, err)
			return
		}
		imgID, err := queryImgID(r, "img_id")
		if err != nil {
			s.replyError(w, r, err)
			return
		}

		s.mu.Lock()
		content, err := s.store.Read(imgID, res)
		s.mu.Unlock()
		if err != nil {
			s.replyError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		w.WriteHeader(http.StatusOK)
		if _, err = w.Write(content); err != nil {
			s.l.Warn("could not send image", zap.String("img_id", imgID), zap.Error(err))
		}
	}
}

// HandleDelete removes an image, then redirects to the index page.
//
// Query: img_id.
func (s *Server) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imgID, err := queryVar(r, "img_id")
		if err != nil {
			s.replyError(w, r, err)
			return
		}

		s.mu.Lock()
		err = s.store.Delete(imgID)
		s.mu.Unlock()
		if err != nil {
			s.replyError(w, r, err)
			return
		}
		s.replyReload(w)
	}
}

// HandleInsert implements the two-phase upload.
//
// A request with a body stages a chunk: the body is written at byte offset
// (query: name, offset) of the staged file name, offset 0 starting afresh.
//
// A request without body inserts the staged file (query: name, offset),
// offset being its total length, under the identifier name, then redirects
// to the index page. The length reported by the client is trusted.
func (s *Server) HandleInsert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.store.Header.NumFiles >= s.store.Header.MaxFiles {
			s.replyError(w, r, status.ErrFullImgStore.Wrapf("no room for an upload"))
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			s.replyError(w, r, status.ErrIO.Wrap(err))
			return
		}

		if len(body) != 0 {
			if err = s.stageChunk(r, body); err != nil {
				s.replyError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusOK)
			return
		}

		if err = s.insertStaged(r); err != nil {
			s.replyError(w, r, err)
			return
		}
		s.replyReload(w)
	}
}

func (s *Server) stageChunk(r *http.Request, chunk []byte) error {
	name, err := queryVar(r, "name")
	if err != nil {
		return err
	}
	path, err := s.stagedPath(name)
	if err != nil {
		return err
	}
	offset, err := queryOffset(r)
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE
	if offset == 0 {
		flags |= os.O_TRUNC
	}
	if err = s.fs.MkdirAll(s.cfg.UploadDir, 0755); err != nil {
		return status.ErrIO.Wrap(err)
	}
	file, err := s.fs.OpenFile(path, flags, 0644)
	if err != nil {
		return status.ErrIO.Wrap(err)
	}
	defer func() { _ = file.Close() }()

	if _, err = file.WriteAt(chunk, int64(offset)); err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("staging %d bytes at %d: %w", len(chunk), offset, err))
	}

	s.l.Debug("staged chunk",
		zap.String("name", name),
		zap.Uint32("offset", offset),
		zap.Int("size", len(chunk)),
	)
	return nil
}

func (s *Server) insertStaged(r *http.Request) error {
	offset, err := queryOffset(r)
	if err != nil {
		return err
	}
	imgID, err := queryImgID(r, "name")
	if err != nil {
		return err
	}
	path, err := s.stagedPath(imgID)
	if err != nil {
		return err
	}

	file, err := s.fs.Open(path)
	if err != nil {
		return status.ErrIO.Wrap(err)
	}
	defer func() { _ = file.Close() }()

	img := make([]byte, offset)
	if _, err = io.ReadFull(file, img); err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("reading %d staged bytes: %w", offset, err))
	}
	return s.store.Insert(img, imgID)
}

// stagedPath locates an upload in the staging directory, never outside of it
func (s *Server) stagedPath(name string) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", status.ErrInvalidFilename.Wrapf("invalid upload name %q", name)
	}
	return filepath.Join(s.cfg.UploadDir, base), nil
}

// queryVar returns a query variable, which must be present and not empty
func queryVar(r *http.Request, key string) (string, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return "", status.ErrInvalidArgument.Wrapf("missing query variable %q", key)
	}
	return value, nil
}

func queryImgID(r *http.Request, key string) (string, error) {
	imgID, err := queryVar(r, key)
	if err != nil {
		return "", err
	}
	if err = imgstore.ValidateImgID(imgID); err != nil {
		return "", err
	}
	return imgID, nil
}

func queryOffset(r *http.Request) (uint32, error) {
	value, err := queryVar(r, "offset")
	if err != nil {
		return 0, err
	}
	offset, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, status.ErrInvalidArgument.Wrap(fmt.Errorf("invalid offset: %w", err))
	}
	return uint32(offset), nil
}
