package imgstore

import (
	"fmt"

	"github.com/oneconcern/imgstore/pkg/imgstore/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// GCReport describes the outcome of a compaction
type GCReport struct {
	// Images is the number of valid images carried over
	Images int
	// Materialized is the number of derived resolutions regenerated
	Materialized int
	// SizeBefore and SizeAfter are the store file sizes, in bytes
	SizeBefore int64
	SizeAfter  int64
}

// Reclaimed space, in bytes
func (r *GCReport) Reclaimed() int64 {
	if r == nil {
		return 0
	}
	return r.SizeBefore - r.SizeAfter
}

// GarbageCollect compacts the store at path, using tmpPath to build the replacement.
//
// The replacement is built by inserting every valid image of the original
// into a new store with the same settings, then regenerating every derived
// resolution that was present in the original. Inserting runs the usual
// deduplication against the new store.
//
// On failure, both stores are closed and the original is left untouched. The
// partially written replacement is left at tmpPath.
//
// On success, the original file is removed, then the replacement is renamed
// to path. These are two distinct steps: a crash in between loses the store.
func GarbageCollect(fs afero.Fs, path, tmpPath string, opts ...GCOption) (report *GCReport, err error) {
	options := defaultGCOptions(opts)
	defer func() {
		options.m.Compaction(err, report.Reclaimed())
	}()

	if path == "" || tmpPath == "" {
		return nil, status.ErrInvalidFilename.Wrapf("store and temporary paths are required")
	}
	if path == tmpPath {
		return nil, status.ErrInvalidArgument.Wrapf("temporary path must differ from store path %q", path)
	}

	logger := options.l.With(
		zap.String("path", path),
		zap.String("tmp_path", tmpPath),
	)

	info, err := fs.Stat(path)
	if err != nil {
		return nil, status.ErrIO.Wrap(err)
	}
	report = &GCReport{SizeBefore: info.Size()}

	orig, err := Open(fs, path, options.storeOpts...)
	if err != nil {
		return nil, err
	}

	tmp, err := Create(fs, tmpPath, orig.Header.Config(), options.storeOpts...)
	if err != nil {
		_ = orig.Close()
		return nil, err
	}

	logger.Info("compacting image store",
		zap.Uint32("num_files", orig.Header.NumFiles),
		zap.Uint32("max_files", orig.Header.MaxFiles),
		zap.Int64("size", report.SizeBefore),
	)

	if err = rebuild(orig, tmp, report, logger); err != nil {
		_ = orig.Close()
		_ = tmp.Close()
		logger.Warn("compaction aborted, original store left untouched", zap.Error(err))
		return nil, err
	}

	if err = orig.Close(); err != nil {
		_ = tmp.Close()
		return nil, err
	}
	if err = tmp.Close(); err != nil {
		return nil, err
	}

	if err = fs.Remove(path); err != nil {
		return nil, status.ErrIO.Wrap(fmt.Errorf("removing original store: %w", err))
	}
	if err = fs.Rename(tmpPath, path); err != nil {
		return nil, status.ErrIO.Wrap(fmt.Errorf("renaming compacted store: %w", err))
	}

	if info, err = fs.Stat(path); err != nil {
		return nil, status.ErrIO.Wrap(err)
	}
	report.SizeAfter = info.Size()

	logger.Info("done compacting image store",
		zap.Int("images", report.Images),
		zap.Int("materialized", report.Materialized),
		zap.Int64("size", report.SizeAfter),
		zap.Int64("reclaimed", report.Reclaimed()),
	)
	return report, nil
}

// rebuild copies every valid image of orig into tmp, in slot order
func rebuild(orig, tmp *Store, report *GCReport, logger *zap.Logger) error {
	for i := range orig.Metadata {
		if !orig.IsValidIndex(i) {
			continue
		}
		md := orig.Metadata[i]

		content, err := orig.Read(md.ImgID, ResOrig)
		if err != nil {
			return fmt.Errorf("reading %q: %w", md.ImgID, err)
		}
		if err = tmp.Insert(content, md.ImgID); err != nil {
			return fmt.Errorf("inserting %q: %w", md.ImgID, err)
		}
		index, err := tmp.FindIndex(md.ImgID)
		if err != nil {
			return fmt.Errorf("locating %q: %w", md.ImgID, err)
		}

		for _, res := range Derived() {
			if !md.Materialized(res) {
				continue
			}
			if tmp.Metadata[index].Materialized(res) {
				// already shared by an image with the same content
				continue
			}
			if err = tmp.LazilyResize(res, index); err != nil {
				return fmt.Errorf("resizing %q to %s: %w", md.ImgID, res, err)
			}
			report.Materialized++
		}

		report.Images++
		logger.Debug("carried over image",
			zap.String("img_id", md.ImgID),
			zap.Int("from_slot", i),
			zap.Int("to_slot", index),
		)
	}
	return nil
}
