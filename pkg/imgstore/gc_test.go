package imgstore

import (
	"testing"

	"github.com/oneconcern/imgstore/pkg/errors"
	"github.com/oneconcern/imgstore/pkg/imgstore/status"
	"github.com/oneconcern/imgstore/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTmpPath = "/stores/test.imgst.tmp"

type gcFixture struct {
	images  map[string][]byte
	deleted []string
	thumbs  map[string][]byte
}

// populate a store with kept, deleted and aliased images, some with a thumbnail
func populate(t *testing.T, fs afero.Fs, opts ...Option) gcFixture {
	t.Helper()
	s := newTestStore(t, fs, 8, opts...)
	defer func() { require.NoError(t, s.Close()) }()

	f := gcFixture{
		images: map[string][]byte{
			"keep1": testImage(t, 120, 90, 1),
			"keep2": testImage(t, 90, 120, 2),
			"alias": testImage(t, 120, 90, 1),
		},
		deleted: []string{"gone1", "gone2"},
		thumbs:  make(map[string][]byte),
	}

	require.NoError(t, s.Insert(testImage(t, 60, 60, 10), "gone1"))
	require.NoError(t, s.Insert(f.images["keep1"], "keep1"))
	require.NoError(t, s.Insert(testImage(t, 70, 50, 11), "gone2"))
	require.NoError(t, s.Insert(f.images["keep2"], "keep2"))
	require.NoError(t, s.Insert(f.images["alias"], "alias"))

	for _, id := range []string{"gone1", "keep1", "gone2"} {
		thumb, err := s.Read(id, ResThumb)
		require.NoError(t, err)
		f.thumbs[id] = thumb
	}
	f.thumbs["alias"] = f.thumbs["keep1"]
	_, err := s.Read("gone2", ResSmall)
	require.NoError(t, err)

	for _, id := range f.deleted {
		require.NoError(t, s.Delete(id))
	}
	return f
}

func TestGarbageCollect(t *testing.T) {
	fs := afero.NewMemMapFs()
	resizer := newCountingResizer()
	f := populate(t, fs, WithResizer(resizer))
	before := fileSize(t, fs, testStorePath)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	report, err := GarbageCollect(fs, testStorePath, testTmpPath,
		WithGCMetrics(m),
		WithGCStoreOptions(WithResizer(resizer)),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Images)
	assert.Equal(t, 1, report.Materialized, "the alias shares the regenerated thumbnail")
	assert.Equal(t, before, report.SizeBefore)
	assert.Equal(t, fileSize(t, fs, testStorePath), report.SizeAfter)
	assert.Positive(t, report.Reclaimed())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Compactions.WithLabelValues("success")))
	assert.Equal(t, float64(report.Reclaimed()), testutil.ToFloat64(m.ReclaimedSize))

	exists, err := afero.Exists(fs, testTmpPath)
	require.NoError(t, err)
	assert.False(t, exists, "the replacement was renamed over the original")

	s, err := Open(fs, testStorePath, WithResizer(resizer))
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	t.Run("header is preserved", func(t *testing.T) {
		assert.Equal(t, uint32(8), s.Header.MaxFiles)
		assert.Equal(t, uint32(3), s.Header.NumFiles)
		assert.Equal(t, NewConfig(8, DefaultThumbRes, DefaultSmallRes), s.Header.Config())
		assert.ElementsMatch(t, []string{"keep1", "keep2", "alias"}, s.Images())
	})

	t.Run("content is preserved", func(t *testing.T) {
		for id, img := range f.images {
			content, err := s.Read(id, ResOrig)
			require.NoError(t, err)
			assert.Equal(t, img, content, id)
		}
		for _, id := range f.deleted {
			_, err := s.Read(id, ResOrig)
			assert.True(t, errors.Is(err, status.ErrFileNotFound), id)
		}
	})

	t.Run("dead bytes are gone", func(t *testing.T) {
		k1, _ := s.FindIndex("keep1")
		k2, _ := s.FindIndex("keep2")
		al, _ := s.FindIndex("alias")
		assert.Equal(t, s.Metadata[k1].Offset, s.Metadata[al].Offset)

		live := int64(s.Metadata[k1].Size[ResOrig]) +
			int64(s.Metadata[k1].Size[ResThumb]) +
			int64(s.Metadata[k2].Size[ResOrig])
		assert.Equal(t, contentStart(8)+live, fileSize(t, fs, testStorePath))
	})

	t.Run("materialized resolutions stay warm", func(t *testing.T) {
		count := resizer.resized
		for _, id := range []string{"keep1", "alias"} {
			thumb, err := s.Read(id, ResThumb)
			require.NoError(t, err)
			assert.Equal(t, f.thumbs[id], thumb, id)
		}
		assert.Equal(t, count, resizer.resized)

		k2, _ := s.FindIndex("keep2")
		assert.False(t, s.Metadata[k2].Materialized(ResThumb), "absent resolutions are not generated")
		assert.False(t, s.Metadata[k2].Materialized(ResSmall))
	})
}

func TestGarbageCollectFailure(t *testing.T) {
	mem := afero.NewMemMapFs()
	populate(t, mem)
	original, err := afero.ReadFile(mem, testStorePath)
	require.NoError(t, err)

	// the replacement accepts a single append, then fails
	fs := newFailingFs(mem, testTmpPath, 1)
	m := metrics.New(nil)
	report, err := GarbageCollect(fs, testStorePath, testTmpPath, WithGCMetrics(m))
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, status.ErrIO))
	assert.Equal(t, "I/O Error", status.Message(err))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Compactions.WithLabelValues("failure")))

	after, err := afero.ReadFile(mem, testStorePath)
	require.NoError(t, err)
	assert.Equal(t, original, after, "the original store is untouched")

	exists, err := afero.Exists(mem, testTmpPath)
	require.NoError(t, err)
	assert.True(t, exists, "the partial replacement is left behind")

	s, err := Open(mem, testStorePath)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()
	assert.ElementsMatch(t, []string{"keep1", "keep2", "alias"}, s.Images())
}

func TestGarbageCollectArguments(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := GarbageCollect(fs, "", testTmpPath)
	assert.True(t, errors.Is(err, status.ErrInvalidFilename))

	_, err = GarbageCollect(fs, testStorePath, testStorePath)
	assert.True(t, errors.Is(err, status.ErrInvalidArgument))

	_, err = GarbageCollect(fs, "/stores/missing.imgst", testTmpPath)
	assert.True(t, errors.Is(err, status.ErrIO))
}

func TestGarbageCollectEmptyStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestStore(t, fs, 3)
	require.NoError(t, s.Insert(testImage(t, 10, 10, 1), "a.png"))
	require.NoError(t, s.Delete("a.png"))
	require.NoError(t, s.Close())

	report, err := GarbageCollect(fs, testStorePath, testTmpPath)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Images)
	assert.Equal(t, contentStart(3), report.SizeAfter)
}
