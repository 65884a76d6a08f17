package imgstore

import (
	"testing"

	"github.com/oneconcern/imgstore/pkg/errors"
	"github.com/oneconcern/imgstore/pkg/imgstore/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	fs := afero.NewMemMapFs()

	t.Run("empty store layout", func(t *testing.T) {
		s := newTestStore(t, fs, 5)
		defer func() { require.NoError(t, s.Close()) }()

		assert.Equal(t, StoreName, s.Header.Name)
		assert.Equal(t, uint32(0), s.Header.Version)
		assert.Equal(t, uint32(0), s.Header.NumFiles)
		assert.Equal(t, uint32(5), s.Header.MaxFiles)
		assert.Len(t, s.Metadata, 5)
		assert.Equal(t, testStorePath, s.Path())
		assert.Equal(t, contentStart(5), fileSize(t, fs, testStorePath))
		assert.Equal(t, int64(HeaderSize+5*MetadataSize), contentStart(5))
	})

	for _, toPin := range []struct {
		name string
		cfg  Config
		want *errors.Error
	}{
		{name: "zero capacity", cfg: NewConfig(0, DefaultThumbRes, DefaultSmallRes), want: status.ErrMaxFiles},
		{name: "too many files", cfg: NewConfig(MaxMaxFiles+1, DefaultThumbRes, DefaultSmallRes), want: status.ErrMaxFiles},
		{name: "thumb too large", cfg: NewConfig(10, [2]uint16{129, 64}, DefaultSmallRes), want: status.ErrResolutions},
		{name: "small too large", cfg: NewConfig(10, DefaultThumbRes, [2]uint16{256, 513}), want: status.ErrResolutions},
		{name: "empty box", cfg: NewConfig(10, [2]uint16{0, 64}, DefaultSmallRes), want: status.ErrResolutions},
	} {
		fixture := toPin
		t.Run(fixture.name, func(t *testing.T) {
			_, err := Create(fs, "/stores/invalid.imgst", fixture.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, fixture.want), "got %v", err)
			exists, _ := afero.Exists(fs, "/stores/invalid.imgst")
			assert.False(t, exists, "nothing is written for an invalid configuration")
		})
	}

	t.Run("empty path", func(t *testing.T) {
		_, err := Create(fs, "", DefaultConfig())
		assert.True(t, errors.Is(err, status.ErrInvalidFilename))
	})
}

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()

	t.Run("round trip", func(t *testing.T) {
		cfg := NewConfig(7, [2]uint16{32, 48}, [2]uint16{200, 100})
		s, err := Create(fs, testStorePath, cfg)
		require.NoError(t, err)
		require.NoError(t, s.Insert(testImage(t, 20, 10, 1), "a.png"))
		require.NoError(t, s.Insert(testImage(t, 20, 10, 2), "b.png"))
		require.NoError(t, s.Delete("a.png"))
		want := s.Header
		wantTable := append([]Metadata(nil), s.Metadata...)
		require.NoError(t, s.Close())

		reopened, err := Open(fs, testStorePath)
		require.NoError(t, err)
		defer func() { require.NoError(t, reopened.Close()) }()

		assert.Equal(t, want, reopened.Header)
		assert.Equal(t, wantTable, reopened.Metadata)
		assert.Equal(t, cfg, reopened.Header.Config())
		assert.Equal(t, uint32(3), reopened.Header.Version)
		assert.Equal(t, uint32(1), reopened.Header.NumFiles)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(fs, "/stores/missing.imgst")
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrIO))
	})

	t.Run("truncated file", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "/stores/short.imgst", []byte("EPFL"), 0644))
		_, err := Open(fs, "/stores/short.imgst")
		assert.True(t, errors.Is(err, status.ErrIO))
	})

	t.Run("corrupted capacity", func(t *testing.T) {
		h := Header{Name: StoreName, MaxFiles: MaxMaxFiles + 1}
		require.NoError(t, afero.WriteFile(fs, "/stores/corrupted.imgst", encodeHeader(&h), 0644))
		_, err := Open(fs, "/stores/corrupted.imgst")
		assert.True(t, errors.Is(err, status.ErrMaxFiles))
	})
}

func TestClosedStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestStore(t, fs, 2)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "closing twice is harmless")

	assert.True(t, errors.Is(s.Insert(testImage(t, 4, 4, 1), "a.png"), status.ErrInvalidArgument))
	_, err := s.Read("a.png", ResOrig)
	assert.True(t, errors.Is(err, status.ErrInvalidArgument))
	assert.True(t, errors.Is(s.Delete("a.png"), status.ErrInvalidArgument))

	var nilStore *Store
	assert.True(t, errors.Is(nilStore.Insert(nil, "a.png"), status.ErrInvalidArgument))
	assert.NoError(t, nilStore.Close())
}

func TestFindIndex(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestStore(t, fs, 3)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Insert(testImage(t, 8, 8, 1), "a.png"))
	require.NoError(t, s.Insert(testImage(t, 8, 8, 2), "b.png"))

	index, err := s.FindIndex("b.png")
	require.NoError(t, err)
	assert.Equal(t, 1, index)
	assert.True(t, s.IsValidIndex(index))
	assert.False(t, s.IsValidIndex(2))
	assert.False(t, s.IsValidIndex(-1))
	assert.False(t, s.IsValidIndex(3))

	_, err = s.FindIndex("c.png")
	assert.True(t, errors.Is(err, status.ErrFileNotFound))

	_, err = s.FindIndex("")
	assert.True(t, errors.Is(err, status.ErrInvalidImgID))
}
