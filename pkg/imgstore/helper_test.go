package imgstore

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/oneconcern/imgstore/pkg/thumbnail"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testStorePath = "/stores/test.imgst"

// testImage generates a png image, distinct for every seed
func testImage(t testing.TB, width, height int, seed uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: seed, G: uint8(x * y), B: uint8(x + y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// countingResizer counts the derived resolutions actually generated
type countingResizer struct {
	thumbnail.Resizer
	resized int
}

func newCountingResizer() *countingResizer {
	return &countingResizer{Resizer: thumbnail.New()}
}

func (c *countingResizer) Resize(data []byte, maxWidth, maxHeight uint32) ([]byte, error) {
	c.resized++
	return c.Resizer.Resize(data, maxWidth, maxHeight)
}

func newTestStore(t testing.TB, fs afero.Fs, maxFiles uint32, opts ...Option) *Store {
	t.Helper()
	s, err := Create(fs, testStorePath, NewConfig(maxFiles, DefaultThumbRes, DefaultSmallRes), opts...)
	require.NoError(t, err)
	return s
}

func fileSize(t testing.TB, fs afero.Fs, path string) int64 {
	t.Helper()
	info, err := fs.Stat(path)
	require.NoError(t, err)
	return info.Size()
}

var errInjected = errors.New("injected write failure")

// failingFs injects write failures into one file: appends fail once a
// budget of writes is exhausted, and the failAt-th WriteAt call fails
type failingFs struct {
	afero.Fs
	path     string
	budget   *int
	writeAts *int
	failAt   int
}

func newFailingFs(fs afero.Fs, path string, budget int) *failingFs {
	return &failingFs{Fs: fs, path: path, budget: &budget, writeAts: new(int)}
}

// newFailingWriteAtFs fails the n-th positioned write (counting from 1), and only that one
func newFailingWriteAtFs(fs afero.Fs, path string, n int) *failingFs {
	budget := -1
	return &failingFs{Fs: fs, path: path, budget: &budget, writeAts: new(int), failAt: n}
}

func (f *failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil || name != f.path {
		return file, err
	}
	return &failingFile{File: file, fs: f}, nil
}

type failingFile struct {
	afero.File
	fs *failingFs
}

func (f *failingFile) Write(p []byte) (int, error) {
	budget := f.fs.budget
	if *budget == 0 {
		return 0, errInjected
	}
	if *budget > 0 {
		*budget--
	}
	return f.File.Write(p)
}

func (f *failingFile) WriteAt(p []byte, off int64) (int, error) {
	*f.fs.writeAts++
	if *f.fs.writeAts == f.fs.failAt {
		return 0, errInjected
	}
	return f.File.WriteAt(p, off)
}
