package status

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	assert.Empty(t, Message(nil))
	assert.Equal(t, "File not found", Message(ErrFileNotFound))
	assert.Equal(t, "Full imgStore", Message(ErrFullImgStore.Wrapf("3 of 3 slots in use")))
	assert.Equal(t, "Existing image ID", Message(fmt.Errorf("inserting: %w", ErrDuplicateID.Wrap(io.EOF))))
	assert.Equal(t, "I/O Error", Message(io.ErrUnexpectedEOF), "unknown errors are reported as I/O errors")
}
