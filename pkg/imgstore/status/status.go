// Package status exports errors produced by the imgstore package.
//
// Every error kind carries the fixed message reported to users (CLI and
// HTTP replies) whatever the underlying cause.
package status

import (
	"github.com/oneconcern/imgstore/pkg/errors"
)

var (
	// ErrIO indicates a failed read, write, open, rename or remove
	ErrIO = errors.New("I/O Error")

	// ErrOutOfMemory indicates an allocation failure
	ErrOutOfMemory = errors.New("(re|m|c)alloc failed")

	// ErrNotEnoughArguments indicates a command line with missing arguments
	ErrNotEnoughArguments = errors.New("Not enough arguments")

	// ErrInvalidFilename indicates an invalid store or image file name
	ErrInvalidFilename = errors.New("Invalid filename")

	// ErrInvalidCommand indicates an unknown command
	ErrInvalidCommand = errors.New("Invalid command")

	// ErrInvalidArgument indicates an absent handle, an out of range index or a malformed parameter
	ErrInvalidArgument = errors.New("Invalid argument")

	// ErrMaxFiles indicates a store capacity outside the supported range
	ErrMaxFiles = errors.New("Invalid max_files number")

	// ErrResolutions indicates an unsupported resolution code or resize box
	ErrResolutions = errors.New("Invalid resolution(s)")

	// ErrInvalidImgID indicates an empty or too long image identifier
	ErrInvalidImgID = errors.New("Invalid image ID")

	// ErrFullImgStore indicates that every slot of the store is in use
	ErrFullImgStore = errors.New("Full imgStore")

	// ErrFileNotFound indicates that no valid slot holds the requested identifier
	ErrFileNotFound = errors.New("File not found")

	// ErrNotImplemented tells that this feature has not been implemented yet
	ErrNotImplemented = errors.New("Not implemented (yet?)")

	// ErrDuplicateID indicates that a valid slot already holds the identifier
	ErrDuplicateID = errors.New("Existing image ID")

	// ErrImgLib indicates that decoding or resizing an image failed
	ErrImgLib = errors.New("Image library error")
)

// Message returns the fixed message of the kind of err.
//
// Errors which are not of a known kind are reported as I/O errors.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *errors.Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return ErrIO.Message()
}
