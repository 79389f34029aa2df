package imageset

import (
	"context"
	"fmt"
	"os"
)

// Source identifies where an image is picked from.
type Source string

const (
	// SourceCamera requests a freshly captured image.
	SourceCamera Source = "camera"
	// SourceGallery requests an existing image from the device gallery.
	SourceGallery Source = "gallery"
)

// Picker abstracts image selection. Implementations return an image
// reference, or ErrPickCancelled when the user aborts; cancellation must
// leave the targeted slot unchanged (the Manager never sees it).
type Picker interface {
	// PickImage returns a reference to a selected image.
	PickImage(ctx context.Context, source Source) (string, error)
}

// FilePicker resolves image references against the local filesystem. It is
// the CLI's picker: the "camera" and "gallery" distinction collapses to
// file paths supplied as arguments.
//
// Design decision: FilePicker validates existence and size at pick time
// rather than leaving it to the upload. A counting request uploads four
// images in one multipart body, so discovering a bad path mid-upload would
// waste the other three transfers.
type FilePicker struct {
	// paths is the queue of candidate file paths, consumed in order.
	paths []string

	// maxSize is the maximum accepted file size in bytes. Zero disables
	// the check.
	maxSize int64
}

// NewFilePicker creates a FilePicker that hands out the given paths in order.
func NewFilePicker(paths []string, maxSize int64) *FilePicker {
	return &FilePicker{paths: paths, maxSize: maxSize}
}

// PickImage returns the next queued path after validating it.
// An exhausted queue reports ErrPickCancelled, mirroring a user dismissing
// the picker without choosing.
func (p *FilePicker) PickImage(ctx context.Context, _ Source) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(p.paths) == 0 {
		return "", ErrPickCancelled
	}

	path := p.paths[0]
	p.paths = p.paths[1:]

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrImageNotFound, path)
	}
	if p.maxSize > 0 && info.Size() > p.maxSize {
		return "", fmt.Errorf("%w: %s (%d bytes)", ErrImageTooLarge, path, info.Size())
	}

	return path, nil
}
