package imageset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeTestImage creates a small file standing in for an image.
func writeTestImage(t *testing.T, name string, size int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, make([]byte, size), 0o600); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

// TestFilePickerPickImage tests path validation and queue behavior.
func TestFilePickerPickImage(t *testing.T) {
	t.Parallel()

	t.Run("returns queued paths in order", func(t *testing.T) {
		t.Parallel()

		first := writeTestImage(t, "a.jpg", 64)
		second := writeTestImage(t, "b.jpg", 64)
		picker := NewFilePicker([]string{first, second}, 0)

		got, err := picker.PickImage(context.Background(), SourceCamera)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != first {
			t.Errorf("expected %s, got %s", first, got)
		}

		got, err = picker.PickImage(context.Background(), SourceGallery)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != second {
			t.Errorf("expected %s, got %s", second, got)
		}
	})

	t.Run("exhausted queue reports cancellation", func(t *testing.T) {
		t.Parallel()

		picker := NewFilePicker(nil, 0)
		if _, err := picker.PickImage(context.Background(), SourceCamera); !errors.Is(err, ErrPickCancelled) {
			t.Errorf("expected ErrPickCancelled, got %v", err)
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		t.Parallel()

		picker := NewFilePicker([]string{filepath.Join(t.TempDir(), "missing.jpg")}, 0)
		if _, err := picker.PickImage(context.Background(), SourceCamera); !errors.Is(err, ErrImageNotFound) {
			t.Errorf("expected ErrImageNotFound, got %v", err)
		}
	})

	t.Run("directory fails", func(t *testing.T) {
		t.Parallel()

		picker := NewFilePicker([]string{t.TempDir()}, 0)
		if _, err := picker.PickImage(context.Background(), SourceCamera); !errors.Is(err, ErrImageNotFound) {
			t.Errorf("expected ErrImageNotFound, got %v", err)
		}
	})

	t.Run("oversized file fails", func(t *testing.T) {
		t.Parallel()

		path := writeTestImage(t, "big.jpg", 1024)
		picker := NewFilePicker([]string{path}, 512)
		if _, err := picker.PickImage(context.Background(), SourceCamera); !errors.Is(err, ErrImageTooLarge) {
			t.Errorf("expected ErrImageTooLarge, got %v", err)
		}
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		picker := NewFilePicker([]string{writeTestImage(t, "a.jpg", 64)}, 0)
		if _, err := picker.PickImage(ctx, SourceCamera); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// TestInspectorInspect tests EXIF inspection over manager slots.
func TestInspectorInspect(t *testing.T) {
	t.Parallel()

	t.Run("non-EXIF files report HasEXIF false", func(t *testing.T) {
		t.Parallel()

		m := NewManager()
		for i := range SlotCount {
			if err := m.SetSlot(i, writeTestImage(t, "plain.jpg", 256)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		infos, err := NewInspector(0).Inspect(context.Background(), m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(infos) != SlotCount {
			t.Fatalf("expected %d results, got %d", SlotCount, len(infos))
		}
		for _, info := range infos {
			if info.HasEXIF {
				t.Errorf("slot %d: expected no EXIF data", info.SlotIndex)
			}
			if !info.CaptureTime.IsZero() {
				t.Errorf("slot %d: expected zero capture time, got %v", info.SlotIndex, info.CaptureTime)
			}
		}
	})

	t.Run("results are in slot order", func(t *testing.T) {
		t.Parallel()

		m := NewManager()
		for _, i := range []int{3, 0, 2, 1} {
			if err := m.SetSlot(i, writeTestImage(t, "plain.jpg", 64)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		infos, err := NewInspector(0).Inspect(context.Background(), m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, info := range infos {
			if info.SlotIndex != i {
				t.Errorf("expected slot %d at position %d, got %d", i, i, info.SlotIndex)
			}
		}
	})

	t.Run("empty slots are skipped", func(t *testing.T) {
		t.Parallel()

		m := NewManager()
		if err := m.SetSlot(1, writeTestImage(t, "plain.jpg", 64)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		infos, err := NewInspector(0).Inspect(context.Background(), m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(infos) != 1 || infos[0].SlotIndex != 1 {
			t.Errorf("expected a single result for slot 1, got %+v", infos)
		}
	})

	t.Run("unreadable file fails", func(t *testing.T) {
		t.Parallel()

		m := NewManager()
		if err := m.SetSlot(0, filepath.Join(t.TempDir(), "gone.jpg")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := NewInspector(0).Inspect(context.Background(), m); err == nil {
			t.Error("expected error for unreadable file")
		}
	})
}

// TestCaptureInfoApplyTag tests the folding of flattened EXIF entries.
func TestCaptureInfoApplyTag(t *testing.T) {
	t.Parallel()

	t.Run("timestamp is parsed as a time", func(t *testing.T) {
		t.Parallel()

		info := &CaptureInfo{}
		rank := timeTagRank("")
		info.applyTag("DateTimeOriginal", "2024:05:17 09:30:00", &rank)

		want := time.Date(2024, time.May, 17, 9, 30, 0, 0, time.Local)
		if !info.CaptureTime.Equal(want) {
			t.Errorf("expected %v, got %v", want, info.CaptureTime)
		}
	})

	t.Run("DateTimeOriginal wins over DateTime", func(t *testing.T) {
		t.Parallel()

		info := &CaptureInfo{}
		rank := timeTagRank("")
		info.applyTag("DateTime", "2024:06:01 12:00:00", &rank)
		info.applyTag("DateTimeOriginal", "2024:05:17 09:30:00", &rank)
		info.applyTag("DateTimeDigitized", "2024:06:02 18:00:00", &rank)

		want := time.Date(2024, time.May, 17, 9, 30, 0, 0, time.Local)
		if !info.CaptureTime.Equal(want) {
			t.Errorf("expected DateTimeOriginal %v to win, got %v", want, info.CaptureTime)
		}
	})

	t.Run("malformed timestamp leaves zero time", func(t *testing.T) {
		t.Parallel()

		info := &CaptureInfo{}
		rank := timeTagRank("")
		info.applyTag("DateTimeOriginal", "last tuesday", &rank)

		if !info.CaptureTime.IsZero() {
			t.Errorf("expected zero capture time, got %v", info.CaptureTime)
		}
	})

	t.Run("camera and GPS tags", func(t *testing.T) {
		t.Parallel()

		info := &CaptureInfo{}
		rank := timeTagRank("")
		info.applyTag("Make", "Tecno", &rank)
		info.applyTag("Model", "Spark 10", &rank)
		info.applyTag("GPSLatitude", "31.5", &rank)

		if info.CameraMake != "Tecno" || info.CameraModel != "Spark 10" {
			t.Errorf("unexpected camera fields: %+v", info)
		}
		if !info.HasGPS {
			t.Error("expected HasGPS")
		}
	})
}
