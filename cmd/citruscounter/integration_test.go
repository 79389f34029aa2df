package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/citruscounter/citruscounter/internal/counting"
	"github.com/citruscounter/citruscounter/internal/imageset"
	"github.com/citruscounter/citruscounter/internal/model"
	"github.com/citruscounter/citruscounter/internal/session"
	"github.com/citruscounter/citruscounter/internal/store"
)

// writeTestImages creates four small image files and returns their paths.
func writeTestImages(t *testing.T) []string {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, 0, model.SubmissionImageCount)
	for _, name := range []string{"north.jpg", "east.jpg", "south.jpg", "west.jpg"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("jpeg-bytes-"+name), 0600); err != nil {
			t.Fatalf("failed to write test image: %v", err)
		}
		paths = append(paths, path)
	}
	return paths
}

// startCountingService starts a fake counting backend that verifies the
// multipart submission and answers with a mixed-farmer history.
func startCountingService(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/summary" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		for _, field := range []string{"image1", "image2", "image3", "image4"} {
			if files := r.MultipartForm.File[field]; len(files) != 1 {
				t.Errorf("expected exactly one file for %s, got %d", field, len(r.MultipartForm.File[field]))
			}
		}
		if phone := r.FormValue("phone"); phone != "03001234567" {
			t.Errorf("expected canonical phone, got %q", phone)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"latest_count": 120,
			"previous_history": []map[string]any{
				{"date": "2026-08-10", "citrusCount": 90, "phone": "03001234567"},
				{"date": "2026-08-15", "citrusCount": 75, "phone": "03009998877"},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

// TestCountingSessionEndToEnd drives a full counting session against a fake
// backend: collect four images, submit, build the report, and mirror the
// history into the local store.
func TestCountingSessionEndToEnd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	server := startCountingService(t)
	images := writeTestImages(t)

	db, err := store.Open(t.TempDir(), store.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	identity := model.Identity{Name: "Ahmed Khan", Phone: "03001234567"}
	if err := db.SaveIdentity(ctx, identity); err != nil {
		t.Fatalf("failed to save identity: %v", err)
	}
	if err := db.SaveFarmMetadata(ctx, model.FarmMetadata{LandSizeAcres: 5, TotalTrees: 20}); err != nil {
		t.Fatalf("failed to save farm metadata: %v", err)
	}

	client := counting.NewClient(server.URL, counting.WithTimeout(10*time.Second))
	clock := func() time.Time { return time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC) }
	sess := session.NewOrchestrator(identity, client, session.WithClock(clock))

	farm, err := db.FarmMetadata(ctx)
	if err != nil {
		t.Fatalf("failed to load farm metadata: %v", err)
	}
	if err := sess.SupplyMetadata(farm); err != nil {
		t.Fatalf("failed to supply metadata: %v", err)
	}

	picker := imageset.NewFilePicker(images, 0)
	for i := range model.SubmissionImageCount {
		ref, err := picker.PickImage(ctx, imageset.SourceGallery)
		if err != nil {
			t.Fatalf("failed to pick image %d: %v", i, err)
		}
		if err := sess.SetImage(i, ref); err != nil {
			t.Fatalf("failed to set image %d: %v", i, err)
		}
	}

	result, err := sess.Submit(ctx)
	if err != nil {
		t.Fatalf("submission failed: %v", err)
	}
	if result.LatestCount != 120 {
		t.Errorf("expected latest count 120, got %d", result.LatestCount)
	}

	rep, err := sess.BuildReport()
	if err != nil {
		t.Fatalf("failed to build report: %v", err)
	}
	if rep.CitrusCountPerAcre() != 2400 {
		t.Errorf("expected per-acre estimate 2400, got %d", rep.CitrusCountPerAcre())
	}
	if len(rep.History) != 1 || rep.History[0].Phone != identity.Phone {
		t.Errorf("expected history filtered to the logged-in farmer, got %+v", rep.History)
	}
	if sess.State() != session.StateReportReady {
		t.Errorf("expected report-ready state, got %s", sess.State())
	}

	// Persist the outcome the way the count command does.
	if err := db.SaveLastCount(ctx, result.LatestCount); err != nil {
		t.Fatalf("failed to save last count: %v", err)
	}
	if err := db.AppendCounts(ctx, rep.History); err != nil {
		t.Fatalf("failed to append counts: %v", err)
	}

	history, err := db.CountHistory(ctx, identity.Phone)
	if err != nil {
		t.Fatalf("failed to read history: %v", err)
	}
	if len(history) != 1 || history[0].CitrusCount != 90 {
		t.Errorf("unexpected mirrored history: %+v", history)
	}
	if count, err := db.LastCount(ctx); err != nil || count != 120 {
		t.Errorf("expected last count 120, got %d (err=%v)", count, err)
	}
}

// TestCountingSessionResetDuringSubmission verifies that a reset while the
// upload is in flight leaves the fresh session untouched by the stale
// result.
func TestCountingSessionResetDuringSubmission(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	entered := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(entered)
		<-release
		_ = json.NewEncoder(w).Encode(map[string]any{"latest_count": 50})
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	images := writeTestImages(t)
	identity := model.Identity{Name: "Ahmed Khan", Phone: "03001234567"}
	client := counting.NewClient(server.URL, counting.WithTimeout(10*time.Second))
	sess := session.NewOrchestrator(identity, client)

	for i, ref := range images {
		if err := sess.SetImage(i, ref); err != nil {
			t.Fatalf("failed to set image %d: %v", i, err)
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := sess.Submit(context.Background())
		done <- err
	}()

	<-entered
	sess.Reset()

	if err := <-done; err == nil {
		t.Fatal("expected the stale submission to report an error")
	}
	if sess.State() != session.StateCollecting {
		t.Errorf("expected collecting after reset, got %s", sess.State())
	}
}
