package history

import (
	"reflect"
	"testing"

	"github.com/citruscounter/citruscounter/internal/model"
)

// TestFilterForIdentity tests that only the matching farmer's rows survive.
func TestFilterForIdentity(t *testing.T) {
	t.Parallel()

	identity := model.Identity{Name: "Ahmed Khan", Phone: "03001234567"}

	t.Run("keeps matching entries in server order", func(t *testing.T) {
		t.Parallel()

		result := &model.CountingResult{
			LatestCount: 120,
			History: []model.CountEntry{
				{Date: "2026-08-01", CitrusCount: 90, Phone: "03001234567"},
				{Date: "2026-08-02", CitrusCount: 75, Phone: "03009998877"},
				{Date: "2026-08-10", CitrusCount: 120, Phone: "03001234567"},
			},
		}

		got := FilterForIdentity(result, identity)
		want := []model.CountEntry{
			{Date: "2026-08-01", CitrusCount: 90, Phone: "03001234567"},
			{Date: "2026-08-10", CitrusCount: 120, Phone: "03001234567"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("no matches yields empty non-nil slice", func(t *testing.T) {
		t.Parallel()

		result := &model.CountingResult{
			LatestCount: 42,
			History: []model.CountEntry{
				{Date: "2026-08-02", CitrusCount: 75, Phone: "03009998877"},
			},
		}

		got := FilterForIdentity(result, identity)
		if got == nil {
			t.Fatal("expected non-nil slice")
		}
		if len(got) != 0 {
			t.Errorf("expected empty slice, got %+v", got)
		}
	})

	t.Run("nil result yields empty non-nil slice", func(t *testing.T) {
		t.Parallel()

		got := FilterForIdentity(nil, identity)
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %+v", got)
		}
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		t.Parallel()

		history := []model.CountEntry{
			{Date: "2026-08-01", CitrusCount: 90, Phone: "03001234567"},
			{Date: "2026-08-02", CitrusCount: 75, Phone: "03009998877"},
		}
		result := &model.CountingResult{LatestCount: 90, History: history}
		before := make([]model.CountEntry, len(history))
		copy(before, history)

		_ = FilterForIdentity(result, identity)

		if !reflect.DeepEqual(result.History, before) {
			t.Errorf("input history mutated: %+v", result.History)
		}
	})
}

// TestLatestEntry tests that the newest matching row is picked.
func TestLatestEntry(t *testing.T) {
	t.Parallel()

	identity := model.Identity{Name: "Ahmed Khan", Phone: "03001234567"}

	t.Run("returns the last matching entry", func(t *testing.T) {
		t.Parallel()

		result := &model.CountingResult{
			History: []model.CountEntry{
				{Date: "2026-08-01", CitrusCount: 90, Phone: "03001234567"},
				{Date: "2026-08-10", CitrusCount: 120, Phone: "03001234567"},
				{Date: "2026-08-11", CitrusCount: 33, Phone: "03009998877"},
			},
		}

		entry, ok := LatestEntry(result, identity)
		if !ok {
			t.Fatal("expected a matching entry")
		}
		if entry.CitrusCount != 120 || entry.Date != "2026-08-10" {
			t.Errorf("unexpected entry: %+v", entry)
		}
	})

	t.Run("reports false when nothing matches", func(t *testing.T) {
		t.Parallel()

		if _, ok := LatestEntry(&model.CountingResult{}, identity); ok {
			t.Error("expected no match")
		}
	})
}
