package imageset

import (
	"errors"
	"testing"
)

// TestManagerSetSlot tests slot assignment rules.
func TestManagerSetSlot(t *testing.T) {
	t.Parallel()

	t.Run("fills a slot", func(t *testing.T) {
		t.Parallel()

		m := NewManager()
		if err := m.SetSlot(0, "tree1.jpg"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := m.Slots()[0].Ref; got != "tree1.jpg" {
			t.Errorf("expected tree1.jpg, got %s", got)
		}
	})

	t.Run("replaces a filled slot", func(t *testing.T) {
		t.Parallel()

		m := NewManager()
		if err := m.SetSlot(2, "old.jpg"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := m.SetSlot(2, "new.jpg"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := m.Slots()[2].Ref; got != "new.jpg" {
			t.Errorf("expected replacement to win, got %s", got)
		}
	})

	t.Run("rejects out-of-range indices", func(t *testing.T) {
		t.Parallel()

		m := NewManager()
		for _, index := range []int{-1, SlotCount, 99} {
			if err := m.SetSlot(index, "tree.jpg"); !errors.Is(err, ErrSlotOutOfRange) {
				t.Errorf("index %d: expected ErrSlotOutOfRange, got %v", index, err)
			}
		}
	})

	t.Run("rejects empty references", func(t *testing.T) {
		t.Parallel()

		m := NewManager()
		if err := m.SetSlot(0, ""); !errors.Is(err, ErrEmptyRef) {
			t.Errorf("expected ErrEmptyRef, got %v", err)
		}
	})
}

// TestManagerIsComplete tests the completeness property: IsComplete is true
// iff all four indices have been set at least once since the last Reset.
func TestManagerIsComplete(t *testing.T) {
	t.Parallel()

	t.Run("fresh manager is incomplete", func(t *testing.T) {
		t.Parallel()

		if NewManager().IsComplete() {
			t.Error("fresh manager should not be complete")
		}
	})

	t.Run("partial fills are incomplete", func(t *testing.T) {
		t.Parallel()

		m := NewManager()
		for i := range SlotCount - 1 {
			if err := m.SetSlot(i, "tree.jpg"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.IsComplete() {
				t.Errorf("manager complete after only %d slots", i+1)
			}
		}
	})

	t.Run("all slots filled is complete regardless of order", func(t *testing.T) {
		t.Parallel()

		m := NewManager()
		for _, i := range []int{3, 1, 0, 2} {
			if err := m.SetSlot(i, "tree.jpg"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if !m.IsComplete() {
			t.Error("expected complete manager")
		}
	})

	t.Run("repeated sets of one slot do not complete the set", func(t *testing.T) {
		t.Parallel()

		m := NewManager()
		for range SlotCount {
			if err := m.SetSlot(0, "tree.jpg"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if m.IsComplete() {
			t.Error("four sets of slot 0 should not complete the set")
		}
	})

	t.Run("reset returns to incomplete", func(t *testing.T) {
		t.Parallel()

		m := NewManager()
		for i := range SlotCount {
			if err := m.SetSlot(i, "tree.jpg"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		m.Reset()
		if m.IsComplete() {
			t.Error("reset manager should not be complete")
		}
		if got := len(m.EmptySlots()); got != SlotCount {
			t.Errorf("expected %d empty slots after reset, got %d", SlotCount, got)
		}
	})
}

// TestManagerEmptySlots tests empty slot reporting.
func TestManagerEmptySlots(t *testing.T) {
	t.Parallel()

	m := NewManager()
	if err := m.SetSlot(1, "tree.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetSlot(3, "tree.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := m.EmptySlots()
	if len(empty) != 2 || empty[0] != 0 || empty[1] != 2 {
		t.Errorf("expected empty slots [0 2], got %v", empty)
	}
}

// TestManagerSlotsIsCopy tests that Slots returns an independent copy.
func TestManagerSlotsIsCopy(t *testing.T) {
	t.Parallel()

	m := NewManager()
	if err := m.SetSlot(0, "tree.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slots := m.Slots()
	slots[0].Ref = "mutated.jpg"

	if got := m.Slots()[0].Ref; got != "tree.jpg" {
		t.Errorf("manager state mutated through Slots copy: %s", got)
	}
}
