package imageset

// SlotCount is the fixed number of image slots in every counting session.
const SlotCount = 4

// Slot is one position in the image collection. A zero Ref means the slot
// is still empty.
type Slot struct {
	// Ref is the image reference (a local file path or URI), or "" while
	// the slot is empty.
	Ref string
}

// Filled reports whether the slot holds an image reference.
func (s Slot) Filled() bool {
	return s.Ref != ""
}

// Manager enforces the fixed-cardinality image collection contract.
// Exactly SlotCount slots always exist. A slot transitions empty→filled
// through SetSlot, filled→filled replacement is allowed, and only Reset
// returns slots to empty.
//
// The Manager performs in-memory mutation only; it does not touch the
// filesystem or the network. Image capture is delegated to a Picker.
// It is not safe for concurrent use; a session drives it from one logical
// control flow.
type Manager struct {
	slots [SlotCount]Slot
}

// NewManager creates a Manager with all slots empty.
func NewManager() *Manager {
	return &Manager{}
}

// SetSlot assigns an image reference to the slot at index.
// Index must be within [0, SlotCount); the reference must be non-empty.
// Assigning over a filled slot replaces its reference.
func (m *Manager) SetSlot(index int, ref string) error {
	if index < 0 || index >= SlotCount {
		return ErrSlotOutOfRange
	}
	if ref == "" {
		return ErrEmptyRef
	}
	m.slots[index] = Slot{Ref: ref}
	return nil
}

// Slots returns a copy of the current slot sequence. The copy always has
// SlotCount elements; callers cannot mutate the Manager through it.
func (m *Manager) Slots() []Slot {
	out := make([]Slot, SlotCount)
	copy(out, m.slots[:])
	return out
}

// Refs returns the image references of the filled slots, in slot order.
func (m *Manager) Refs() []string {
	refs := make([]string, 0, SlotCount)
	for _, slot := range m.slots {
		if slot.Filled() {
			refs = append(refs, slot.Ref)
		}
	}
	return refs
}

// IsComplete reports whether every slot is filled.
func (m *Manager) IsComplete() bool {
	for _, slot := range m.slots {
		if !slot.Filled() {
			return false
		}
	}
	return true
}

// EmptySlots returns the indices of slots that are still empty, in order.
// The CLI uses this to tell the user exactly which positions are missing.
func (m *Manager) EmptySlots() []int {
	empty := make([]int, 0, SlotCount)
	for i, slot := range m.slots {
		if !slot.Filled() {
			empty = append(empty, i)
		}
	}
	return empty
}

// Reset empties every slot. This is the only way a filled slot becomes
// empty again.
func (m *Manager) Reset() {
	m.slots = [SlotCount]Slot{}
}
