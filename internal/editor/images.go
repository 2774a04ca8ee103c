// internal/editor/images.go
package editor

import "fmt"

// ExistingImage seeds an ImageSet with a persisted product image.
type ExistingImage struct {
	ID        uint
	URL       string
	IsPrimary bool
}

type existingEntry struct {
	id      uint
	url     string
	primary bool
}

type newEntry struct {
	preview *PreviewHandle
	primary bool
}

// ImageSet tracks the images of a product while it is being edited: the
// persisted ones, the newly picked previews, and which ids were removed.
// At most one entry across both lists is primary at any time.
type ImageSet struct {
	existing []*existingEntry
	added    []*newEntry
	removed  []uint
}

// NewImageSet builds the editing state from the persisted images. If none of
// them is flagged primary the first one becomes primary, restoring the
// single-primary invariant the store does not enforce.
func NewImageSet(images []ExistingImage) *ImageSet {
	s := &ImageSet{}
	for _, img := range images {
		s.existing = append(s.existing, &existingEntry{id: img.ID, url: img.URL, primary: img.IsPrimary})
	}

	if len(s.existing) > 0 && !s.hasPrimary() {
		s.existing[0].primary = true
	}
	return s
}

// Add appends a newly picked preview. The first image to enter an empty set
// becomes primary.
func (s *ImageSet) Add(preview *PreviewHandle) {
	entry := &newEntry{preview: preview}
	if !s.hasPrimary() {
		entry.primary = true
	}
	s.added = append(s.added, entry)
}

// SetPrimaryExisting marks the persisted image id as primary, clearing any
// previous selection.
func (s *ImageSet) SetPrimaryExisting(id uint) error {
	entry := s.findExisting(id)
	if entry == nil {
		return fmt.Errorf("image %d is not part of this set", id)
	}

	s.clearPrimary()
	entry.primary = true
	return nil
}

// SetPrimaryNew marks the index-th newly added image as primary, clearing
// any previous selection.
func (s *ImageSet) SetPrimaryNew(index int) error {
	if index < 0 || index >= len(s.added) {
		return fmt.Errorf("new image index %d is out of range", index)
	}

	s.clearPrimary()
	s.added[index].primary = true
	return nil
}

// RemoveExisting drops a persisted image from the set and records its id for
// deletion. If it was the primary image, the first remaining image takes
// over; an emptied set is left with no primary.
func (s *ImageSet) RemoveExisting(id uint) error {
	for i, entry := range s.existing {
		if entry.id != id {
			continue
		}

		wasPrimary := entry.primary
		s.existing = append(s.existing[:i], s.existing[i+1:]...)
		s.removed = append(s.removed, id)
		if wasPrimary {
			s.fallbackPrimary()
		}
		return nil
	}
	return fmt.Errorf("image %d is not part of this set", id)
}

// RemoveNew drops a newly added image and releases its preview.
func (s *ImageSet) RemoveNew(index int) error {
	if index < 0 || index >= len(s.added) {
		return fmt.Errorf("new image index %d is out of range", index)
	}

	entry := s.added[index]
	wasPrimary := entry.primary
	s.added = append(s.added[:index], s.added[index+1:]...)
	entry.preview.Release()
	if wasPrimary {
		s.fallbackPrimary()
	}
	return nil
}

// Len reports how many images remain in the set.
func (s *ImageSet) Len() int {
	return len(s.existing) + len(s.added)
}

// HasPrimary reports whether any image is currently flagged primary.
func (s *ImageSet) HasPrimary() bool {
	return s.hasPrimary()
}

// ImagePlan is everything the persistence side needs to reconcile stored
// state: which existing ids to delete, which previews to upload, and which
// image ends up primary (an existing id or a positional index among the new
// ones, never both).
type ImagePlan struct {
	RemovedIDs        []uint
	NewPreviews       []*PreviewHandle
	PrimaryExistingID *uint
	PrimaryNewIndex   *int
}

// Plan emits the reconciliation plan for the current state.
func (s *ImageSet) Plan() ImagePlan {
	plan := ImagePlan{RemovedIDs: append([]uint(nil), s.removed...)}
	for _, entry := range s.added {
		plan.NewPreviews = append(plan.NewPreviews, entry.preview)
	}

	for _, entry := range s.existing {
		if entry.primary {
			id := entry.id
			plan.PrimaryExistingID = &id
			return plan
		}
	}
	for i, entry := range s.added {
		if entry.primary {
			index := i
			plan.PrimaryNewIndex = &index
			return plan
		}
	}
	return plan
}

// Close releases every preview still held by the set. Call it on teardown
// or after the plan has been applied.
func (s *ImageSet) Close() {
	for _, entry := range s.added {
		entry.preview.Release()
	}
}

func (s *ImageSet) findExisting(id uint) *existingEntry {
	for _, entry := range s.existing {
		if entry.id == id {
			return entry
		}
	}
	return nil
}

func (s *ImageSet) hasPrimary() bool {
	for _, entry := range s.existing {
		if entry.primary {
			return true
		}
	}
	for _, entry := range s.added {
		if entry.primary {
			return true
		}
	}
	return false
}

func (s *ImageSet) clearPrimary() {
	for _, entry := range s.existing {
		entry.primary = false
	}
	for _, entry := range s.added {
		entry.primary = false
	}
}

func (s *ImageSet) fallbackPrimary() {
	if len(s.existing) > 0 {
		s.existing[0].primary = true
		return
	}
	if len(s.added) > 0 {
		s.added[0].primary = true
	}
}
