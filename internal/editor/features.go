// internal/editor/features.go
package editor

import "fmt"

// ImageRef points a feature row at either a persisted image URL or a newly
// picked preview. A zero ImageRef means the row has no image yet.
type ImageRef struct {
	URL     string
	Preview *PreviewHandle
}

func (r ImageRef) IsZero() bool {
	return r.URL == "" && r.Preview == nil
}

func (r ImageRef) release() {
	if r.Preview != nil {
		r.Preview.Release()
	}
}

type featureRow struct {
	id          *uint
	title       string
	description string
	image       ImageRef
}

// ExistingFeature seeds a FeatureForm with a persisted feature row.
type ExistingFeature struct {
	ID          uint
	ImageURL    string
	Title       string
	Description string
}

// FeatureForm tracks an ordered, addable/removable list of feature rows
// while a product is being edited. Rows are edited independently; incomplete
// rows are dropped at submission, never blocking the rest of the form.
type FeatureForm struct {
	rows []*featureRow

	// defaultImage pre-fills newly added rows, mirroring the first
	// available product image.
	defaultImage string
}

func NewFeatureForm(features []ExistingFeature, defaultImage string) *FeatureForm {
	f := &FeatureForm{defaultImage: defaultImage}
	for _, feat := range features {
		id := feat.ID
		f.rows = append(f.rows, &featureRow{
			id:          &id,
			title:       feat.Title,
			description: feat.Description,
			image:       ImageRef{URL: feat.ImageURL},
		})
	}
	return f
}

// AddRow appends an empty row, pre-filled with the default image when one
// is available.
func (f *FeatureForm) AddRow() {
	f.rows = append(f.rows, &featureRow{image: ImageRef{URL: f.defaultImage}})
}

// RemoveRow deletes the index-th row, releasing its preview if it held one.
// Remaining rows shift down.
func (f *FeatureForm) RemoveRow(index int) error {
	if index < 0 || index >= len(f.rows) {
		return fmt.Errorf("feature row %d is out of range", index)
	}

	f.rows[index].image.release()
	f.rows = append(f.rows[:index], f.rows[index+1:]...)
	return nil
}

func (f *FeatureForm) SetTitle(index int, title string) error {
	row, err := f.row(index)
	if err != nil {
		return err
	}
	row.title = title
	return nil
}

func (f *FeatureForm) SetDescription(index int, description string) error {
	row, err := f.row(index)
	if err != nil {
		return err
	}
	row.description = description
	return nil
}

// SetImage points a row at a new image reference. A preview the row held
// before is released since nothing can reach it through the form anymore.
func (f *FeatureForm) SetImage(index int, image ImageRef) error {
	row, err := f.row(index)
	if err != nil {
		return err
	}

	row.image.release()
	row.image = image
	return nil
}

func (f *FeatureForm) Len() int {
	return len(f.rows)
}

// FeatureEntry is one submittable feature row. Order is the row's position
// in the form at submission time, so surviving rows keep their relative
// order even when incomplete rows between them were dropped.
type FeatureEntry struct {
	ID          *uint
	Image       ImageRef
	Title       string
	Description string
	Order       int
}

// Submit filters the rows down to the submittable ones: a row needs both a
// title and an image reference. Previews held by dropped rows are released.
func (f *FeatureForm) Submit() []FeatureEntry {
	var entries []FeatureEntry
	for i, row := range f.rows {
		if row.title == "" || row.image.IsZero() {
			row.image.release()
			continue
		}
		entries = append(entries, FeatureEntry{
			ID:          row.id,
			Image:       row.image,
			Title:       row.title,
			Description: row.description,
			Order:       i,
		})
	}
	return entries
}

// Close releases every preview still held by the form.
func (f *FeatureForm) Close() {
	for _, row := range f.rows {
		row.image.release()
	}
}

func (f *FeatureForm) row(index int) (*featureRow, error) {
	if index < 0 || index >= len(f.rows) {
		return nil, fmt.Errorf("feature row %d is out of range", index)
	}
	return f.rows[index], nil
}
