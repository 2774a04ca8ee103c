// internal/editor/images_test.go
package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPreview(url string) (*PreviewHandle, *int) {
	releases := 0
	return NewPreviewHandle(url, func() { releases++ }), &releases
}

func TestPreviewReleaseIsIdempotent(t *testing.T) {
	preview, releases := newTestPreview("tmp/a")

	assert.False(t, preview.Released())
	preview.Release()
	preview.Release()

	assert.True(t, preview.Released())
	assert.Equal(t, 1, *releases)
	assert.Equal(t, "tmp/a", preview.URL())
}

func TestNewImageSetRestoresSinglePrimary(t *testing.T) {
	set := NewImageSet([]ExistingImage{
		{ID: 1, URL: "a"},
		{ID: 2, URL: "b"},
	})

	plan := set.Plan()
	assert.NotNil(t, plan.PrimaryExistingID)
	assert.Equal(t, uint(1), *plan.PrimaryExistingID)
	assert.Nil(t, plan.PrimaryNewIndex)
}

func TestSetPrimaryHasRadioSemantics(t *testing.T) {
	set := NewImageSet([]ExistingImage{
		{ID: 1, URL: "a", IsPrimary: true},
		{ID: 2, URL: "b"},
	})
	preview, _ := newTestPreview("tmp/new")
	set.Add(preview)

	assert.NoError(t, set.SetPrimaryNew(0))
	plan := set.Plan()
	assert.Nil(t, plan.PrimaryExistingID)
	assert.NotNil(t, plan.PrimaryNewIndex)
	assert.Equal(t, 0, *plan.PrimaryNewIndex)

	assert.NoError(t, set.SetPrimaryExisting(2))
	plan = set.Plan()
	assert.NotNil(t, plan.PrimaryExistingID)
	assert.Equal(t, uint(2), *plan.PrimaryExistingID)
	assert.Nil(t, plan.PrimaryNewIndex)
}

func TestSetPrimaryRejectsUnknownTargets(t *testing.T) {
	set := NewImageSet([]ExistingImage{{ID: 1, URL: "a", IsPrimary: true}})

	assert.Error(t, set.SetPrimaryExisting(99))
	assert.Error(t, set.SetPrimaryNew(0))
}

func TestRemovingPrimaryFallsBackToFirstRemaining(t *testing.T) {
	set := NewImageSet([]ExistingImage{
		{ID: 1, URL: "a", IsPrimary: true},
		{ID: 2, URL: "b"},
		{ID: 3, URL: "c"},
	})

	assert.NoError(t, set.RemoveExisting(1))

	plan := set.Plan()
	assert.Equal(t, []uint{1}, plan.RemovedIDs)
	assert.NotNil(t, plan.PrimaryExistingID)
	assert.Equal(t, uint(2), *plan.PrimaryExistingID)
}

func TestRemovingEveryImageLeavesNoPrimary(t *testing.T) {
	set := NewImageSet([]ExistingImage{
		{ID: 1, URL: "a", IsPrimary: true},
		{ID: 2, URL: "b"},
	})

	assert.NoError(t, set.RemoveExisting(1))
	assert.NoError(t, set.RemoveExisting(2))

	assert.Equal(t, 0, set.Len())
	assert.False(t, set.HasPrimary())

	plan := set.Plan()
	assert.ElementsMatch(t, []uint{1, 2}, plan.RemovedIDs)
	assert.Nil(t, plan.PrimaryExistingID)
	assert.Nil(t, plan.PrimaryNewIndex)
}

func TestRemoveNewReleasesPreviewAndFallsBack(t *testing.T) {
	set := NewImageSet(nil)
	first, firstReleases := newTestPreview("tmp/a")
	second, secondReleases := newTestPreview("tmp/b")
	set.Add(first)
	set.Add(second)

	// First added image became primary on entering the empty set.
	assert.NoError(t, set.RemoveNew(0))

	assert.Equal(t, 1, *firstReleases)
	assert.Equal(t, 0, *secondReleases)

	plan := set.Plan()
	assert.NotNil(t, plan.PrimaryNewIndex)
	assert.Equal(t, 0, *plan.PrimaryNewIndex)
	assert.Len(t, plan.NewPreviews, 1)
	assert.Equal(t, second, plan.NewPreviews[0])
}

func TestCloseReleasesAllPreviews(t *testing.T) {
	set := NewImageSet(nil)
	first, firstReleases := newTestPreview("tmp/a")
	second, secondReleases := newTestPreview("tmp/b")
	set.Add(first)
	set.Add(second)

	set.Close()

	assert.Equal(t, 1, *firstReleases)
	assert.Equal(t, 1, *secondReleases)
}

func TestThreeUploadsWithSecondPrimary(t *testing.T) {
	set := NewImageSet(nil)
	for _, url := range []string{"tmp/a", "tmp/b", "tmp/c"} {
		preview, _ := newTestPreview(url)
		set.Add(preview)
	}

	assert.NoError(t, set.SetPrimaryNew(1))

	plan := set.Plan()
	assert.Len(t, plan.NewPreviews, 3)
	assert.NotNil(t, plan.PrimaryNewIndex)
	assert.Equal(t, 1, *plan.PrimaryNewIndex)
	assert.Nil(t, plan.PrimaryExistingID)
}
