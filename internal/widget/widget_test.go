package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

func TestGalleryWrapsAtBoundaries(t *testing.T) {
	images := []string{"a.jpg", "b.jpg", "c.jpg"}

	last := NewGallery(images, 2)
	assert.Equal(t, 0, last.Next().Index, "next from last wraps to first")

	first := NewGallery(images, 0)
	assert.Equal(t, 2, first.Prev().Index, "prev from first wraps to last")

	assert.Equal(t, "b.jpg", first.Next().Current())
	assert.Equal(t, 1, first.NextIndex())
	assert.Equal(t, 2, first.PrevIndex())
}

func TestGalleryNormalisesIndex(t *testing.T) {
	images := []string{"a.jpg", "b.jpg", "c.jpg"}
	assert.Equal(t, 1, NewGallery(images, 4).Index)
	assert.Equal(t, 2, NewGallery(images, -1).Index)
	assert.Equal(t, 3, NewGallery(images, 2).Position())
}

func TestEmptyGallery(t *testing.T) {
	g := NewGallery(nil, 5)
	assert.Equal(t, 0, g.Index)
	assert.Equal(t, "", g.Current())
	assert.Equal(t, 0, g.Next().Index)
	assert.Equal(t, 0, g.Prev().Index)
	assert.Equal(t, 0, g.Position())
	assert.Empty(t, g.Thumbs())
}

func TestGalleryThumbs(t *testing.T) {
	thumbs := NewGallery([]string{"a", "b"}, 1).Thumbs()
	require.Len(t, thumbs, 2)
	assert.False(t, thumbs[0].Selected)
	assert.True(t, thumbs[1].Selected)
}

func days(n int) []models.ItineraryDay {
	out := make([]models.ItineraryDay, n)
	for i := range out {
		out[i] = models.ItineraryDay{Day: i + 1}
	}
	return out
}

func TestItineraryInitialStateOpensFirstDay(t *testing.T) {
	it := NewItinerary(days(4))
	assert.Equal(t, []bool{true, false, false, false}, it.Expanded)
	assert.False(t, it.AllExpanded())
	assert.Equal(t, "0", it.Encode())
}

func TestItineraryToggleAll(t *testing.T) {
	it := NewItinerary(days(4))

	expanded := it.ToggleAll()
	assert.Equal(t, []bool{true, true, true, true}, expanded.Expanded)
	assert.True(t, expanded.AllExpanded())

	collapsed := expanded.ToggleAll()
	assert.Equal(t, []bool{false, false, false, false}, collapsed.Expanded)

	// the receiver is never mutated
	assert.Equal(t, []bool{true, false, false, false}, it.Expanded)
}

func TestItineraryToggleOne(t *testing.T) {
	it := NewItinerary(days(3)).Toggle(2)
	assert.Equal(t, []int{0, 2}, it.OpenIndexes())
	assert.Equal(t, "0,2", it.Encode())

	it = it.Toggle(0).Toggle(2)
	assert.Equal(t, "none", it.Encode())
	assert.Equal(t, it, it.Toggle(7))
}

func TestItineraryFromQuery(t *testing.T) {
	d := days(4)

	assert.Equal(t, NewItinerary(d), ItineraryFromQuery(d, "", ""))
	assert.True(t, ItineraryFromQuery(d, "", "expand").AllExpanded())
	assert.Empty(t, ItineraryFromQuery(d, "0,1", "collapse").OpenIndexes())
	assert.Equal(t, []int{1, 3}, ItineraryFromQuery(d, "3, 1,9,x", "").OpenIndexes())
	assert.Empty(t, ItineraryFromQuery(d, "none", "").OpenIndexes())
}

func TestItineraryViews(t *testing.T) {
	views := NewItinerary(days(2)).Views()
	require.Len(t, views, 2)
	assert.True(t, views[0].Expanded)
	assert.Equal(t, "none", views[0].ToggleOpen)
	assert.Equal(t, "0,1", views[1].ToggleOpen)
}

func TestEmptyItinerary(t *testing.T) {
	it := NewItinerary(nil)
	assert.False(t, it.AllExpanded())
	assert.Empty(t, it.ToggleAll().Expanded)
}

func TestPackageTabs(t *testing.T) {
	tabs := PackageTabs([]string{"Breakfast"}, []string{"Flights"}, nil, "EXCLUSIONS")
	assert.Equal(t, "exclusions", tabs.Active)
	assert.Equal(t, []string{"Flights"}, tabs.Current().Items)

	assert.Equal(t, "inclusions", PackageTabs(nil, nil, nil, "bogus").Active)
	assert.Equal(t, Tabs{}, NewTabs(nil, "x"))
}
