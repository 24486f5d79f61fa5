// Package widget holds the view state of the package detail widgets. The
// state round-trips through query parameters, so every type can be rebuilt
// from a URL and rendered into links for the next interaction.
package widget

// Gallery tracks the current image of a package gallery.
type Gallery struct {
	Images []string
	Index  int
}

// NewGallery normalises index into range; an empty gallery stays at 0.
func NewGallery(images []string, index int) Gallery {
	g := Gallery{Images: images}
	g.Index = g.wrap(index)
	return g
}

func (g Gallery) wrap(i int) int {
	n := len(g.Images)
	if n == 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Len is the number of images.
func (g Gallery) Len() int { return len(g.Images) }

// Current returns the selected image, or "" for an empty gallery.
func (g Gallery) Current() string {
	if len(g.Images) == 0 {
		return ""
	}
	return g.Images[g.Index]
}

// Next moves forward, wrapping from the last image to the first.
func (g Gallery) Next() Gallery {
	g.Index = g.NextIndex()
	return g
}

// Prev moves back, wrapping from the first image to the last.
func (g Gallery) Prev() Gallery {
	g.Index = g.PrevIndex()
	return g
}

func (g Gallery) NextIndex() int { return g.wrap(g.Index + 1) }
func (g Gallery) PrevIndex() int { return g.wrap(g.Index - 1) }

// Position is the 1-based index shown as "3 / 5".
func (g Gallery) Position() int {
	if len(g.Images) == 0 {
		return 0
	}
	return g.Index + 1
}

// Thumb is one thumbnail with its selection state.
type Thumb struct {
	Index    int
	Image    string
	Selected bool
}

func (g Gallery) Thumbs() []Thumb {
	thumbs := make([]Thumb, len(g.Images))
	for i, img := range g.Images {
		thumbs[i] = Thumb{Index: i, Image: img, Selected: i == g.Index}
	}
	return thumbs
}
