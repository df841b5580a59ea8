// Package frontier holds the links discovered during a crawl and their on-disk form.
package frontier

import (
	"iter"

	"octane-crawler/pkg/models"
)

// Frontier is an append-only, insertion-ordered sequence of links. Duplicates are kept.
// It is owned by a single crawl driver and is not safe for concurrent use.
type Frontier struct {
	links []models.Link
}

// New returns an empty Frontier
func New() *Frontier {
	return &Frontier{}
}

// Append records link at the end of the sequence
func (f *Frontier) Append(link models.Link) {
	f.links = append(f.links, link)
}

// Len returns the number of recorded links
func (f *Frontier) Len() int {
	return len(f.links)
}

// Links returns a copy of the recorded links in insertion order
func (f *Frontier) Links() []models.Link {
	out := make([]models.Link, len(f.links))
	copy(out, f.links)
	return out
}

// All iterates the recorded links in insertion order
func (f *Frontier) All() iter.Seq[models.Link] {
	return func(yield func(models.Link) bool) {
		for _, l := range f.links {
			if !yield(l) {
				return
			}
		}
	}
}
