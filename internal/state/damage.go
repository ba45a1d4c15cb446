package state

import "image"

// Damage accumulates the part of the canvas whose live view is stale.
type Damage struct {
	rect image.Rectangle
}

// Add grows the damaged area to cover r.
func (d *Damage) Add(r image.Rectangle) {
	if r.Empty() {
		return
	}
	if d.rect.Empty() {
		d.rect = r
		return
	}
	d.rect = d.rect.Union(r)
}

// Empty reports whether nothing is damaged.
func (d *Damage) Empty() bool { return d.rect.Empty() }

// Take returns the damaged area and resets it.
func (d *Damage) Take() image.Rectangle {
	r := d.rect
	d.rect = image.Rectangle{}
	return r
}
