package router

// Dedup is a bounded insertion-ordered set of previously seen identifiers.
// When the cap is exceeded the oldest half is discarded; the newest entries
// are the ones duplicate re-delivery is most likely to hit.
type Dedup struct {
	cap   int
	order []string
	seen  map[string]struct{}
}

// NewDedup creates a set that holds at most capacity identifiers.
func NewDedup(capacity int) *Dedup {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Dedup{
		cap:  capacity,
		seen: make(map[string]struct{}, capacity),
	}
}

// Seen reports whether id was added before.
func (d *Dedup) Seen(id string) bool {
	_, ok := d.seen[id]
	return ok
}

// Add records id, trimming the oldest half when the cap is exceeded.
func (d *Dedup) Add(id string) {
	if _, ok := d.seen[id]; ok {
		return
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)

	if len(d.order) > d.cap {
		keep := d.order[len(d.order)/2:]
		fresh := make(map[string]struct{}, len(keep))
		for _, k := range keep {
			fresh[k] = struct{}{}
		}
		d.order = append(d.order[:0], keep...)
		d.seen = fresh
	}
}

// Len returns the number of retained identifiers.
func (d *Dedup) Len() int { return len(d.order) }

// Clear empties the set.
func (d *Dedup) Clear() {
	d.order = d.order[:0]
	d.seen = make(map[string]struct{}, d.cap)
}
