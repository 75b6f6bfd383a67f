package physics

import "fmt"

// Handle names a body inside a World. The zero Handle is never valid.
// Removing a body bumps its slot's generation, so every copy of the old
// handle is rejected from then on.
type Handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.generation == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("body#%d.%d", h.index, h.generation)
}

type slot struct {
	body       *Body
	generation uint32
}

// arena stores bodies in reusable slots and remembers insertion order
// separately, so slot reuse never changes iteration order.
type arena struct {
	slots []slot
	free  []uint32
	order []uint32
}

func (a *arena) insert(b *Body) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}
	s := &a.slots[idx]
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	s.body = b
	a.order = append(a.order, idx)
	return Handle{index: idx, generation: s.generation}
}

func (a *arena) get(h Handle) (*Body, error) {
	if h.generation == 0 || int(h.index) >= len(a.slots) {
		return nil, ErrInvalidHandle
	}
	s := a.slots[h.index]
	if s.body == nil || s.generation != h.generation {
		return nil, ErrStaleHandle
	}
	return s.body, nil
}

func (a *arena) remove(h Handle) (*Body, error) {
	b, err := a.get(h)
	if err != nil {
		return nil, err
	}
	s := &a.slots[h.index]
	s.body = nil
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	a.free = append(a.free, h.index)
	for i, idx := range a.order {
		if idx == h.index {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return b, nil
}

func (a *arena) clear() {
	for i := range a.slots {
		if a.slots[i].body != nil {
			a.slots[i].body = nil
			a.slots[i].generation++
			if a.slots[i].generation == 0 {
				a.slots[i].generation = 1
			}
			a.free = append(a.free, uint32(i))
		}
	}
	a.order = a.order[:0]
}

func (a *arena) len() int {
	return len(a.order)
}

// appendOrdered appends live bodies in insertion order.
func (a *arena) appendOrdered(dst []*Body) []*Body {
	for _, idx := range a.order {
		dst = append(dst, a.slots[idx].body)
	}
	return dst
}
