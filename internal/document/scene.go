package document

// Scene is the ordered collection of shapes on the surface.
// Insertion order is z-order: later shapes are drawn on top.
type Scene struct {
	objects []*Shape
}

func NewScene() *Scene {
	return &Scene{}
}

// Add appends shapes on top of the scene.
func (sc *Scene) Add(shapes ...*Shape) {
	sc.objects = append(sc.objects, shapes...)
}

// Remove deletes the given shapes, keeping the order of the rest.
func (sc *Scene) Remove(shapes ...*Shape) {
	if len(shapes) == 0 {
		return
	}
	drop := make(map[*Shape]struct{}, len(shapes))
	for _, s := range shapes {
		drop[s] = struct{}{}
	}
	kept := sc.objects[:0]
	for _, s := range sc.objects {
		if _, ok := drop[s]; !ok {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(sc.objects); i++ {
		sc.objects[i] = nil
	}
	sc.objects = kept
}

// Replace swaps the whole content of the scene.
func (sc *Scene) Replace(shapes []*Shape) {
	sc.objects = append([]*Shape(nil), shapes...)
}

func (sc *Scene) Clear() {
	sc.objects = nil
}

// Objects returns the shapes in z-order. The slice must not be modified.
func (sc *Scene) Objects() []*Shape {
	return sc.objects
}

func (sc *Scene) Len() int {
	return len(sc.objects)
}

// Last returns the most recently appended shape, or nil.
func (sc *Scene) Last() *Shape {
	if len(sc.objects) == 0 {
		return nil
	}
	return sc.objects[len(sc.objects)-1]
}

// Contains reports whether s is a member of the scene.
func (sc *Scene) Contains(s *Shape) bool {
	for _, o := range sc.objects {
		if o == s {
			return true
		}
	}
	return false
}

// HasType reports whether any member has the given variant.
func (sc *Scene) HasType(t ShapeType) bool {
	for _, s := range sc.objects {
		if s.Type == t {
			return true
		}
	}
	return false
}

// ByID finds a shape by id.
func (sc *Scene) ByID(id string) *Shape {
	for _, s := range sc.objects {
		if s.ID == id {
			return s
		}
	}
	return nil
}
