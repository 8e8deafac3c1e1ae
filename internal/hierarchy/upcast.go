package hierarchy

import "unsafe"

// Upcast returns the view of the ancestor to inside the from object at ptr.
// It only consults the table; ptr must really point at a from object.
func (t *Table) Upcast(ptr unsafe.Pointer, from, to Class) (unsafe.Pointer, bool) {
	off, ok := t.Offset(from, to)
	if !ok || ptr == nil {
		return nil, ok
	}
	return unsafe.Add(ptr, off), true
}

// At offsets ptr by a precomputed offset.
func At(ptr unsafe.Pointer, off uintptr) unsafe.Pointer {
	if ptr == nil {
		return nil
	}
	return unsafe.Add(ptr, off)
}

// Downcast is the inverse of Upcast: ptr points at the to subobject of a
// from object, and the from object is returned.
func (t *Table) Downcast(ptr unsafe.Pointer, from, to Class) (unsafe.Pointer, bool) {
	off, ok := t.Offset(from, to)
	if !ok || ptr == nil {
		return nil, ok
	}
	return unsafe.Add(ptr, -int(off)), true
}
