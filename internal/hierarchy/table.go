package hierarchy

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUndeclared   = errors.New("hierarchy: class not declared")
	ErrUnsupported  = errors.New("hierarchy: capability not supported")
	ErrInconsistent = errors.New("hierarchy: inconsistent table")
)

// Table maps each class to the ancestors it supports and their offsets.
// A Table is built once and then only read; reads are safe for concurrent
// use.
type Table struct {
	classes []Class
	entries map[Class]map[Class]uintptr
}

func NewTable() *Table {
	return &Table{entries: make(map[Class]map[Class]uintptr)}
}

func (t *Table) entry(c Class) map[Class]uintptr {
	e, ok := t.entries[c]
	if !ok {
		e = map[Class]uintptr{c: 0}
		t.entries[c] = e
		t.classes = append(t.classes, c)
	}
	return e
}

// Declare records that c supports itself and every ancestor at offset
// zero, the layout of single non-virtual first-base chains.
func (t *Table) Declare(c Class, ancestors ...Class) {
	e := t.entry(c)
	for _, a := range ancestors {
		e[a] = 0
	}
}

// DeclareAt records an ancestor subobject located off bytes into c.
func (t *Table) DeclareAt(c, ancestor Class, off uintptr) {
	t.entry(c)[ancestor] = off
}

// Offset returns the byte offset of the to subobject within a from object.
func (t *Table) Offset(from, to Class) (uintptr, bool) {
	e, ok := t.entries[from]
	if !ok {
		return 0, false
	}
	off, ok := e[to]
	return off, ok
}

// MustOffset is Offset for relations the caller declared itself. It panics
// when the relation is missing, which only happens with a broken table.
func (t *Table) MustOffset(from, to Class) uintptr {
	off, ok := t.Offset(from, to)
	if !ok {
		panic(fmt.Errorf("%w: %s as %s", ErrUnsupported, from, to))
	}
	return off
}

func (t *Table) Supports(from, to Class) bool {
	_, ok := t.Offset(from, to)
	return ok
}

func (t *Table) Declared(c Class) bool {
	_, ok := t.entries[c]
	return ok
}

// Classes lists the declared classes in declaration order.
func (t *Table) Classes() []Class {
	out := make([]Class, len(t.classes))
	copy(out, t.classes)
	return out
}

// Ancestors returns the classes c supports other than itself, nearest
// first. Depth is approximated by the number of ancestors each one has.
func (t *Table) Ancestors(c Class) []Class {
	e, ok := t.entries[c]
	if !ok {
		return nil
	}
	out := make([]Class, 0, len(e)-1)
	for a := range e {
		if a != c {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := len(t.entries[out[i]]), len(t.entries[out[j]])
		if di != dj {
			return di > dj
		}
		return out[i] < out[j]
	})
	return out
}

// Validate checks the table for internal consistency and returns every
// violation found.
func (t *Table) Validate() error {
	var errs []error
	for _, a := range t.classes {
		ea := t.entries[a]
		if off, ok := ea[a]; !ok || off != 0 {
			errs = append(errs, fmt.Errorf("%w: %s does not support itself at offset 0", ErrInconsistent, a))
		}
		for _, b := range sortedKeys(ea) {
			if b == a {
				continue
			}
			eb, ok := t.entries[b]
			if !ok {
				errs = append(errs, fmt.Errorf("%w: %s (ancestor of %s)", ErrUndeclared, b, a))
				continue
			}
			if _, ok := eb[a]; ok {
				if a < b {
					errs = append(errs, fmt.Errorf("%w: %s and %s derive from each other", ErrInconsistent, a, b))
				}
				continue
			}
			offAB := ea[b]
			for _, c := range sortedKeys(eb) {
				offAC, ok := ea[c]
				if !ok {
					errs = append(errs, fmt.Errorf("%w: %s supports %s and %s supports %s, but %s does not support %s",
						ErrInconsistent, a, b, b, c, a, c))
					continue
				}
				if want := offAB + eb[c]; offAC != want {
					errs = append(errs, fmt.Errorf("%w: offset of %s in %s is %d, expected %d via %s",
						ErrInconsistent, c, a, offAC, want, b))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Mismatch is one relation on which two tables disagree.
type Mismatch struct {
	Class    Class
	Ancestor Class
	Want     uintptr
	Got      uintptr
	// Missing is set when the relation is absent from the other table.
	Missing bool
}

func (m Mismatch) String() string {
	if m.Missing {
		return fmt.Sprintf("%s -> %s: missing", m.Class, m.Ancestor)
	}
	return fmt.Sprintf("%s -> %s: offset %d, generated %d", m.Class, m.Ancestor, m.Want, m.Got)
}

// Diff reports every relation of t that other lacks or places at a
// different offset. Relations only other declares are not reported.
func (t *Table) Diff(other *Table) []Mismatch {
	var out []Mismatch
	for _, c := range t.classes {
		for _, a := range sortedKeys(t.entries[c]) {
			want := t.entries[c][a]
			got, ok := other.Offset(c, a)
			switch {
			case !ok:
				out = append(out, Mismatch{Class: c, Ancestor: a, Want: want, Missing: true})
			case got != want:
				out = append(out, Mismatch{Class: c, Ancestor: a, Want: want, Got: got})
			}
		}
	}
	return out
}

func sortedKeys(m map[Class]uintptr) []Class {
	keys := make([]Class, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
