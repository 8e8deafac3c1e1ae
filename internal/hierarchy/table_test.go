package hierarchy_test

import (
	"os"
	"path/filepath"
	"unsafe"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pxbind/internal/hierarchy"
)

var _ = Describe("Default table", func() {
	var t *hierarchy.Table

	BeforeEach(func() {
		t = hierarchy.Default()
	})

	It("is internally consistent", func() {
		Expect(t.Validate()).To(Succeed())
	})

	It("lets every class view itself at offset zero", func() {
		for _, c := range t.Classes() {
			off, ok := t.Offset(c, c)
			Expect(ok).To(BeTrue(), string(c))
			Expect(off).To(BeZero())
		}
	})

	It("mirrors the rigid body chain", func() {
		Expect(t.Ancestors(hierarchy.RigidDynamic)).To(Equal([]hierarchy.Class{
			hierarchy.RigidBody, hierarchy.RigidActor, hierarchy.Actor, hierarchy.Base,
		}))
		Expect(t.Supports(hierarchy.Material, hierarchy.RefCounted)).To(BeTrue())
		Expect(t.Supports(hierarchy.RigidStatic, hierarchy.RigidBody)).To(BeFalse())
		Expect(t.Supports(hierarchy.Scene, hierarchy.Base)).To(BeFalse())
		Expect(t.Supports(hierarchy.PBDParticleSystem, hierarchy.Base)).To(BeTrue())
	})

	It("is transitive and borrowing through a chain is address identical", func() {
		buf := make([]byte, 256)
		obj := unsafe.Pointer(&buf[0])

		for _, a := range t.Classes() {
			for _, b := range t.Ancestors(a) {
				for _, c := range t.Ancestors(b) {
					Expect(t.Supports(a, c)).To(BeTrue(), "%s -> %s -> %s", a, b, c)

					viaB, ok := t.Upcast(obj, a, b)
					Expect(ok).To(BeTrue())
					chained, ok := t.Upcast(viaB, b, c)
					Expect(ok).To(BeTrue())
					direct, ok := t.Upcast(obj, a, c)
					Expect(ok).To(BeTrue())
					Expect(chained).To(Equal(direct))
				}
			}
		}
	})
})

var _ = Describe("Table", func() {
	// A class with a second base placed after the first one, as produced by
	// multiple inheritance.
	const (
		left   hierarchy.Class = "Left"
		right  hierarchy.Class = "Right"
		root   hierarchy.Class = "Root"
		joined hierarchy.Class = "Joined"
	)

	build := func() *hierarchy.Table {
		t := hierarchy.NewTable()
		t.Declare(root)
		t.Declare(left, root)
		t.Declare(right)
		t.Declare(joined, left, root)
		t.DeclareAt(joined, right, 16)
		return t
	}

	It("places views at the declared offset", func() {
		t := build()
		Expect(t.Validate()).To(Succeed())

		buf := make([]byte, 64)
		obj := unsafe.Pointer(&buf[0])
		view, ok := t.Upcast(obj, joined, right)
		Expect(ok).To(BeTrue())
		Expect(uintptr(view) - uintptr(obj)).To(Equal(uintptr(16)))
		Expect(view).To(Equal(unsafe.Pointer(&buf[16])))

		back, ok := t.Downcast(view, joined, right)
		Expect(ok).To(BeTrue())
		Expect(back).To(Equal(obj))

		view, ok = t.Upcast(obj, joined, root)
		Expect(ok).To(BeTrue())
		Expect(view).To(Equal(obj))
	})

	It("refuses undeclared relations", func() {
		t := build()
		_, ok := t.Upcast(nil, right, root)
		Expect(ok).To(BeFalse())
		Expect(func() { t.MustOffset(right, root) }).To(Panic())
	})

	It("reports a missing transitive relation", func() {
		t := build()
		t.Declare("Leaf", joined)
		err := t.Validate()
		Expect(err).To(MatchError(hierarchy.ErrInconsistent))
		Expect(err.Error()).To(ContainSubstring("Leaf does not support Root"))
	})

	It("reports offsets that do not add up", func() {
		t := build()
		t.Declare("Leaf", joined, left, root)
		t.DeclareAt("Leaf", right, 8)
		Expect(t.Validate()).To(MatchError(ContainSubstring("offset of Right in Leaf is 8, expected 16")))
	})

	It("rejects classes deriving from each other", func() {
		t := hierarchy.NewTable()
		t.Declare("A", "B")
		t.Declare("B", "A")
		err := t.Validate()
		Expect(err).To(MatchError(hierarchy.ErrInconsistent))
		Expect(err.Error()).To(ContainSubstring("A and B derive from each other"))
	})

	It("reports undeclared ancestors", func() {
		t := hierarchy.NewTable()
		t.Declare("Orphan", "Ghost")
		Expect(t.Validate()).To(MatchError(hierarchy.ErrUndeclared))
	})

	It("diffs against a generated layout", func() {
		t := build()
		data, err := t.Marshal()
		Expect(err).NotTo(HaveOccurred())

		path := filepath.Join(GinkgoT().TempDir(), "layout.yaml")
		Expect(os.WriteFile(path, data, 0644)).To(Succeed())
		loaded, err := hierarchy.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Diff(loaded)).To(BeEmpty())
		Expect(loaded.Diff(t)).To(BeEmpty())

		moved := build()
		moved.DeclareAt(joined, right, 24)
		diff := t.Diff(moved)
		Expect(diff).To(HaveLen(1))
		Expect(diff[0].String()).To(Equal("Joined -> Right: offset 16, generated 24"))
	})

	It("rejects a layout declaring a class twice", func() {
		_, err := hierarchy.Parse([]byte("classes:\n  - name: A\n  - name: A\n"))
		Expect(err).To(MatchError(hierarchy.ErrInconsistent))
	})
})
