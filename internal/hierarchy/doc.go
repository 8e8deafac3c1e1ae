// Package hierarchy holds the capability table of the engine classes: for
// each class, the ancestors it may be viewed as and the fixed byte offset of
// each ancestor subobject.
//
// The table is generated once from the vendored headers (structgen) and
// trusted afterwards. Nothing at runtime inspects engine memory to confirm a
// relation; a wrong entry is a wrong pointer. Validate only checks that the
// table is internally consistent: every class supports itself at offset zero,
// relations are transitive, and offsets add up along a chain.
package hierarchy
