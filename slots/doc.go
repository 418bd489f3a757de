// Package slots implements tagged polymorphic records over a flat,
// word-addressed storage space.
//
// A family of record shapes shares a common base prefix whose first word
// carries a discriminant tag. The tag alone determines both whether a slot is
// occupied and which derived shape occupies it. Records are reached either by
// hashed key (Mapping) or by index (Array), and every address is computed
// deterministically before the tag at that address is read, so the array
// stride is fixed at the size of the largest registered shape.
//
// All operations are synchronous and run to completion. A failed operation
// rolls back every word it wrote, so partially written records are never
// observable by a later operation.
package slots
