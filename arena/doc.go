// Package arena provides offset based casting between base and derived views
// of tagged records held in linear scratch memory, records passed around
// in-process rather than resident in the hashed slot space.
//
// Unlike the persistent stores, no address here is content derived. A base
// shaped reference is a byte offset into the arena, and narrowing it to a
// derived shape is explicit, audited offset arithmetic using the constants
// recorded in the variant registry, guarded by a single tag read.
package arena
