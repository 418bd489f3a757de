package slots

// Operation journals writes to a word store so that a group of store calls
// can be reverted as a unit.
//
// Each individual mapping or array operation validates and marshals before
// its first write, so a failed call has written nothing and needs no
// rollback of its own. Operation exists for the enclosing transaction: a
// caller composing several store calls, including re-entrant calls made from
// within a variant's own clear or write routine, builds its stores over an
// Operation and rolls the whole group back if any call fails. Partial
// composites are then never observable by later operations.
//
// The execution model is single threaded and run to completion, one
// operation at a time, so no locking is required.
type Operation struct {
	store WordStore
	prior map[Addr]Word
}

// BeginOperation starts a journaled operation over store. The returned
// Operation is itself a WordStore, construct the participating Mapping and
// Array stores over it.
func BeginOperation(store WordStore) *Operation {
	return &Operation{store: store, prior: map[Addr]Word{}}
}

func (op *Operation) GetWord(addr Addr) Word {
	return op.store.GetWord(addr)
}

// PutWord records the first overwritten value for addr, then writes through.
func (op *Operation) PutWord(addr Addr, w Word) {
	if _, ok := op.prior[addr]; !ok {
		op.prior[addr] = op.store.GetWord(addr)
	}
	op.store.PutWord(addr, w)
}

// Rollback restores every word the operation wrote, in any order, and leaves
// the operation empty. Safe to call after Commit, where it does nothing.
func (op *Operation) Rollback() {
	for addr, w := range op.prior {
		op.store.PutWord(addr, w)
	}
	op.prior = map[Addr]Word{}
}

// Commit discards the journal, the writes are already in the underlying
// store.
func (op *Operation) Commit() {
	op.prior = map[Addr]Word{}
}
