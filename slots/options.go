package slots

// SlotHasher derives the address for a region scoped key. SlotAddr is the
// default. Overriding it substitutes the hash primitive for every address a
// store derives, all stores sharing one word store must agree on it.
type SlotHasher func(domain SlotDomain, region RegionID, key []byte) Addr

type StoreOptions struct {
	Hasher SlotHasher
}

// Option is a generic option type used for store construction.
// Implementations type assert to their options record and if that fails the
// expectation is they ignore the option.
type Option func(any)

func WithSlotHasher(h SlotHasher) Option {
	return func(opts any) {
		if o, ok := opts.(*StoreOptions); ok {
			o.Hasher = h
		}
	}
}

func newStoreOptions(opts ...Option) StoreOptions {
	o := StoreOptions{Hasher: SlotAddr}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
