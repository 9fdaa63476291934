package view

// Opt is an explicitly optional value. The zero Opt is unset, which is
// different from being set to the zero value of T.
type Opt[T any] struct {
	v  T
	ok bool
}

// Some returns a set Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{v: v, ok: true}
}

// Get returns the value and whether it was set.
func (o Opt[T]) Get() (T, bool) { return o.v, o.ok }

// IsSet reports whether a value was set.
func (o Opt[T]) IsSet() bool { return o.ok }

// Or returns the value, or def when unset.
func (o Opt[T]) Or(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// Set stores v.
func (o *Opt[T]) Set(v T) {
	o.v = v
	o.ok = true
}

// Clear makes o unset.
func (o *Opt[T]) Clear() {
	var zero T
	o.v = zero
	o.ok = false
}
