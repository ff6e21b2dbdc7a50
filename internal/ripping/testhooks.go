package ripping

// SetStatfsForTests overrides the free-space probe during tests.
func SetStatfsForTests(r *Ripper, fn func(string) (uint64, uint64, error)) func() {
	previous := r.statfs
	r.statfs = fn
	return func() {
		r.statfs = previous
	}
}
