// Package mathutil provides small math helpers shared by the filter
// design and streaming engine packages.
package mathutil

// IsPowerOfTwo reports whether n is a positive power of two.
//
// Power-of-two filter lengths allow circular buffer indices to wrap
// with a bitmask instead of a modulo operation.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n.
// Returns 1 for n <= 1.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
