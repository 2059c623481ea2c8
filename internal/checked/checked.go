// Package checked provides integer arithmetic that reports overflow instead
// of wrapping around.
package checked

// Integer is the set of integer types the helpers accept.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// TryAdd returns a+b and true, or zero and false if the sum does not fit in T.
func TryAdd[T Integer](a, b T) (T, bool) {
	sum := a + b
	if b > 0 && sum < a {
		return 0, false
	}
	if b < 0 && sum > a {
		return 0, false
	}
	return sum, true
}

// TryIncrement returns v+1 and true, or zero and false if v is already the
// largest value of T.
func TryIncrement[T Integer](v T) (T, bool) {
	return TryAdd(v, T(1))
}

// TryDecrement returns v-1 and true, or zero and false if v is already the
// smallest value of T.
func TryDecrement[T Integer](v T) (T, bool) {
	next := v - 1
	if next > v {
		return 0, false
	}
	return next, true
}
