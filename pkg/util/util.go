package util

// Map applies f to every element of s.
func Map[A any, B any](s []A, f func(A, int) B) []B {
	out := make([]B, len(s))
	for i, v := range s {
		out[i] = f(v, i)
	}
	return out
}

// Filter keeps the elements of s for which f returns true.
func Filter[A any](s []A, f func(A) bool) []A {
	out := make([]A, 0, len(s))
	for _, v := range s {
		if f(v) {
			out = append(out, v)
		}
	}
	return out
}
