package core

// EnsureLen returns buf resliced to n when its capacity allows and a fresh
// slice otherwise. Pooled scratch buffers grow through it.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}
