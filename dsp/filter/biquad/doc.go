// Package biquad provides the second-order section runtime used by the
// drift-removal filters.
//
// A [Section] implements Direct Form II Transposed processing of one
// second-order section. A [Chain] cascades sections for higher orders.
package biquad
