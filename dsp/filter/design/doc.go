// Package design computes biquad coefficients for the highpass filters that
// strip drift from acceleration records before integration and FFT.
//
// [Highpass] designs a single RBJ section, [ButterworthHP] a Butterworth
// cascade, and [HighpassFilter] applies a cascade to a record.
package design
