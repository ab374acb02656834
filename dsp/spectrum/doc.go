// Package spectrum turns time-domain vibration records into amplitude
// spectra and back.
//
// The forward transform zero-pads to the next power of two and scales bin
// magnitudes by 2/n, where n is the unpadded record length. Bin frequencies
// follow the sensor convention Fs = Fmax * 2.56. Transform failures never
// escape [Compute]: they produce an empty [Spectrum] that callers treat as
// "no data".
package spectrum
