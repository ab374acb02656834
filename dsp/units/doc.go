// Package units converts accelerometer readings between ADC counts,
// acceleration and velocity.
//
// All functions are pure. ADC values are not range checked: clipping is a
// concern of the sensor front end and out-of-range counts scale linearly.
package units
