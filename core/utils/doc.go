// Package utils provides loose type conversion helpers.
//
// The reservation API is not strict about JSON types: IDs arrive as numbers
// or strings and amounts as numbers or formatted strings. These helpers
// normalize such values without failing.
package utils
