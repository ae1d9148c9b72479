// Package sanitizer normalizes listing input before validation and
// storage.
//
// All functions are idempotent - applying them twice produces the same
// result. Invalid input comes back as an empty string or empty slice
// rather than an error.
package sanitizer
