// Package validation binds HTTP input into request structs and validates
// it.
//
// It uses the `validator` library to enforce rules (like
// pagination bounds) defined in struct tags and extracts
// validation errors into a format the client can
// understand
package validation
