// Package errs defines the error shapes returned to API clients.
//
// Every failure leaving the service is an *HTTPError serialized as JSON,
// so clients see a consistent envelope whether the error came from request
// validation, a missing user or a database failure.
//
// - Field-level validation errors for bad query/body/path input.
// - A wrapped cause for operators, hidden from clients in production.
// - Compatible with errors.Is / errors.As.
package errs
