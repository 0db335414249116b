// Package service contains the users business logic.
//
// It sits between the handler and repository layers. Each operation
// takes one scoped connection from database.Acquirer, runs the
// repository calls on it and classifies failures into *errs.HTTPError
// so the handlers never see raw driver errors.
package service
