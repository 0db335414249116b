// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
// Repositories are bound to a single connection handed out by
// database.Acquirer, so they never outlive the request that created them.
package repository
