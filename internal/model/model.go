// Package model holds the users domain types shared by the repository,
// service and handler layers: the persisted entity, the request payloads
// bound from HTTP and the response envelopes written back.
package model
