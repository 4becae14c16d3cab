// Package api contains the HTTP handlers, request/response models, and
// error mapping for the mood journal's JSON API.
package api
