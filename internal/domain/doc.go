// Package domain defines the core business entities of the mood journal:
// users, journal entries with their emotion distributions, and the
// subscription plan catalog that bounds monthly usage and history.
package domain
