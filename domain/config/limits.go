// Package config holds the business constraints the domain enforces on its
// aggregates, independent of transport-level request validation.
package config

// MaxGroupsPerHangout caps how many groups a single hangout can be shared
// with. A create writes the canonical record plus one pointer per group in
// one transaction, so the cap keeps the whole write inside a single store
// transaction.
const MaxGroupsPerHangout = 25

// MaxTitleLength bounds hangout and series titles.
const MaxTitleLength = 200
