// Package schedule turns raw published outage ranges into a typed, queryable
// model: parsing of "HH:MM до HH:MM" entries, the per-day Schedule value and
// the derivation of active/next/percentage state against a reference instant.
package schedule
