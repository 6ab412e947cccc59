// Package models defines the core domain models for Travelog.
//
// # Aggregate shape
//
// Group is the single aggregate root: it exclusively owns its Expenses,
// Payments and PaymentRequests. Nothing inside a group is addressable from
// outside it, and no entity is shared across groups. The whole group is
// loaded, mutated and saved as one unit (see internal/storage).
//
// # Members
//
// Members are plain username strings, unique within a group. There is no
// separate membership entity; the Members slice on Group is ordered by join
// time.
//
// # Money
//
// Amounts are float64 compared with a 0.01 tolerance everywhere. The
// tolerance is a domain rule (sub-cent residue counts as settled), not a
// float workaround.
package models
