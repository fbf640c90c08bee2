// Package order contains the order aggregate and its lifecycle state machine.
//
// The aggregate enforces the fixed transition table, the administrator
// override, the terminal edit lock, and the carrier mirror invariants. The
// status and payment-status string vocabularies defined here are part of the
// external interop contract and must not drift.
package order
