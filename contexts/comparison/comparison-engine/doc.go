// Package comparisonengine implements the pairwise comparison subsystem of
// patchbay.
//
// The module owns the binary question registry, the oriented answer ledger
// with its append-only response log, complement alignment/merge for read-time
// reconciliation, pair selection, similarity ranking and the vote outbox. It
// keeps business rules in domain/application layers and isolates
// infrastructure behind ports and adapters.
package comparisonengine
