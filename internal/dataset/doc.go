// Package dataset defines the snapshot data model of the integrity
// dashboard and loads the seed dataset from disk.
//
// A Snapshot bundles the integration index, the department list, the
// monthly trend series and aggregate statistics. Snapshots are treated as
// immutable once published: consumers read them, the simulator replaces
// them. Load validates structural invariants (score ranges, unique ids,
// weight sum) and recomputes the derived fields so callers can never ship
// a snapshot whose grade disagrees with its total score.
package dataset
