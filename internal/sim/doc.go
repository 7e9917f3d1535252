// Package sim implements the live data simulator: a small Stopped/Running
// state machine that owns the mutable dataset snapshot and, while running,
// applies one randomized clamped score mutation per tick.
//
// Every tick publishes a brand-new Snapshot — consumers never observe a
// partially updated one. The random source and clock are injectable so
// tick sequences are reproducible in tests. The tick counter and last-tick
// timestamp are simulator-local telemetry, not part of the snapshot.
package sim
