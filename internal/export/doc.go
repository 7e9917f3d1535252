// Package export renders snapshots for download and sharing: CSV for
// spreadsheets, a printable HTML report, and a plain-text summary. It also
// keeps the in-memory bookmark store of saved snapshots. All renderers are
// pure consumers and never mutate the snapshot they receive.
package export
