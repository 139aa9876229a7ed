// Package store archives validation reports in SQLite.
//
// The archive is host-side tooling: the validation stage itself never
// touches it. The CLI writes a report after a run and reads history
// back for inspection. One row per run, one row per diagnostic, with
// writes wrapped in a transaction so a report is archived whole or not
// at all. Re-archiving a run identifier is a silent no-op.
package store
