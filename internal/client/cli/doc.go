// Package cli implements the interactive Leazzy client: a REPL over the
// session synchronizer, the listings catalogue, the favorites list, and the
// add-property wizard. Command handlers print their own errors; the REPL
// loop stays resilient and focused on I/O.
package cli
