// Package userimport bulk-loads users into a tenant from CSV.
//
// Rows are validated independently: a bad row is reported and skipped, and
// never aborts the rest of the file. Supervisor references are resolved by
// email against both the existing directory and earlier rows of the same
// file, so a file can be ordered top-down.
package userimport
