// Package sheets mirrors approved attendance records to a spreadsheet.
//
// The export boundary is the SpreadsheetClient interface; the HTTP
// implementation appends rows through a REST endpoint. Export is best
// effort and tracked per tenant with last-sync bookkeeping, so a stalled
// spreadsheet never blocks approval.
package sheets
