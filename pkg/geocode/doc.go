// Package geocode resolves check-in coordinates to human-readable addresses.
//
// Geocoding is best effort enrichment: a failed or slow lookup degrades the
// address to empty, never the check-in itself. Resolved addresses are cached
// per rounded coordinate pair so repeated check-ins from the same site do
// not hammer the upstream service.
package geocode
