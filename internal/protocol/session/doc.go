// Package session owns client session state and token renewal.
//
// Ownership boundary:
// - token and account ledger shared between request and response paths
// - refresh scheduling against token expiry
package session
