// Package client contains the terminal client's building blocks for talking
// to the choirhub API and keeping local state.
//
// # Overview
//
//  1. The Client interface: the calls the CLI makes (auth, member
//     administration, recording uploads).
//  2. HTTPClient, the JSON-over-HTTP implementation. It sends the bearer
//     token set with SetToken and maps error bodies back to the sentinel
//     errors in internal/common.
//  3. InitDatabase, RunMigrations and OpenState, which open the local SQLite
//     state database and apply embedded goose migrations.
//
// # Error Handling
//
// Server error codes become common.ErrValidation, common.ErrNotApproved,
// common.ErrInvalidCredentials and friends. Transport failures wrap
// ErrUnavailable; a 429 is ErrRateLimited.
package client
