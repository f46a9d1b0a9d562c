// Package client contains client-side building blocks for Leazzy.
//
// # Overview
//
// The package provides:
//  1. A concrete HTTP/JSON backend adapter (see HTTPClient) that manages the
//     access/refresh token pair, injects the bearer token on authenticated
//     calls, transparently refreshes expired tokens, and maps HTTP status
//     codes to the shared sentinel errors.
//  2. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose
//     migrations.
//
// HTTPClient satisfies session.Provider, so the session synchronizer can use
// it directly as its identity provider, and wizard.Submitter, so the
// add-property wizard can publish drafts through it.
//
// # Error Handling
//
// Backend failures map onto the sentinels in internal/common; callers match
// them with errors.Is: common.ErrorUnauthorized, common.ErrorUnavailable,
// common.ErrorNotFound, common.ErrorValidation, common.ErrorAlreadyExists.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package client
