// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by the adapters to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrMissingID is returned when Save receives a document without "_id".
	ErrMissingID = errors.New("document has no _id")

	// ErrUnknownDriver is returned by [NewAdapter] for an unsupported driver.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Low-level database operation errors. These are wrapped by the SQL adapter
// when a statement fails before any document logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL statement fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing an INSERT or DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan document row")

	// ErrScanningRows is returned when iterating a result set fails.
	ErrScanningRows = errors.New("failed to scan document rows")

	// ErrDecodingDocument is returned when a stored body is not valid JSON.
	ErrDecodingDocument = errors.New("failed to decode stored document")

	// ErrEncodingDocument is returned when a document cannot be marshalled.
	ErrEncodingDocument = errors.New("failed to encode document")
)
