// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

const (
	documentsTable = "documents"

	defaultMaxRetries = 3
	defaultRetryBase  = 50 * time.Millisecond
)

// SQLAdapter stores every collection in a single "documents" table keyed by
// (db_name, collection, id). Bodies are JSON text.
type SQLAdapter struct {
	db         *DB
	maxRetries uint64
	retryBase  time.Duration
}

// NewSQLAdapter wraps an already migrated connection.
func NewSQLAdapter(db *DB) *SQLAdapter {
	return &SQLAdapter{
		db:         db,
		maxRetries: defaultMaxRetries,
		retryBase:  defaultRetryBase,
	}
}

// withRetry runs fn again while the dialect's classifier reports a
// transient fault.
func (a *SQLAdapter) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(a.maxRetries, retry.NewExponential(a.retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if a.db.errorClassificator != nil && a.db.errorClassificator.Classify(err) == Retryable {
			a.db.logger.Warn().Err(err).Msg("retryable storage error, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}

func collectionWhere(dbName, collection string) sq.And {
	return sq.And{
		sq.Eq{"db_name": dbName},
		sq.Eq{"collection": collection},
	}
}

func (a *SQLAdapter) Find(ctx context.Context, dbName, collection string) ([]models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := a.db.statementBuilder().
		Select("body").
		From(documentsTable).
		Where(collectionWhere(dbName, collection)).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var docs []models.Document
	err = a.withRetry(ctx, func(ctx context.Context) error {
		docs = docs[:0]
		rows, err := a.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		defer rows.Close()

		for rows.Next() {
			var body string
			if err := rows.Scan(&body); err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, err)
			}
			doc, err := decodeDocument(body)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "SQLAdapter.Find").Str("collection", collection).Msg("error finding documents")
		return nil, err
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

func (a *SQLAdapter) Count(ctx context.Context, dbName, collection string) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := a.db.statementBuilder().
		Select("COUNT(*)").
		From(documentsTable).
		Where(collectionWhere(dbName, collection)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int
	err = a.withRetry(ctx, func(ctx context.Context) error {
		if err := a.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "SQLAdapter.Count").Str("collection", collection).Msg("error counting documents")
		return 0, err
	}
	return count, nil
}

func (a *SQLAdapter) FindByID(ctx context.Context, dbName, collection, id string) (models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := a.db.statementBuilder().
		Select("body").
		From(documentsTable).
		Where(collectionWhere(dbName, collection)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var body string
	err = a.withRetry(ctx, func(ctx context.Context) error {
		return a.db.QueryRowContext(ctx, query, args...).Scan(&body)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound(fmt.Sprintf("no document with _id %q in %s", id, collection))
	}
	if err != nil {
		log.Err(err).Str("func", "SQLAdapter.FindByID").Str("collection", collection).Msg("error finding document")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return decodeDocument(body)
}

func (a *SQLAdapter) Save(ctx context.Context, dbName, collection string, docs []models.Document) ([]models.Document, error) {
	log := logger.FromContext(ctx)

	if len(docs) == 0 {
		return docs, nil
	}

	type row struct {
		id   string
		body string
	}
	rows := make([]row, 0, len(docs))
	for _, doc := range docs {
		if doc.ID() == "" {
			return nil, ErrMissingID
		}
		body, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodingDocument, err)
		}
		rows = append(rows, row{id: doc.ID(), body: string(body)})
	}

	err := a.withRetry(ctx, func(ctx context.Context) error {
		tx, err := a.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
		}
		defer tx.Rollback()

		for _, r := range rows {
			query, args, err := a.db.statementBuilder().
				Insert(documentsTable).
				Columns("db_name", "collection", "id", "body").
				Values(dbName, collection, r.id, r.body).
				Suffix("ON CONFLICT (db_name, collection, id) DO UPDATE SET body = excluded.body").
				ToSql()
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		if err = tx.Commit(); err != nil {
			return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "SQLAdapter.Save").Str("collection", collection).Msg("error saving documents")
		return nil, err
	}
	return docs, nil
}

func (a *SQLAdapter) RemoveByID(ctx context.Context, dbName, collection, id string) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := a.db.statementBuilder().
		Delete(documentsTable).
		Where(collectionWhere(dbName, collection)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var affected int64
	err = a.withRetry(ctx, func(ctx context.Context) error {
		res, err := a.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "SQLAdapter.RemoveByID").Str("collection", collection).Msg("error removing document")
		return 0, err
	}
	if affected > 0 {
		return 1, nil
	}
	return 0, nil
}

func (a *SQLAdapter) Clear(ctx context.Context, dbName, collection string) error {
	query, args, err := a.db.statementBuilder().
		Delete(documentsTable).
		Where(collectionWhere(dbName, collection)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return a.exec(ctx, "SQLAdapter.Clear", query, args)
}

func (a *SQLAdapter) ClearAll(ctx context.Context, dbName string) error {
	query, args, err := a.db.statementBuilder().
		Delete(documentsTable).
		Where(sq.Eq{"db_name": dbName}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return a.exec(ctx, "SQLAdapter.ClearAll", query, args)
}

func (a *SQLAdapter) exec(ctx context.Context, funcName, query string, args []any) error {
	err := a.withRetry(ctx, func(ctx context.Context) error {
		if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("error executing statement")
	}
	return err
}

func (a *SQLAdapter) Close() error {
	return a.db.Close()
}

func decodeDocument(body string) (models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingDocument, err)
	}
	return doc, nil
}
