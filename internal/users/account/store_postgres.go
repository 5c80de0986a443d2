// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/taibuivan/cabinet/internal/platform/database/schema"
	"github.com/taibuivan/cabinet/internal/platform/dberr"
	"github.com/taibuivan/cabinet/internal/platform/postgres"
)

// # Repository Implementations

// PostgresCollectionRepository implements [CollectionRepository] on users.collection.
type PostgresCollectionRepository struct {
	db postgres.Querier
}

// NewCollectionRepository creates a new Postgres implementation for user collections.
func NewCollectionRepository(db postgres.Querier) *PostgresCollectionRepository {
	return &PostgresCollectionRepository{db: db}
}

/*
Add inserts the (user, strain) pair.

Description: The primary key makes the insert idempotent. A foreign key
violation means the strain or user is gone and surfaces as apperr.NotFound.

Parameters:
  - context: context.Context
  - userID: string
  - strainID: string

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresCollectionRepository) Add(context context.Context, userID, strainID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, NOW())
		ON CONFLICT (%s, %s) DO NOTHING`,
		schema.UserCollection.Table,
		schema.UserCollection.UserID,
		schema.UserCollection.StrainID,
		schema.UserCollection.AddedAt,
		schema.UserCollection.UserID,
		schema.UserCollection.StrainID,
	)

	if _, err := repository.db.Exec(context, query, userID, strainID); err != nil {
		return fmt.Errorf("postgres_collection_repo_add_failed: %w", dberr.Wrap(err, "Strain"))
	}
	return nil
}

// Remove deletes the (user, strain) pair if present.
func (repository *PostgresCollectionRepository) Remove(context context.Context, userID, strainID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.UserCollection.Table,
		schema.UserCollection.UserID,
		schema.UserCollection.StrainID,
	)

	if _, err := repository.db.Exec(context, query, userID, strainID); err != nil {
		return fmt.Errorf("postgres_collection_repo_remove_failed: %w", err)
	}
	return nil
}
