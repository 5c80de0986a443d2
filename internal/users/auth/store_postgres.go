// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/cabinet/internal/platform/apperr"
	"github.com/taibuivan/cabinet/internal/platform/database/schema"
	"github.com/taibuivan/cabinet/internal/platform/dberr"
	"github.com/taibuivan/cabinet/internal/platform/postgres"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] on users.account.
//
// Strain ids are read from users.collection in the same round-trip so the
// principal embedded in a fresh token always lists the current collection.
type PostgresUserRepository struct {
	db postgres.Querier
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// selectUser is shared by every lookup; the caller appends the WHERE clause.
var selectUser = fmt.Sprintf(`
	SELECT
		a.%[1]s::text, a.%[2]s, a.%[3]s, a.%[4]s, a.%[5]s, a.%[6]s, a.%[7]s,
		COALESCE(
			array_agg(c.%[10]s::text ORDER BY c.%[11]s) FILTER (WHERE c.%[10]s IS NOT NULL),
			'{}'
		) AS strains
	FROM %[8]s a
	LEFT JOIN %[9]s c ON c.%[12]s = a.%[1]s`,
	schema.UserAccount.ID,
	schema.UserAccount.Username,
	schema.UserAccount.Password,
	schema.UserAccount.FirstName,
	schema.UserAccount.LastName,
	schema.UserAccount.CreatedAt,
	schema.UserAccount.UpdatedAt,
	schema.UserAccount.Table,
	schema.UserCollection.Table,
	schema.UserCollection.StrainID,
	schema.UserCollection.AddedAt,
	schema.UserCollection.UserID,
)

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string (exact, case-sensitive)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := selectUser + fmt.Sprintf(" WHERE a.%s = $1 GROUP BY a.%s", schema.UserAccount.Username, schema.UserAccount.ID)
	return repository.findOne(context, query, username)
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := selectUser + fmt.Sprintf(" WHERE a.%s = $1 GROUP BY a.%s", schema.UserAccount.ID, schema.UserAccount.ID)
	return repository.findOne(context, query, id)
}

func (repository *PostgresUserRepository) findOne(context context.Context, query string, argument string) (*User, error) {
	user := &User{}
	err := repository.db.QueryRow(context, query, argument).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Strains,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", dberr.Wrap(err, "User"))
	}

	return user, nil
}

/*
ExistsByUsername reports whether an account already holds username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - bool: true when taken
  - error: Database execution errors
*/
func (repository *PostgresUserRepository) ExistsByUsername(context context.Context, username string) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)",
		schema.UserAccount.Table, schema.UserAccount.Username)

	var exists bool
	if err := repository.db.QueryRow(context, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_user_repo_exists_failed: %w", err)
	}

	return exists, nil
}

/*
Create persists a new user record into the users.account table.

Description: Timestamps are initialized when not provided. A concurrent
registration of the same username surfaces as apperr.Conflict through the
unique constraint.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID,
		schema.UserAccount.Username,
		schema.UserAccount.Password,
		schema.UserAccount.FirstName,
		schema.UserAccount.LastName,
		schema.UserAccount.CreatedAt,
		schema.UserAccount.UpdatedAt,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", dberr.Wrap(err, "User"))
	}

	if user.Strains == nil {
		user.Strains = []string{}
	}

	return nil
}

/*
UpdateProfile persists the user's first and last name.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.NotFound when the account is gone, or execution errors
*/
func (repository *PostgresUserRepository) UpdateProfile(context context.Context, user *User) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1",
		schema.UserAccount.Table,
		schema.UserAccount.FirstName,
		schema.UserAccount.LastName,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	user.UpdatedAt = time.Now()
	tag, err := repository.db.Exec(context, query, user.ID, user.FirstName, user.LastName, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
