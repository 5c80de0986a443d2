// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package strain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/cabinet/internal/platform/apperr"
	"github.com/taibuivan/cabinet/internal/platform/database/schema"
	"github.com/taibuivan/cabinet/internal/platform/dberr"
	"github.com/taibuivan/cabinet/internal/platform/postgres"
)

// # PostgreSQL Repository

// strainRepository implements [Repository] on core.strain.
//
// Comments live in a JSONB array column. Appending and removing one is a
// single UPDATE, so concurrent commenters never overwrite each other.
type strainRepository struct {
	db postgres.Querier
}

// NewRepository constructs a PostgreSQL backed strain store.
func NewRepository(db postgres.Querier) Repository {
	return &strainRepository{db: db}
}

var selectStrain = fmt.Sprintf(`
	SELECT %[1]s::text, %[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s, %[8]s, %[9]s
	FROM %[10]s`,
	schema.CoreStrain.ID,
	schema.CoreStrain.Name,
	schema.CoreStrain.Slug,
	schema.CoreStrain.Type,
	schema.CoreStrain.Description,
	schema.CoreStrain.Flavor,
	schema.CoreStrain.Comments,
	schema.CoreStrain.CreatedAt,
	schema.CoreStrain.UpdatedAt,
	schema.CoreStrain.Table,
)

func scanStrain(row pgx.Row) (*Strain, error) {
	strain := &Strain{}
	err := row.Scan(
		&strain.ID,
		&strain.Name,
		&strain.Slug,
		&strain.Type,
		&strain.Description,
		&strain.Flavor,
		&strain.Comments,
		&strain.CreatedAt,
		&strain.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if strain.Comments == nil {
		strain.Comments = []Comment{}
	}
	return strain, nil
}

func (repository *strainRepository) queryMany(context context.Context, query string, args ...any) ([]*Strain, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	strains := []*Strain{}
	for rows.Next() {
		strain, err := scanStrain(rows)
		if err != nil {
			return nil, err
		}
		strains = append(strains, strain)
	}
	return strains, rows.Err()
}

/*
List returns the whole catalogue sorted by name.

Parameters:
  - context: context.Context

Returns:
  - []*Strain: Every strain, ties broken by id
  - error: Database execution errors
*/
func (repository *strainRepository) List(context context.Context) ([]*Strain, error) {
	query := selectStrain + fmt.Sprintf(" ORDER BY %s, %s", schema.CoreStrain.Name, schema.CoreStrain.ID)

	strains, err := repository.queryMany(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_strain_repo_list_failed: %w", err)
	}
	return strains, nil
}

/*
FindByID retrieves a single strain.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Strain: Hydrated entity with comments
  - error: apperr.NotFound or database errors
*/
func (repository *strainRepository) FindByID(context context.Context, id string) (*Strain, error) {
	query := selectStrain + fmt.Sprintf(" WHERE %s = $1", schema.CoreStrain.ID)

	strain, err := scanStrain(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, fmt.Errorf("postgres_strain_repo_find_failed: %w", dberr.Wrap(err, "Strain"))
	}
	return strain, nil
}

/*
FindByIDs retrieves several strains in one round-trip.

Description: Missing ids are skipped. The result follows the order of ids so
a collection keeps the order in which strains were added.

Parameters:
  - context: context.Context
  - ids: []string

Returns:
  - []*Strain: Found strains
  - error: Database execution errors
*/
func (repository *strainRepository) FindByIDs(context context.Context, ids []string) ([]*Strain, error) {
	if len(ids) == 0 {
		return []*Strain{}, nil
	}

	query := selectStrain + fmt.Sprintf(" WHERE %s::text = ANY($1::text[])", schema.CoreStrain.ID)
	found, err := repository.queryMany(context, query, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres_strain_repo_find_many_failed: %w", err)
	}

	byID := make(map[string]*Strain, len(found))
	for _, strain := range found {
		byID[strain.ID] = strain
	}

	ordered := make([]*Strain, 0, len(found))
	for _, id := range ids {
		if strain, ok := byID[id]; ok {
			ordered = append(ordered, strain)
		}
	}
	return ordered, nil
}

// ExistsBySlug reports whether slug is taken.
func (repository *strainRepository) ExistsBySlug(context context.Context, slug string) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", schema.CoreStrain.Table, schema.CoreStrain.Slug)

	var exists bool
	if err := repository.db.QueryRow(context, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_strain_repo_exists_failed: %w", err)
	}
	return exists, nil
}

/*
Create inserts a new strain with an empty comment list.

Parameters:
  - context: context.Context
  - strain: *Strain (ID and Slug already set)

Returns:
  - error: apperr.Conflict on a duplicate slug, or database errors
*/
func (repository *strainRepository) Create(context context.Context, strain *Strain) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, '[]'::jsonb, $7, $7)`,
		schema.CoreStrain.Table,
		schema.CoreStrain.ID,
		schema.CoreStrain.Name,
		schema.CoreStrain.Slug,
		schema.CoreStrain.Type,
		schema.CoreStrain.Description,
		schema.CoreStrain.Flavor,
		schema.CoreStrain.Comments,
		schema.CoreStrain.CreatedAt,
		schema.CoreStrain.UpdatedAt,
	)

	now := time.Now()
	strain.CreatedAt, strain.UpdatedAt = now, now
	strain.Comments = []Comment{}

	_, err := repository.db.Exec(context, query,
		strain.ID,
		strain.Name,
		strain.Slug,
		strain.Type,
		strain.Description,
		strain.Flavor,
		now,
	)
	if err != nil {
		return fmt.Errorf("postgres_strain_repo_create_failed: %w", dberr.Wrap(err, "Strain"))
	}
	return nil
}

/*
Update persists the mutable fields of an existing strain.

Parameters:
  - context: context.Context
  - strain: *Strain

Returns:
  - error: apperr.NotFound, apperr.Conflict on a slug clash, or database errors
*/
func (repository *strainRepository) Update(context context.Context, strain *Strain) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		schema.CoreStrain.Table,
		schema.CoreStrain.Name,
		schema.CoreStrain.Slug,
		schema.CoreStrain.Type,
		schema.CoreStrain.Description,
		schema.CoreStrain.Flavor,
		schema.CoreStrain.UpdatedAt,
		schema.CoreStrain.ID,
	)

	strain.UpdatedAt = time.Now()
	tag, err := repository.db.Exec(context, query,
		strain.ID,
		strain.Name,
		strain.Slug,
		strain.Type,
		strain.Description,
		strain.Flavor,
		strain.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_strain_repo_update_failed: %w", dberr.Wrap(err, "Strain"))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Strain")
	}
	return nil
}

// Delete removes the strain; collection rows go with it through ON DELETE CASCADE.
func (repository *strainRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CoreStrain.Table, schema.CoreStrain.ID)

	if _, err := repository.db.Exec(context, query, id); err != nil {
		return fmt.Errorf("postgres_strain_repo_delete_failed: %w", err)
	}
	return nil
}

/*
AddComment appends a comment to the strain's JSONB array.

Parameters:
  - context: context.Context
  - strainID: string
  - comment: Comment (ID already set)

Returns:
  - error: apperr.NotFound when the strain is missing, or database errors
*/
func (repository *strainRepository) AddComment(context context.Context, strainID string, comment Comment) error {
	payload, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("postgres_strain_repo_comment_encode_failed: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %[1]s SET %[2]s = %[2]s || jsonb_build_array($2::jsonb), %[3]s = NOW()
		WHERE %[4]s = $1`,
		schema.CoreStrain.Table,
		schema.CoreStrain.Comments,
		schema.CoreStrain.UpdatedAt,
		schema.CoreStrain.ID,
	)

	tag, err := repository.db.Exec(context, query, strainID, string(payload))
	if err != nil {
		return fmt.Errorf("postgres_strain_repo_comment_add_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Strain")
	}
	return nil
}

/*
RemoveComment filters the comment with commentID out of the array.

Parameters:
  - context: context.Context
  - strainID: string
  - commentID: string

Returns:
  - error: apperr.NotFound when the strain is missing, or database errors
*/
func (repository *strainRepository) RemoveComment(context context.Context, strainID, commentID string) error {
	query := fmt.Sprintf(`
		UPDATE %[1]s SET
			%[2]s = COALESCE(
				(SELECT jsonb_agg(element) FROM jsonb_array_elements(%[2]s) AS element WHERE element->>'id' <> $2),
				'[]'::jsonb
			),
			%[3]s = NOW()
		WHERE %[4]s = $1`,
		schema.CoreStrain.Table,
		schema.CoreStrain.Comments,
		schema.CoreStrain.UpdatedAt,
		schema.CoreStrain.ID,
	)

	tag, err := repository.db.Exec(context, query, strainID, commentID)
	if err != nil {
		return fmt.Errorf("postgres_strain_repo_comment_remove_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Strain")
	}
	return nil
}
