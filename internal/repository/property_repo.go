package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"estate_ledger/internal/model"

	"github.com/jackc/pgx/v5"
)

const propertyColumns = `p.id, p.owner_id, p.title, p.description, p.location, p.price, p.is_verified, p.blockchain_hash, p.created_at, p.updated_at`

// PropertyRepository defines operations for property data
type PropertyRepository interface {
	Create(ctx context.Context, p *model.Property) error
	FindByID(ctx context.Context, id int) (*model.PropertyListing, error)
	FindAll(ctx context.Context, filters model.PropertyFilters) ([]model.PropertyListing, error)
	FindByOwner(ctx context.Context, ownerID int) ([]model.Property, error)
	Delete(ctx context.Context, id int) error

	// LockByID selects any property FOR UPDATE inside q's transaction, or nil when there is none.
	LockByID(ctx context.Context, q DBTX, id int) (*model.Property, error)
	Update(ctx context.Context, q DBTX, p *model.Property) error

	// LockVerified selects a verified property FOR UPDATE inside q's transaction.
	LockVerified(ctx context.Context, q DBTX, id int) (*model.Property, error)
	TransferOwnership(ctx context.Context, q DBTX, propertyID, newOwnerID int) error
}

type propertyRepository struct {
	db DBTX
}

// NewPropertyRepository creates a new PropertyRepository
func NewPropertyRepository(db DBTX) PropertyRepository {
	return &propertyRepository{db: db}
}

func propertyFields(p *model.Property) []any {
	return []any{&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Location, &p.Price, &p.IsVerified, &p.BlockchainHash, &p.CreatedAt, &p.UpdatedAt}
}

// Create inserts a new, unverified property
func (r *propertyRepository) Create(ctx context.Context, p *model.Property) error {
	sql := `INSERT INTO properties (owner_id, title, description, location, price, blockchain_hash, is_verified)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, p.OwnerID, p.Title, p.Description, p.Location, p.Price, p.BlockchainHash, p.IsVerified).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// FindByID retrieves a property with its owner's name, or nil when there is none
func (r *propertyRepository) FindByID(ctx context.Context, id int) (*model.PropertyListing, error) {
	l := &model.PropertyListing{}
	sql := `SELECT ` + propertyColumns + `, u.name
            FROM properties p JOIN users u ON p.owner_id = u.id WHERE p.id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(append(propertyFields(&l.Property), &l.OwnerName)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find property by ID: %w", err)
	}
	return l, nil
}

// FindAll retrieves properties with their owner's name, narrowed by filters
func (r *propertyRepository) FindAll(ctx context.Context, filters model.PropertyFilters) ([]model.PropertyListing, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + propertyColumns + `, u.name
                               FROM properties p JOIN users u ON p.owner_id = u.id`)

	args := []any{}
	argCount := 1
	var conditions []string

	if filters.Verified != nil {
		conditions = append(conditions, fmt.Sprintf("p.is_verified = $%d", argCount))
		args = append(args, *filters.Verified)
		argCount++
	}
	if filters.Location != nil && *filters.Location != "" {
		conditions = append(conditions, fmt.Sprintf("p.location ILIKE $%d", argCount))
		args = append(args, "%"+*filters.Location+"%")
		argCount++
	}
	if filters.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.price >= $%d", argCount))
		args = append(args, *filters.MinPrice)
		argCount++
	}
	if filters.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.price <= $%d", argCount))
		args = append(args, *filters.MaxPrice)
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY p.created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	listings := []model.PropertyListing{}
	for rows.Next() {
		var l model.PropertyListing
		if err := rows.Scan(append(propertyFields(&l.Property), &l.OwnerName)...); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		listings = append(listings, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return listings, nil
}

// FindByOwner lists the properties a user currently owns
func (r *propertyRepository) FindByOwner(ctx context.Context, ownerID int) ([]model.Property, error) {
	sql := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.owner_id = $1 ORDER BY p.created_at DESC`
	rows, err := r.db.Query(ctx, sql, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties by owner: %w", err)
	}
	defer rows.Close()

	properties := []model.Property{}
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(propertyFields(&p)...); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		properties = append(properties, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return properties, nil
}

// Update writes the editable fields of a property
func (r *propertyRepository) Update(ctx context.Context, q DBTX, p *model.Property) error {
	sql := `UPDATE properties
            SET title = $1, description = $2, location = $3, price = $4, is_verified = $5, updated_at = NOW()
            WHERE id = $6 RETURNING updated_at`
	err := q.QueryRow(ctx, sql, p.Title, p.Description, p.Location, p.Price, p.IsVerified, p.ID).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("property not found for update")
		}
		return fmt.Errorf("failed to update property: %w", err)
	}
	return nil
}

// Delete removes a property together with its transactions and ledger records
func (r *propertyRepository) Delete(ctx context.Context, id int) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("property not found for deletion")
	}
	return nil
}

func (r *propertyRepository) LockByID(ctx context.Context, q DBTX, id int) (*model.Property, error) {
	p := &model.Property{}
	sql := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id = $1 FOR UPDATE`
	if err := q.QueryRow(ctx, sql, id).Scan(propertyFields(p)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock property: %w", err)
	}
	return p, nil
}

func (r *propertyRepository) LockVerified(ctx context.Context, q DBTX, id int) (*model.Property, error) {
	p := &model.Property{}
	sql := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id = $1 AND p.is_verified = true FOR UPDATE`
	err := q.QueryRow(ctx, sql, id).Scan(propertyFields(p)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock property: %w", err)
	}
	return p, nil
}

// TransferOwnership hands the property to newOwnerID
func (r *propertyRepository) TransferOwnership(ctx context.Context, q DBTX, propertyID, newOwnerID int) error {
	cmdTag, err := q.Exec(ctx, `UPDATE properties SET owner_id = $1, updated_at = NOW() WHERE id = $2`, newOwnerID, propertyID)
	if err != nil {
		return fmt.Errorf("failed to transfer property ownership: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("property %d not found for ownership transfer", propertyID)
	}
	return nil
}
