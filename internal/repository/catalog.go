package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"aliexpress/importer/internal/catalog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogStore is the catalog service capability the import pipeline mutates
// the store through. Lookup-by-key methods (external id, attribute name)
// return (nil, nil) on a miss; lookups by id return catalog.ErrNotFound.
type CatalogStore interface {
	CreateProduct(ctx context.Context, p *catalog.Product) error
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, p *catalog.Product) error
	SaveUserFields(ctx context.Context, productID string, fields []catalog.UserField) error
	AttachCategory(ctx context.Context, productID string, pc catalog.ProductCategory) error
	AttachPicture(ctx context.Context, productID string, pp catalog.ProductPicture) error
	AddAttributeMapping(ctx context.Context, productID string, m *catalog.AttributeMapping) error
	AddAttributeCombination(ctx context.Context, productID string, c *catalog.AttributeCombination) error

	CreateCategory(ctx context.Context, c *catalog.Category) error
	GetCategory(ctx context.Context, id string) (*catalog.Category, error)
	GetCategoryByExternalID(ctx context.Context, externalID string) (*catalog.Category, error)

	CreateProductAttribute(ctx context.Context, a *catalog.ProductAttribute) error
	GetProductAttributeByName(ctx context.Context, name string) (*catalog.ProductAttribute, error)

	CreatePicture(ctx context.Context, p *catalog.Picture) error
	GetPictureByAlt(ctx context.Context, alt string) (*catalog.Picture, error)
}

type catalogStore struct {
	db *pgxpool.Pool
}

// NewCatalogStore creates the pgx-backed store and ensures its schema.
// Entities are persisted as jsonb documents; the columns the reconciler
// queries by (category external id, attribute name) are extracted alongside.
func NewCatalogStore(ctx context.Context, db *pgxpool.Pool) (CatalogStore, error) {
	s := &catalogStore{db: db}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare catalog schema: %w", err)
	}
	return s, nil
}

// schemaStatements create the catalog tables. Column names must stay clear of
// PostgreSQL keywords so they never need quoting.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		data JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		external_id TEXT,
		data JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_external_id ON categories (external_id)`,
	`CREATE TABLE IF NOT EXISTS product_attributes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pictures (
		id TEXT PRIMARY KEY,
		mime_type TEXT NOT NULL,
		alt TEXT,
		picture_binary BYTEA
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pictures_alt ON pictures (alt)`,
}

func (s *catalogStore) migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *catalogStore) CreateProduct(ctx context.Context, p *catalog.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return s.saveProduct(ctx, p)
}

func (s *catalogStore) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	return s.saveProduct(ctx, p)
}

func (s *catalogStore) saveProduct(ctx context.Context, p *catalog.Product) error {
	query := `
	INSERT INTO products (id, data)
	VALUES ($1, $2)
	ON CONFLICT (id)
	DO UPDATE SET data = $2`
	_, err := s.db.Exec(ctx, query, p.ID, p)
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", p.ID, err)
	}
	return nil
}

func (s *catalogStore) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT data FROM products WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, catalog.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load product %s: %w", id, err)
	}

	var p catalog.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", id, err)
	}
	return &p, nil
}

// mutateProduct applies fn to the stored product document and writes it back.
func (s *catalogStore) mutateProduct(ctx context.Context, productID string, fn func(*catalog.Product)) error {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	fn(p)
	return s.saveProduct(ctx, p)
}

func (s *catalogStore) SaveUserFields(ctx context.Context, productID string, fields []catalog.UserField) error {
	return s.mutateProduct(ctx, productID, func(p *catalog.Product) {
		for _, f := range fields {
			replaced := false
			for i := range p.UserFields {
				if p.UserFields[i].Key == f.Key {
					p.UserFields[i].Value = f.Value
					replaced = true
					break
				}
			}
			if !replaced {
				p.UserFields = append(p.UserFields, f)
			}
		}
	})
}

func (s *catalogStore) AttachCategory(ctx context.Context, productID string, pc catalog.ProductCategory) error {
	return s.mutateProduct(ctx, productID, func(p *catalog.Product) {
		for _, existing := range p.Categories {
			if existing.CategoryID == pc.CategoryID {
				return
			}
		}
		p.Categories = append(p.Categories, pc)
	})
}

func (s *catalogStore) AttachPicture(ctx context.Context, productID string, pp catalog.ProductPicture) error {
	return s.mutateProduct(ctx, productID, func(p *catalog.Product) {
		p.Pictures = append(p.Pictures, pp)
	})
}

func (s *catalogStore) AddAttributeMapping(ctx context.Context, productID string, m *catalog.AttributeMapping) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	for i := range m.Values {
		if m.Values[i].ID == "" {
			m.Values[i].ID = uuid.NewString()
		}
	}
	return s.mutateProduct(ctx, productID, func(p *catalog.Product) {
		p.Mappings = append(p.Mappings, *m)
	})
}

func (s *catalogStore) AddAttributeCombination(ctx context.Context, productID string, c *catalog.AttributeCombination) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return s.mutateProduct(ctx, productID, func(p *catalog.Product) {
		p.Combinations = append(p.Combinations, *c)
	})
}

func (s *catalogStore) CreateCategory(ctx context.Context, c *catalog.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `
	INSERT INTO categories (id, external_id, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (id)
	DO UPDATE SET external_id = $2, data = $3`
	_, err := s.db.Exec(ctx, query, c.ID, c.ExternalID, c)
	if err != nil {
		return fmt.Errorf("failed to save category %s: %w", c.Name, err)
	}
	return nil
}

func (s *catalogStore) GetCategory(ctx context.Context, id string) (*catalog.Category, error) {
	return s.scanCategory(ctx, `SELECT data FROM categories WHERE id = $1`, id)
}

func (s *catalogStore) GetCategoryByExternalID(ctx context.Context, externalID string) (*catalog.Category, error) {
	c, err := s.scanCategory(ctx, `SELECT data FROM categories WHERE external_id = $1 LIMIT 1`, externalID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

func (s *catalogStore) scanCategory(ctx context.Context, query string, arg interface{}) (*catalog.Category, error) {
	var data []byte
	err := s.db.QueryRow(ctx, query, arg).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	var c catalog.Category
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode category: %w", err)
	}
	return &c, nil
}

func (s *catalogStore) CreateProductAttribute(ctx context.Context, a *catalog.ProductAttribute) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO product_attributes (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = $2`,
		a.ID, a.Name)
	if err != nil {
		return fmt.Errorf("failed to save product attribute %s: %w", a.Name, err)
	}
	return nil
}

func (s *catalogStore) GetProductAttributeByName(ctx context.Context, name string) (*catalog.ProductAttribute, error) {
	var a catalog.ProductAttribute
	err := s.db.QueryRow(ctx,
		`SELECT id, name FROM product_attributes WHERE name = $1 LIMIT 1`, name).
		Scan(&a.ID, &a.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up product attribute %s: %w", name, err)
	}
	return &a, nil
}

func (s *catalogStore) CreatePicture(ctx context.Context, p *catalog.Picture) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO pictures (id, mime_type, alt, picture_binary) VALUES ($1, $2, $3, $4)`,
		p.ID, p.MimeType, p.AltAttribute, p.Binary)
	if err != nil {
		return fmt.Errorf("failed to save picture %s: %w", p.AltAttribute, err)
	}
	return nil
}

// GetPictureByAlt looks a picture up by its alt text, which carries the source
// URL and doubles as the deduplication key for re-imported images.
func (s *catalogStore) GetPictureByAlt(ctx context.Context, alt string) (*catalog.Picture, error) {
	var p catalog.Picture
	err := s.db.QueryRow(ctx,
		`SELECT id, mime_type, alt FROM pictures WHERE alt = $1 LIMIT 1`, alt).
		Scan(&p.ID, &p.MimeType, &p.AltAttribute)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up picture %s: %w", alt, err)
	}
	return &p, nil
}
