package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hr-onboard-api/internal/models"
)

// CatalogRepository reads the authored learning catalogs. The engine never
// writes to these tables.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListModules returns the ordered module list for a catalog key.
func (r *CatalogRepository) ListModules(ctx context.Context, catalogKey string) ([]models.CatalogModule, error) {
	const query = `SELECT id, catalog_key, position, title, description, link, duration_minutes
		FROM catalog_modules WHERE catalog_key = $1 ORDER BY position ASC`
	var modules []models.CatalogModule
	if err := r.db.SelectContext(ctx, &modules, query, catalogKey); err != nil {
		return nil, fmt.Errorf("list catalog modules: %w", err)
	}
	return modules, nil
}
