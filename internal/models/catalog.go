package models

// Catalog keys resolvable from a fresher's department.
const (
	CatalogDataAnalytics  = "data-analytics"
	CatalogAppDevelopment = "app-development"
	CatalogHumanResources = "human-resources"
	CatalogGeneral        = "general"
)

// CatalogModule is one learning module inside a named catalog. Catalogs are
// authored elsewhere; this engine treats them as read-only.
type CatalogModule struct {
	ID              string `db:"id" json:"id"`
	CatalogKey      string `db:"catalog_key" json:"catalog_key"`
	Position        int    `db:"position" json:"position"`
	Title           string `db:"title" json:"title"`
	Description     string `db:"description" json:"description,omitempty"`
	Link            string `db:"link" json:"link,omitempty"`
	DurationMinutes int    `db:"duration_minutes" json:"duration_minutes"`
}
