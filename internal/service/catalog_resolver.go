package service

import (
	"strings"

	"github.com/noah-isme/hr-onboard-api/internal/models"
)

// catalogRule maps a department-name fragment to a catalog key.
type catalogRule struct {
	fragment string
	key      string
}

// catalogRules is evaluated top-down; the first match wins. Keeping the table
// ordered makes the precedence between overlapping fragments explicit.
var catalogRules = []catalogRule{
	{"data", models.CatalogDataAnalytics},
	{"analytics", models.CatalogDataAnalytics},
	{"application", models.CatalogAppDevelopment},
	{"development", models.CatalogAppDevelopment},
	{"human resource", models.CatalogHumanResources},
	{"hr", models.CatalogHumanResources},
}

// ResolveCatalog maps a department name to a catalog key using
// case-insensitive substring matching, falling back to the general catalog.
func ResolveCatalog(department string) string {
	normalized := strings.ToLower(department)
	for _, rule := range catalogRules {
		if strings.Contains(normalized, rule.fragment) {
			return rule.key
		}
	}
	return models.CatalogGeneral
}
