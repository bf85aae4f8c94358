package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/hr-onboard-api/internal/models"
)

func TestResolveCatalog(t *testing.T) {
	cases := []struct {
		department string
		want       string
	}{
		{"Data Engineering", models.CatalogDataAnalytics},
		{"Analytics", models.CatalogDataAnalytics},
		{"Application Development", models.CatalogAppDevelopment},
		{"Web Development", models.CatalogAppDevelopment},
		{"Human Resources", models.CatalogHumanResources},
		{"HR Operations", models.CatalogHumanResources},
		{"Finance", models.CatalogGeneral},
		{"", models.CatalogGeneral},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ResolveCatalog(tc.department), "department %q", tc.department)
	}
}

func TestResolveCatalogCaseInsensitive(t *testing.T) {
	assert.Equal(t, models.CatalogDataAnalytics, ResolveCatalog("DATA SCIENCE"))
	assert.Equal(t, models.CatalogHumanResources, ResolveCatalog("hr"))
}

func TestResolveCatalogPrecedence(t *testing.T) {
	// "Data Application Services" matches both the data and the application
	// fragments; the data rule sits higher in the table.
	assert.Equal(t, models.CatalogDataAnalytics, ResolveCatalog("Data Application Services"))
}
