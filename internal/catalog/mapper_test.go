package catalog_test

import (
	"testing"

	"github.com/alonu/alonu-client/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCategoryAttachesNonDeletedSubcategories(t *testing.T) {
	view := catalog.MapCategory(
		catalog.Category{ID: 3, Libelle: "Travail du bois"},
		fixtureSubcategories,
	)

	assert.Equal(t, "3", view.ID)
	assert.Equal(t, "Travail du bois", view.Name)
	assert.Equal(t, "Armchair", view.Icon)
	assert.Equal(t, []string{"Ébénistes", "Charpentiers"}, view.Subcategories)
}

func TestMapCategoriesDropsDeleted(t *testing.T) {
	views := catalog.MapCategories(fixtureCategories, nil)

	require.Len(t, views, 2)
	assert.Equal(t, "Travail du bois", views[0].Name)
	assert.Equal(t, "Textile et habillement", views[1].Name)
}

func TestIconName(t *testing.T) {
	assert.Equal(t, "Armchair", catalog.IconName("Travail du bois"))
	assert.Equal(t, "Shirt", catalog.IconName("Textile et habillement"))
	assert.Equal(t, "UtensilsCrossed", catalog.IconName("Agro-alimentaire"))
	assert.Equal(t, "Palette", catalog.IconName("Autre chose"))
}

func TestMapArtisanBuildsDisplayName(t *testing.T) {
	view := catalog.MapArtisan(fixtureArtisans[0])

	assert.Equal(t, "1", view.ID)
	assert.Equal(t, "Aya Kouassi", view.Name)
	assert.Equal(t, "Ébéniste", view.Profession)
	assert.Equal(t, "Travail du bois", view.Category)
	assert.Equal(t, "Abidjan, Cocody", view.Address)
	assert.True(t, view.Verified)
	assert.InDelta(t, 4.5, view.Rating, 0.001)
}

func TestMapArtisanFillsPlaceholders(t *testing.T) {
	view := catalog.MapArtisan(catalog.Artisan{ID: 9})

	assert.Equal(t, "Nom non disponible", view.Name)
	assert.Equal(t, "Profession non spécifiée", view.Profession)
	assert.Equal(t, "Catégorie inconnue", view.Category)
	assert.Equal(t, "Aucune description disponible", view.Description)
	assert.Equal(t, "Localisation non disponible", view.Address)
}

func TestMapArtisanProfessionFallsBackToSubcategoryLabel(t *testing.T) {
	view := catalog.MapArtisan(catalog.Artisan{
		ID:            5,
		Nom:           "Koné",
		SousCategorie: catalog.Subcategory{Libelle: "Charpentiers"},
	})

	assert.Equal(t, "Koné", view.Name)
	assert.Equal(t, "Charpentiers", view.Profession)
}
