package catalog_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alonu/alonu-client/internal/catalog"
	"github.com/alonu/alonu-client/internal/storage"
	"github.com/alonu/alonu-client/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureArtisans = []catalog.Artisan{
	{
		ID:            1,
		Nom:           "Kouassi",
		Prenom:        "Aya",
		Profession:    "Ébéniste",
		Adresse:       "Abidjan, Cocody",
		SousCategorie: catalog.Subcategory{ID: 31, Libelle: "Ébénistes", Categorie: catalog.Category{ID: 3, Libelle: "Travail du bois"}},
		Actif:         true,
	},
	{
		ID:            2,
		Nom:           "Traoré",
		Prenom:        "Moussa",
		Profession:    "Charpentier",
		Adresse:       "Bouaké",
		SousCategorie: catalog.Subcategory{ID: 32, Libelle: "Charpentiers", Categorie: catalog.Category{ID: 3, Libelle: "Travail du bois"}},
		Actif:         true,
	},
	{
		ID:            3,
		Nom:           "Diallo",
		Prenom:        "Fanta",
		Profession:    "Tisserande",
		Adresse:       "Korhogo",
		SousCategorie: catalog.Subcategory{ID: 41, Libelle: "Tisserands", Categorie: catalog.Category{ID: 4, Libelle: "Textile et habillement"}},
		Actif:         true,
	},
}

func newArtisanService(t *testing.T, backend *testhelpers.MockBackend, ttl time.Duration) *catalog.ArtisanService {
	t.Helper()

	aapi := catalog.NewArtisanAPI(newCatalogClient(t, backend, storage.NewMemory()))
	return catalog.NewArtisanService(aapi, ttl)
}

func TestArtisanListingIsCachedUntilExpiry(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("bootstrap-token", 0)
	backend.HandleJSON("GET /artisans", http.StatusOK, fixtureArtisans)

	service := newArtisanService(t, backend, 80*time.Millisecond)

	require.Len(t, service.GetAll(context.Background()), 3)
	require.Len(t, service.GetAll(context.Background()), 3)
	require.Equal(t, 1, backend.Count("/artisans"))

	time.Sleep(120 * time.Millisecond)
	service.GetAll(context.Background())
	require.Equal(t, 2, backend.Count("/artisans"))
}

func TestArtisanFetchFailureYieldsEmptyList(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("bootstrap-token", 0)
	backend.HandleJSON("GET /artisans", http.StatusInternalServerError, map[string]string{"message": "down"})

	service := newArtisanService(t, backend, time.Minute)

	require.Empty(t, service.GetAll(context.Background()))

	// failures are not cached
	service.GetAll(context.Background())
	require.Equal(t, 2, backend.Count("/artisans"))
}

func TestArtisanFiltersServeFromSnapshot(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("bootstrap-token", 0)
	backend.HandleJSON("GET /artisans", http.StatusOK, fixtureArtisans)

	service := newArtisanService(t, backend, time.Minute)
	ctx := context.Background()

	byCategory := service.ByCategory(ctx, 3)
	require.Len(t, byCategory, 2)

	bySub := service.BySubcategory(ctx, 41)
	require.Len(t, bySub, 1)
	assert.Equal(t, "Diallo", bySub[0].Nom)

	artisan, ok := service.ByID(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, "Traoré", artisan.Nom)

	_, ok = service.ByID(ctx, 99)
	assert.False(t, ok)

	require.Equal(t, 1, backend.Count("/artisans"))
}

func TestArtisanSearchFoldsDiacritics(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("bootstrap-token", 0)
	backend.HandleJSON("GET /artisans", http.StatusOK, fixtureArtisans)

	service := newArtisanService(t, backend, time.Minute)
	ctx := context.Background()

	// accent-insensitive name match
	results := service.Search(ctx, "traore")
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].ID)

	// profession and category labels are searched too
	assert.Len(t, service.Search(ctx, "ebeniste"), 1)
	assert.Len(t, service.Search(ctx, "textile"), 1)
	assert.Len(t, service.Search(ctx, "BOIS"), 2)

	// too-short queries return nothing; the minimum counts runes, so a
	// single accented character is still rejected
	assert.Empty(t, service.Search(ctx, "t"))
	assert.Empty(t, service.Search(ctx, " a "))
	assert.Empty(t, service.Search(ctx, "é"))
	assert.Len(t, service.Search(ctx, "éb"), 1)
}

func TestArtisanRandomDrawsWithoutReplacement(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("bootstrap-token", 0)
	backend.HandleJSON("GET /artisans", http.StatusOK, fixtureArtisans)

	service := newArtisanService(t, backend, time.Minute)
	ctx := context.Background()

	picked := service.Random(ctx, 2)
	require.Len(t, picked, 2)
	assert.NotEqual(t, picked[0].ID, picked[1].ID)

	// asking for more than exist returns everything
	assert.Len(t, service.Random(ctx, 10), 3)
	assert.Empty(t, service.Random(ctx, 0))
}

func TestArtisanClearCacheForcesRefetch(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("bootstrap-token", 0)
	backend.HandleJSON("GET /artisans", http.StatusOK, fixtureArtisans)

	service := newArtisanService(t, backend, time.Minute)

	service.GetAll(context.Background())
	service.ClearCache()
	service.GetAll(context.Background())

	require.Equal(t, 2, backend.Count("/artisans"))
}
