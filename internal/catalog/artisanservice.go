package catalog

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/maypok86/otter/v2"
	"github.com/maypok86/otter/v2/stats"
	"github.com/rs/zerolog/log"
)

const slotArtisans = "artisans"

// ArtisanService caches the full artisan listing for a few minutes and
// answers category, subcategory and text searches against the snapshot
// without further network calls. Fetch failures yield an empty list, not
// an error.
type ArtisanService struct {
	api     *ArtisanAPI
	cache   *otter.Cache[string, []Artisan]
	counter *stats.Counter
}

func NewArtisanService(aapi *ArtisanAPI, ttl time.Duration) *ArtisanService {
	counter := stats.NewCounter()

	return &ArtisanService{
		api: aapi,
		cache: otter.Must(&otter.Options[string, []Artisan]{
			MaximumSize:      1,
			StatsRecorder:    counter,
			ExpiryCalculator: otter.ExpiryCreating[string, []Artisan](ttl),
		}),
		counter: counter,
	}
}

func (s *ArtisanService) GetAll(ctx context.Context) []Artisan {
	if entry, ok := s.cache.GetEntry(slotArtisans); ok {
		log.Debug().Msg("artisan cache hit")
		return entry.Value
	}

	artisans, err := s.api.All(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("artisan fetch failed, serving empty list")
		return nil
	}

	s.cache.Set(slotArtisans, artisans)
	log.Debug().Int("count", len(artisans)).Msg("artisans cached")

	return artisans
}

func (s *ArtisanService) ByCategory(ctx context.Context, categoryID int) []Artisan {
	var out []Artisan
	for _, a := range s.GetAll(ctx) {
		if a.SousCategorie.Categorie.ID == categoryID {
			out = append(out, a)
		}
	}
	return out
}

func (s *ArtisanService) BySubcategory(ctx context.Context, subcategoryID int) []Artisan {
	var out []Artisan
	for _, a := range s.GetAll(ctx) {
		if a.SousCategorie.ID == subcategoryID {
			out = append(out, a)
		}
	}
	return out
}

// Search matches the folded query against name, profession, address and
// category labels. Queries shorter than two characters return nothing;
// the minimum counts runes, not bytes.
func (s *ArtisanService) Search(ctx context.Context, query string) []Artisan {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < 2 {
		return nil
	}

	term := fold(query)

	var out []Artisan
	for _, a := range s.GetAll(ctx) {
		haystack := []string{
			a.Nom,
			a.Prenom,
			a.Profession,
			a.Adresse,
			a.SousCategorie.Libelle,
			a.SousCategorie.Categorie.Libelle,
		}

		for _, field := range haystack {
			if field != "" && strings.Contains(fold(field), term) {
				out = append(out, a)
				break
			}
		}
	}

	return out
}

// Random returns up to n artisans drawn without replacement, for the
// rotating showcase sections.
func (s *ArtisanService) Random(ctx context.Context, n int) []Artisan {
	all := s.GetAll(ctx)
	if n <= 0 || len(all) == 0 {
		return nil
	}

	picked := make([]Artisan, len(all))
	copy(picked, all)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	if n < len(picked) {
		picked = picked[:n]
	}
	return picked
}

func (s *ArtisanService) ByID(ctx context.Context, id int) (Artisan, bool) {
	for _, a := range s.GetAll(ctx) {
		if a.ID == id {
			return a, true
		}
	}
	return Artisan{}, false
}

// ClearCache empties the slot; the next read hits the network.
func (s *ArtisanService) ClearCache() {
	s.cache.Invalidate(slotArtisans)
}

func (s *ArtisanService) Stats() stats.Stats {
	return s.counter.Snapshot()
}
