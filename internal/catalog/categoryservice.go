package catalog

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/alonu/alonu-client/internal/storage"
	"github.com/maypok86/otter/v2"
	"github.com/maypok86/otter/v2/stats"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	slotCategories    = "categories"
	slotSubcategories = "subcategories"
)

// CategoryService serves the merged category/subcategory listing from a
// single cached snapshot: an in-memory TTL slot backed by a longer-lived
// persisted copy. Reads during a miss may race and both fetch; the last
// write wins. The payload is idempotent reference data, so the race only
// costs a duplicate call and no locking is used, matching the token
// cache trade-off.
type CategoryService struct {
	api         *CategoryAPI
	store       *storage.Store
	publicToken string
	persistTTL  time.Duration

	views   *otter.Cache[string, []CategoryView]
	subs    *otter.Cache[string, []Subcategory]
	counter *stats.Counter
}

func NewCategoryService(capi *CategoryAPI, store *storage.Store, publicToken string, memoryTTL, persistTTL time.Duration) *CategoryService {
	counter := stats.NewCounter()

	return &CategoryService{
		api:         capi,
		store:       store,
		publicToken: publicToken,
		persistTTL:  persistTTL,
		views: otter.Must(&otter.Options[string, []CategoryView]{
			MaximumSize:      2,
			StatsRecorder:    counter,
			ExpiryCalculator: otter.ExpiryCreating[string, []CategoryView](memoryTTL),
		}),
		subs: otter.Must(&otter.Options[string, []Subcategory]{
			MaximumSize:      2,
			ExpiryCalculator: otter.ExpiryCreating[string, []Subcategory](memoryTTL),
		}),
		counter: counter,
	}
}

// GetAllCategories returns the merged, non-deleted category list. Fetch
// failures degrade to the built-in fallback; the caller never sees an
// error.
func (s *CategoryService) GetAllCategories(ctx context.Context) []CategoryView {
	if entry, ok := s.views.GetEntry(slotCategories); ok {
		log.Debug().Msg("category cache hit")
		return entry.Value
	}

	if views := s.loadPersisted(); views != nil {
		s.views.Set(slotCategories, views)
		return views
	}

	categories, subcategories, err := s.fetch(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("category fetch failed, serving fallback list")
		return FallbackCategories()
	}

	views := MapCategories(categories, subcategories)
	s.views.Set(slotCategories, views)
	s.subs.Set(slotSubcategories, subcategories)
	s.persist(views)

	return views
}

// fetch runs the two listing calls concurrently, each through its ordered
// strategy chain, and joins before merging.
func (s *CategoryService) fetch(ctx context.Context) ([]Category, []Subcategory, error) {
	var categories []Category
	var subcategories []Subcategory

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		categories, err = fetchFirst(gctx, "categories", []strategy[Category]{
			{name: "not_deleted", fetch: s.api.NotDeleted},
			{name: "all", fetch: s.api.All},
		})
		return err
	})

	g.Go(func() error {
		var err error
		subcategories, err = fetchFirst(gctx, "subcategories", s.subcategoryStrategies())
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return categories, subcategories, nil
}

// subcategoryStrategies prefers the authenticated not-deleted listing
// when a session or public token is at hand, then the public not-deleted
// endpoint, then the unfiltered one.
func (s *CategoryService) subcategoryStrategies() []strategy[Subcategory] {
	var strategies []strategy[Subcategory]

	token, _ := s.store.Get(storage.KeyAccessToken)
	if token == "" {
		token = s.publicToken
	}
	if token != "" {
		strategies = append(strategies, strategy[Subcategory]{
			name: "auth",
			fetch: func(ctx context.Context) ([]Subcategory, error) {
				return s.api.SubcategoriesAuth(ctx, token)
			},
		})
	}

	return append(strategies,
		strategy[Subcategory]{name: "not_deleted", fetch: s.api.SubcategoriesNotDeleted},
		strategy[Subcategory]{name: "all", fetch: s.api.Subcategories},
	)
}

// SubcategoriesByCategory lists the labels of the category's non-deleted
// subcategories from the cached snapshot, fetching only when the snapshot
// is completely empty.
func (s *CategoryService) SubcategoriesByCategory(ctx context.Context, categoryID string) []string {
	id, err := strconv.Atoi(categoryID)
	if err != nil {
		return nil
	}

	var labels []string
	for _, sub := range s.ensureSubcategories(ctx) {
		if sub.Categorie.ID == id && !sub.Deleted {
			labels = append(labels, sub.Libelle)
		}
	}
	return labels
}

func (s *CategoryService) SubcategoriesWithIDsByCategory(ctx context.Context, categoryID string) []SubcategoryRef {
	id, err := strconv.Atoi(categoryID)
	if err != nil {
		return nil
	}

	var refs []SubcategoryRef
	for _, sub := range s.ensureSubcategories(ctx) {
		if sub.Categorie.ID == id && !sub.Deleted {
			refs = append(refs, SubcategoryRef{ID: sub.ID, Name: sub.Libelle})
		}
	}
	return refs
}

// FindSubcategoryIDByName resolves a subcategory by label within a
// category. Matching is case- and diacritic-insensitive and accepts exact
// or substring matches; the first match in snapshot order wins.
func (s *CategoryService) FindSubcategoryIDByName(ctx context.Context, categoryID, name string) (int, bool) {
	id, err := strconv.Atoi(categoryID)
	if err != nil {
		return 0, false
	}

	target := fold(name)
	for _, sub := range s.ensureSubcategories(ctx) {
		if sub.Categorie.ID != id || sub.Libelle == "" {
			continue
		}

		label := fold(sub.Libelle)
		if label == target || strings.Contains(label, target) {
			return sub.ID, true
		}
	}

	return 0, false
}

func (s *CategoryService) ensureSubcategories(ctx context.Context) []Subcategory {
	if entry, ok := s.subs.GetEntry(slotSubcategories); ok {
		return entry.Value
	}

	subcategories, err := s.api.Subcategories(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("subcategory fetch failed")
		return nil
	}

	s.subs.Set(slotSubcategories, subcategories)
	return subcategories
}

// ClearCache empties both slots and the persisted snapshot: the next read
// is guaranteed to hit the network.
func (s *CategoryService) ClearCache() {
	s.views.Invalidate(slotCategories)
	s.subs.Invalidate(slotSubcategories)
	s.store.Delete(storage.KeyCategoriesCache, storage.KeyCategoriesCacheExpiry)
}

// Stats exposes hit/miss counters for diagnostics.
func (s *CategoryService) Stats() stats.Stats {
	return s.counter.Snapshot()
}

func (s *CategoryService) loadPersisted() []CategoryView {
	raw, okRaw := s.store.Get(storage.KeyCategoriesCache)
	stamp, okStamp := s.store.Get(storage.KeyCategoriesCacheExpiry)
	if !okRaw || !okStamp {
		return nil
	}

	expiry, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil || time.Now().UnixMilli() >= expiry {
		s.store.Delete(storage.KeyCategoriesCache, storage.KeyCategoriesCacheExpiry)
		return nil
	}

	var views []CategoryView
	if err := json.Unmarshal([]byte(raw), &views); err != nil || len(views) == 0 {
		s.store.Delete(storage.KeyCategoriesCache, storage.KeyCategoriesCacheExpiry)
		return nil
	}

	log.Debug().Msg("category snapshot adopted from durable cache")
	return views
}

func (s *CategoryService) persist(views []CategoryView) {
	data, err := json.Marshal(views)
	if err != nil {
		log.Debug().Err(err).Msg("category snapshot marshal failed")
		return
	}

	expiry := time.Now().Add(s.persistTTL).UnixMilli()
	s.store.SetAll(map[string]string{
		storage.KeyCategoriesCache:       string(data),
		storage.KeyCategoriesCacheExpiry: strconv.FormatInt(expiry, 10),
	})
}
