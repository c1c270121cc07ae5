package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/alonu/alonu-client/internal/api"
)

// ArtisanAdminAPI covers the administration surface: deleted listings and
// batch activation toggles.
type ArtisanAdminAPI struct {
	client *api.Client
}

func NewArtisanAdminAPI(client *api.Client) *ArtisanAdminAPI {
	return &ArtisanAdminAPI{client: client}
}

func (a *ArtisanAdminAPI) Deleted(ctx context.Context) ([]Artisan, error) {
	return getList[Artisan](ctx, a.client, "/artisans_deleted")
}

func (a *ArtisanAdminAPI) SearchPage(ctx context.Context, page int, term string) ([]Artisan, error) {
	endpoint := fmt.Sprintf("/artisans_search_page/%d/%s", page, url.PathEscape(term))
	return getList[Artisan](ctx, a.client, endpoint)
}

type artisanRef struct {
	IDArtisan int `json:"idArtisan"`
}

// ActivateBatch enables the given artisans. A 2xx response is the only
// confirmation the backend provides; list reloads reflect the new state.
func (a *ArtisanAdminAPI) ActivateBatch(ctx context.Context, ids []int) error {
	return a.toggleBatch(ctx, "/artisans_active", ids)
}

func (a *ArtisanAdminAPI) DeactivateBatch(ctx context.Context, ids []int) error {
	return a.toggleBatch(ctx, "/artisans_desactive", ids)
}

func (a *ArtisanAdminAPI) toggleBatch(ctx context.Context, endpoint string, ids []int) error {
	refs := make([]artisanRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, artisanRef{IDArtisan: id})
	}

	_, err := api.Put[json.RawMessage](ctx, a.client, endpoint, refs)
	return err
}
