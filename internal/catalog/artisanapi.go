package catalog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/alonu/alonu-client/internal/api"
)

// ArtisanAPI wraps the public artisan listing and search endpoints.
type ArtisanAPI struct {
	client *api.Client
}

func NewArtisanAPI(client *api.Client) *ArtisanAPI {
	return &ArtisanAPI{client: client}
}

func (a *ArtisanAPI) All(ctx context.Context) ([]Artisan, error) {
	return getList[Artisan](ctx, a.client, "/artisans")
}

func (a *ArtisanAPI) NotDeleted(ctx context.Context) ([]Artisan, error) {
	return getList[Artisan](ctx, a.client, "/artisans_not_deleted")
}

func (a *ArtisanAPI) ByID(ctx context.Context, id int) (Artisan, error) {
	resp, err := api.Get[Artisan](ctx, a.client, fmt.Sprintf("/artisans/%d", id))
	return resp.Data, err
}

func (a *ArtisanAPI) Search(ctx context.Context, query string) ([]Artisan, error) {
	return getList[Artisan](ctx, a.client, "/artisans/search/"+url.PathEscape(query))
}

func (a *ArtisanAPI) ByCategory(ctx context.Context, categoryID int) ([]Artisan, error) {
	return getList[Artisan](ctx, a.client, fmt.Sprintf("/artisans/categorie/%d", categoryID))
}

func (a *ArtisanAPI) BySubcategory(ctx context.Context, subcategoryID int) ([]Artisan, error) {
	return getList[Artisan](ctx, a.client, fmt.Sprintf("/artisans/sous_categorie/%d", subcategoryID))
}

func (a *ArtisanAPI) Page(ctx context.Context, page int) (api.Page[Artisan], error) {
	resp, err := api.Get[api.Page[Artisan]](ctx, a.client, fmt.Sprintf("/artisans_pages/%d", page))
	return resp.Data, err
}

func (a *ArtisanAPI) SearchPage(ctx context.Context, page int, query string) (api.Page[Artisan], error) {
	endpoint := fmt.Sprintf("/artisans/search/page/%d/%s", page, url.PathEscape(query))
	resp, err := api.Get[api.Page[Artisan]](ctx, a.client, endpoint)
	return resp.Data, err
}

// Premium reads the rotating premium selection shown on the landing page.
func (a *ArtisanAPI) Premium(ctx context.Context) ([]Artisan, error) {
	return getList[Artisan](ctx, a.client, "/auth/artisans_last_premium")
}
