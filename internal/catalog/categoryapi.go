package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/alonu/alonu-client/internal/api"
)

// CategoryAPI is the thin endpoint wrapper for category and subcategory
// reads. Path construction only; caching and fallbacks live in
// CategoryService.
type CategoryAPI struct {
	client *api.Client
}

func NewCategoryAPI(client *api.Client) *CategoryAPI {
	return &CategoryAPI{client: client}
}

func (a *CategoryAPI) All(ctx context.Context) ([]Category, error) {
	return getList[Category](ctx, a.client, "/categorie")
}

func (a *CategoryAPI) NotDeleted(ctx context.Context) ([]Category, error) {
	return getList[Category](ctx, a.client, "/categorie_not_deleted")
}

func (a *CategoryAPI) ByID(ctx context.Context, id int) (Category, error) {
	resp, err := api.Get[Category](ctx, a.client, fmt.Sprintf("/categorie/%d", id))
	return resp.Data, err
}

func (a *CategoryAPI) Search(ctx context.Context, query string) ([]Category, error) {
	return getList[Category](ctx, a.client, "/categorie/search/"+url.PathEscape(query))
}

func (a *CategoryAPI) Subcategories(ctx context.Context) ([]Subcategory, error) {
	return getList[Subcategory](ctx, a.client, "/sous_categorie")
}

func (a *CategoryAPI) SubcategoriesNotDeleted(ctx context.Context) ([]Subcategory, error) {
	return getList[Subcategory](ctx, a.client, "/sous_categorie_not_deleted")
}

// SubcategoriesAuth reads the protected subcategory listing with an
// explicit token.
func (a *CategoryAPI) SubcategoriesAuth(ctx context.Context, token string) ([]Subcategory, error) {
	return getList[Subcategory](ctx, a.client, "/auth/sous_categorie_auth", api.WithToken(token))
}

func (a *CategoryAPI) SubcategoriesByCategory(ctx context.Context, categoryID int) ([]Subcategory, error) {
	return getList[Subcategory](ctx, a.client, fmt.Sprintf("/sous_categorie/categorie/%d", categoryID))
}

// getList fetches an endpoint whose payload is a list in either of the
// backend's two shapes.
func getList[T any](ctx context.Context, c *api.Client, endpoint string, opts ...api.RequestOption) ([]T, error) {
	resp, err := api.Get[json.RawMessage](ctx, c, endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return api.DecodeList[T](resp.Raw), nil
}
