// Package portfolio reads artisan portfolio items (réalisations).
package portfolio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alonu/alonu-client/internal/api"
)

type Realisation struct {
	ID          int      `json:"id"`
	Titre       string   `json:"titre"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

type RealisationAPI struct {
	client *api.Client
}

func NewRealisationAPI(client *api.Client) *RealisationAPI {
	return &RealisationAPI{client: client}
}

func (a *RealisationAPI) ByArtisan(ctx context.Context, artisanID int) ([]Realisation, error) {
	return a.list(ctx, fmt.Sprintf("/realisations_art/%d", artisanID))
}

func (a *RealisationAPI) ByUser(ctx context.Context, userID int) ([]Realisation, error) {
	return a.list(ctx, fmt.Sprintf("/realisations_user/%d", userID))
}

func (a *RealisationAPI) list(ctx context.Context, endpoint string) ([]Realisation, error) {
	resp, err := api.Get[json.RawMessage](ctx, a.client, endpoint)
	if err != nil {
		return nil, err
	}
	return api.DecodeList[Realisation](resp.Raw), nil
}
