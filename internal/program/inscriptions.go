// Package program covers the student-program surface: project enrollment
// and availability schedules.
package program

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/alonu/alonu-client/internal/api"
	"github.com/alonu/alonu-client/internal/catalog"
)

// Inscription is a student's program enrollment.
type Inscription struct {
	ID        int               `json:"idInscriptionProjet"`
	Nom       string            `json:"nom"`
	Prenom    string            `json:"prenom"`
	Telephone string            `json:"telephone"`
	Email     string            `json:"email,omitempty"`
	Categorie *catalog.Category `json:"categories,omitempty"`
	ArtisanID int               `json:"idArtisan,omitempty"`
	Deleted   bool              `json:"deleted"`
}

// InscriptionCreate is the enrollment submission payload.
type InscriptionCreate struct {
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	Telephone   string `json:"telephone"`
	Email       string `json:"email,omitempty"`
	CategorieID int    `json:"idCategorie"`
	Commentaire string `json:"commentaire,omitempty"`
}

type InscriptionAPI struct {
	client *api.Client
}

func NewInscriptionAPI(client *api.Client) *InscriptionAPI {
	return &InscriptionAPI{client: client}
}

func (a *InscriptionAPI) NotDeleted(ctx context.Context) ([]Inscription, error) {
	return a.list(ctx, "/inscription_projets_not_deleted")
}

func (a *InscriptionAPI) Page(ctx context.Context, page int) ([]Inscription, error) {
	return a.list(ctx, fmt.Sprintf("/inscription_projets_pages/%d", page))
}

func (a *InscriptionAPI) SearchPage(ctx context.Context, page int, term string) ([]Inscription, error) {
	return a.list(ctx, fmt.Sprintf("/search_inscription_projets/%d/%s", page, url.PathEscape(term)))
}

func (a *InscriptionAPI) Count(ctx context.Context) (int, error) {
	resp, err := api.Get[int](ctx, a.client, "/inscription_projets_count")
	return resp.Data, err
}

func (a *InscriptionAPI) ByCategory(ctx context.Context, categoryID int) ([]Inscription, error) {
	return a.list(ctx, fmt.Sprintf("/inscription_projets_by_cat/%d", categoryID))
}

func (a *InscriptionAPI) ByArtisan(ctx context.Context, artisanID int) ([]Inscription, error) {
	return a.list(ctx, fmt.Sprintf("/inscription_projets/by_artisan/%d", artisanID))
}

func (a *InscriptionAPI) Create(ctx context.Context, payload InscriptionCreate) (Inscription, error) {
	resp, err := api.Post[Inscription](ctx, a.client, "/inscription_projets", payload)
	return resp.Data, err
}

type assignRequest struct {
	ArtisanID int `json:"artisanId"`
}

// Assign places an enrollment with an artisan.
func (a *InscriptionAPI) Assign(ctx context.Context, inscriptionID, artisanID int) error {
	endpoint := fmt.Sprintf("/inscription_projets/%d/assigner", inscriptionID)
	_, err := api.Put[json.RawMessage](ctx, a.client, endpoint, assignRequest{ArtisanID: artisanID})
	return err
}

func (a *InscriptionAPI) list(ctx context.Context, endpoint string) ([]Inscription, error) {
	resp, err := api.Get[json.RawMessage](ctx, a.client, endpoint)
	if err != nil {
		return nil, err
	}
	return api.DecodeList[Inscription](resp.Raw), nil
}
