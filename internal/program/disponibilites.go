package program

import (
	"context"
	"fmt"

	"github.com/alonu/alonu-client/internal/api"
)

// Disponibilites is a student's availability schedule: day-of-week codes,
// time ranges, optional months and a free-text comment.
type Disponibilites struct {
	JoursSemaine   []string       `json:"joursSemaine"`
	PlagesHoraires []PlageHoraire `json:"plagesHoraires"`
	Mois           []int          `json:"mois,omitempty"`
	Commentaire    string         `json:"commentaire,omitempty"`
}

type PlageHoraire struct {
	Debut string `json:"debut"`
	Fin   string `json:"fin"`
}

type DisponibiliteAPI struct {
	client *api.Client
}

func NewDisponibiliteAPI(client *api.Client) *DisponibiliteAPI {
	return &DisponibiliteAPI{client: client}
}

func (a *DisponibiliteAPI) ForUser(ctx context.Context, userID int) (Disponibilites, error) {
	endpoint := fmt.Sprintf("/etudiants/%d/disponibilites", userID)
	resp, err := api.Get[Disponibilites](ctx, a.client, endpoint)
	return resp.Data, err
}

func (a *DisponibiliteAPI) UpdateForUser(ctx context.Context, userID int, payload Disponibilites) (Disponibilites, error) {
	endpoint := fmt.Sprintf("/etudiants/%d/disponibilites", userID)
	resp, err := api.Put[Disponibilites](ctx, a.client, endpoint, payload)
	return resp.Data, err
}
