package account

import (
	"context"
	"encoding/json"

	"github.com/alonu/alonu-client/internal/api"
)

// User is the backend user DTO as the admin endpoints emit it.
type User struct {
	ID       int    `json:"idUser"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Nom      string `json:"nom"`
	Prenom   string `json:"prenom"`
	Avatar   string `json:"avatar,omitempty"`
	Role     int    `json:"role"`
	Deleted  bool   `json:"deleted"`
}

// UserUpdate carries the editable fields of the current user. Zero-valued
// fields are omitted from the payload.
type UserUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Nom      string `json:"nom,omitempty"`
	Prenom   string `json:"prenom,omitempty"`
}

// UserAPI wraps the admin user-management endpoints.
type UserAPI struct {
	client *api.Client
}

func NewUserAPI(client *api.Client) *UserAPI {
	return &UserAPI{client: client}
}

func (a *UserAPI) Current(ctx context.Context) (User, error) {
	resp, err := api.Get[User](ctx, a.client, "/users_current")
	return resp.Data, err
}

func (a *UserAPI) UpdateCurrent(ctx context.Context, update UserUpdate) (User, error) {
	resp, err := api.Put[User](ctx, a.client, "/users_current", update)
	return resp.Data, err
}

func (a *UserAPI) Admins(ctx context.Context) ([]User, error) {
	return a.list(ctx, "/users_admin")
}

func (a *UserAPI) Agents(ctx context.Context) ([]User, error) {
	return a.list(ctx, "/users_agent")
}

func (a *UserAPI) NotDeleted(ctx context.Context) ([]User, error) {
	return a.list(ctx, "/users_not_deleted")
}

func (a *UserAPI) Deleted(ctx context.Context) ([]User, error) {
	return a.list(ctx, "/users_deleted")
}

func (a *UserAPI) list(ctx context.Context, endpoint string) ([]User, error) {
	resp, err := api.Get[json.RawMessage](ctx, a.client, endpoint)
	if err != nil {
		return nil, err
	}
	return api.DecodeList[User](resp.Raw), nil
}
