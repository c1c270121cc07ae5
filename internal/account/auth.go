// Package account covers end-user authentication, registration and the
// admin user-management endpoints.
package account

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/alonu/alonu-client/internal/api"
	"github.com/alonu/alonu-client/internal/storage"
	"github.com/rs/zerolog/log"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterData is the combined artisan/student registration payload.
type RegisterData struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Telephone string `json:"telephone"`
	Role      int    `json:"role"`

	// Artisan-specific optional fields.
	NumeroEnr       string `json:"numeroEnr,omitempty"`
	Adresse         string `json:"adresse,omitempty"`
	SousCategorieID int    `json:"idSousCategorie,omitempty"`
}

// Session is the identity returned by the sign-in flows; User passes
// through verbatim as the backend owns its shape.
type Session struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         json.RawMessage `json:"user"`
}

// AuthAPI wraps the end-user auth flows. Successful sign-ins persist the
// session and hand the access token to the client's token source so
// protected reads stop relying on the bootstrap account.
type AuthAPI struct {
	client *api.Client
	store  *storage.Store
}

func NewAuthAPI(client *api.Client, store *storage.Store) *AuthAPI {
	return &AuthAPI{client: client, store: store}
}

func (a *AuthAPI) Login(ctx context.Context, credentials Credentials) (Session, error) {
	resp, err := api.Post[Session](ctx, a.client, "/auth/signin_web", credentials)
	if err != nil {
		return Session{}, err
	}

	a.adopt(resp.Data)
	return resp.Data, nil
}

// Register creates an account via the primary endpoint and falls back to
// the check variant when the primary fails, mirroring the backend's
// intermittent failure mode on the main path.
func (a *AuthAPI) Register(ctx context.Context, data RegisterData) (Session, error) {
	resp, err := api.Post[Session](ctx, a.client, "/auth/signin-up-all", data)
	if err != nil {
		log.Debug().Err(err).Msg("primary registration failed, retrying check variant")

		resp, err = api.Post[Session](ctx, a.client, "/auth/signin-up-all-check", data)
		if err != nil {
			return Session{}, err
		}
	}

	a.adopt(resp.Data)
	return resp.Data, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	resp, err := api.Post[Session](ctx, a.client, "/auth/refreshtoken", refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return Session{}, err
	}

	a.adopt(resp.Data)
	return resp.Data, nil
}

// Logout destroys the persisted session and the in-memory token.
func (a *AuthAPI) Logout() {
	a.store.Delete(storage.KeyAccessToken, storage.KeyRefreshToken, storage.KeyUser)
	a.client.Tokens().Clear()
}

// CurrentSession reads the persisted identity, if any.
func (a *AuthAPI) CurrentSession() (Session, bool) {
	access, ok := a.store.Get(storage.KeyAccessToken)
	if !ok || access == "" {
		return Session{}, false
	}

	refresh, _ := a.store.Get(storage.KeyRefreshToken)
	user, _ := a.store.Get(storage.KeyUser)

	return Session{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         json.RawMessage(user),
	}, true
}

func (a *AuthAPI) adopt(session Session) {
	if session.AccessToken == "" {
		return
	}

	values := map[string]string{
		storage.KeyAccessToken:  session.AccessToken,
		storage.KeyRefreshToken: session.RefreshToken,
	}
	if len(session.User) > 0 {
		values[storage.KeyUser] = string(session.User)
	}

	a.store.SetAll(values)
	a.client.Tokens().SetToken(session.AccessToken)
}

// CheckUsername reports availability. The backend signals it purely by
// status: 200 means free. Any failure reads as unavailable.
func (a *AuthAPI) CheckUsername(ctx context.Context, username string) bool {
	return a.check(ctx, "/check_username_up/"+url.PathEscape(username))
}

func (a *AuthAPI) CheckEmail(ctx context.Context, email string) bool {
	return a.check(ctx, "/check_email_up/"+url.PathEscape(email))
}

func (a *AuthAPI) CheckTelephone(ctx context.Context, telephone string) bool {
	return a.check(ctx, "/check_telephone_up/"+url.PathEscape(telephone))
}

func (a *AuthAPI) CheckNumeroEnr(ctx context.Context, numeroEnr string) bool {
	return a.check(ctx, "/check_num_enr_up/"+url.PathEscape(numeroEnr))
}

func (a *AuthAPI) check(ctx context.Context, endpoint string) bool {
	resp, err := api.Get[json.RawMessage](ctx, a.client, endpoint)
	if err != nil {
		return false
	}
	return resp.Status == 200
}
