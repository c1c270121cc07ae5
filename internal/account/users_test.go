package account_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/alonu/alonu-client/internal/account"
	"github.com/alonu/alonu-client/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentUserDecodes(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("bootstrap-token", 0)
	backend.HandleJSON("GET /users_current", http.StatusOK, map[string]any{
		"idUser":   12,
		"username": "aya",
		"email":    "aya@example.com",
		"role":     2,
	})

	_, client, _ := newAuthFixture(t, backend)
	users := account.NewUserAPI(client)

	user, err := users.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, user.ID)
	assert.Equal(t, "aya", user.Username)
}

func TestUserListingsDecodeBothShapes(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("bootstrap-token", 0)
	backend.HandleJSON("GET /users_admin", http.StatusOK, []map[string]any{
		{"idUser": 1, "username": "root"},
	})
	backend.HandleJSON("GET /users_agent", http.StatusOK, map[string]any{
		"data": []map[string]any{{"idUser": 2, "username": "agent"}},
	})

	_, client, _ := newAuthFixture(t, backend)
	users := account.NewUserAPI(client)

	admins, err := users.Admins(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "root", admins[0].Username)

	agents, err := users.Agents(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, 2, agents[0].ID)
}

func TestUpdateCurrentUser(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("bootstrap-token", 0)
	backend.HandleJSON("PUT /users_current", http.StatusOK, map[string]any{
		"idUser":   12,
		"username": "aya",
		"nom":      "Kouassi",
	})

	_, client, _ := newAuthFixture(t, backend)
	users := account.NewUserAPI(client)

	user, err := users.UpdateCurrent(context.Background(), account.UserUpdate{Nom: "Kouassi"})
	require.NoError(t, err)
	assert.Equal(t, "Kouassi", user.Nom)
}
