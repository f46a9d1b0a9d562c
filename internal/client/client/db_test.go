package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashishkaushik/leazzy/internal/client/models"
)

func TestInitDatabase(t *testing.T) {
	repos, err := InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	defer repos.DB.Close()

	ctx := context.Background()

	// secure store is empty but queryable
	v, err := repos.Secure.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Nil(t, v)
	require.NoError(t, repos.Secure.Set(ctx, "auth_token", []byte("tok")))

	// listings cache round trip
	require.NoError(t, repos.Listings.ReplaceAll(ctx, []models.Property{
		{ID: "p1", Title: "2 BHK", Price: 15000},
	}))
	props, err := repos.Listings.List(ctx)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "p1", props[0].ID)
}
