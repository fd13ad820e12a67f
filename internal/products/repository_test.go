package product

import (
	"context"
	"testing"

	"github.com/angelmondragon/inventory-backend/pkg/db/dbtest"
	"github.com/angelmondragon/inventory-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	client := dbtest.NewSQLite(t)
	repo := NewRepository(client.DB())
	require.NoError(t, repo.EnsureSchema(ctx))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.Create(ctx, &models.Product{ID: 10, Name: "Mouse", Description: "Wireless", Price: 19.5, Quantity: 3}))

	row, err := repo.FindByID(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Mouse", row.Name)

	missing, err := repo.FindByID(ctx, 11)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.UpdateFields(ctx, row, ProductDTO{ID: 999, Name: "Trackball", Description: "Wired", Price: 25, Quantity: 0}))
	row, err = repo.FindByID(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, models.Product{ID: 10, Name: "Trackball", Description: "Wired", Price: 25, Quantity: 0}, *row)

	require.NoError(t, repo.Delete(ctx, row))
	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepositoryEnsureSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	client := dbtest.NewSQLite(t)
	repo := NewRepository(client.DB())

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.Create(ctx, &models.Product{ID: 1, Name: "kept"}))
	require.NoError(t, repo.EnsureSchema(ctx))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
