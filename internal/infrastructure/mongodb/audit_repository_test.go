package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// startMongo levanta un mongo:6 efímero; sin Docker la prueba se salta.
func startMongo(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("integración: omitida con -short")
	}
	ctx := context.Background()
	container, err := tcmongo.Run(ctx, "mongo:6")
	if err != nil {
		t.Skipf("docker no disponible: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })
	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return uri
}

func TestAuditRepository_AppendList(t *testing.T) {
	uri := startMongo(t)
	ctx := context.Background()
	client, err := Connect(ctx, Config{URI: uri})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	repo := NewAuditRepository(client.Database("comercio_test"))
	require.NoError(t, repo.EnsureIndexes(ctx))

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	entries := []entity.AuditEntry{
		{CompanyID: "c1", Entity: "sale", EntityID: "s1", Action: entity.AuditCreate, At: base},
		{CompanyID: "c1", Entity: "sale", EntityID: "s1", Action: entity.AuditVoid, ModFlag: 1, At: base.Add(time.Hour)},
		{CompanyID: "c1", Entity: "product", EntityID: "p1", Action: entity.AuditCreate, At: base},
		{CompanyID: "c2", Entity: "sale", EntityID: "s9", Action: entity.AuditCreate, At: base},
	}
	for _, e := range entries {
		require.NoError(t, repo.Append(ctx, e))
	}

	got, err := repo.List(ctx, "c1", "sale", "s1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entity.AuditVoid, got[0].Action)
	assert.Equal(t, 1, got[0].ModFlag)

	got, err = repo.List(ctx, "c1", "", "", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = repo.List(ctx, "c3", "", "", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
