package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"matchmaking/identity"
	"matchmaking/migrations"
	"matchmaking/storage"
)

var pgRepo *storage.PostgresRepo

func TestMain(m *testing.M) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine3.22",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	if err := migrations.Migrate(connString); err != nil {
		panic(err)
	}

	pgRepo, err = storage.NewPostgresRepo(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	// Cleanup
	pgRepo.Close()
	postgresContainer.Terminate(ctx)
	os.Exit(code)
}

func TestPostgresRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveCredential", func(t *testing.T) {
		err := pgRepo.SaveCredential(ctx, "conn-pg-1", "hashed_secret")
		assert.NoError(t, err)
	})

	t.Run("SaveCredential_Duplicate", func(t *testing.T) {
		err := pgRepo.SaveCredential(ctx, "conn-pg-1", "other_hash")
		assert.ErrorIs(t, err, identity.ErrDuplicateConnectionId)
	})

	t.Run("GetPasswordHash", func(t *testing.T) {
		hash, err := pgRepo.GetPasswordHash(ctx, "conn-pg-1")
		assert.NoError(t, err)
		assert.Equal(t, "hashed_secret", hash)
	})

	t.Run("GetPasswordHash_NotFound", func(t *testing.T) {
		_, err := pgRepo.GetPasswordHash(ctx, "conn-ghost")
		assert.ErrorIs(t, err, identity.ErrConnectionNotFound)
	})

	t.Run("DeleteCredential", func(t *testing.T) {
		require.NoError(t, pgRepo.SaveCredential(ctx, "conn-pg-2", "hash2"))

		assert.NoError(t, pgRepo.DeleteCredential(ctx, "conn-pg-2"))
		_, err := pgRepo.GetPasswordHash(ctx, "conn-pg-2")
		assert.ErrorIs(t, err, identity.ErrConnectionNotFound)
	})

	t.Run("DeleteCredential_NotFound", func(t *testing.T) {
		err := pgRepo.DeleteCredential(ctx, "conn-ghost")
		assert.ErrorIs(t, err, identity.ErrConnectionNotFound)
	})
}
