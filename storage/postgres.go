// Package storage provides the durable credential repo backends. Both
// implement identity.CredentialRepo; the server picks one at startup.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"matchmaking/domain"
	"matchmaking/identity"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) SaveCredential(ctx context.Context, connectionId, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO connections(connection_id, password_hash) VALUES($1, $2)",
		connectionId, passwordHash)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// "23505" is the PostgreSQL error code for unique_violation
			if pgErr.Code == "23505" {
				return identity.ErrDuplicateConnectionId
			}
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}

	return nil
}

func (r *PostgresRepo) GetPasswordHash(ctx context.Context, connectionId string) (string, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT password_hash FROM connections WHERE connection_id = $1", connectionId)

	var hash string
	err := row.Scan(&hash)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return "", identity.ErrConnectionNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return "", err
		default:
			return "", fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
		}
	}

	return hash, nil
}

func (r *PostgresRepo) DeleteCredential(ctx context.Context, connectionId string) error {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM connections WHERE connection_id = $1", connectionId)

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrConnectionNotFound
	}

	return nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}
