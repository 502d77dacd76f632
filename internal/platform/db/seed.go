package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kpiboard/internal/domain/auth"
	"kpiboard/internal/platform/config"
)

// Seed creates the bootstrap admin account when it does not exist yet.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	if email == "" {
		return nil
	}
	if strings.TrimSpace(cfg.SeedAdminPassword) == "" {
		slog.Warn("seed admin skipped: no password configured", "email", email)
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id::text FROM users WHERE lower(email) = lower($1)", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, full_name, role, password_hash, status)
    VALUES ($1,$2,$3,$4,$5)
  `, email, cfg.SeedAdminName, auth.RoleAdmin, hash, auth.UserStatusActive)
	if err != nil {
		return err
	}
	slog.Info("seeded admin user", "email", email)
	return nil
}
