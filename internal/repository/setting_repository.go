package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lelani/transport-backend/internal/model"
)

// SettingRepository stores the school's key-value settings.
type SettingRepository struct {
	pool *pgxpool.Pool
}

func NewSettingRepository(pool *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{pool: pool}
}

func (r *SettingRepository) GetAll(ctx context.Context) ([]model.AppSetting, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value, updated_at FROM app_settings ORDER BY key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := []model.AppSetting{}
	for rows.Next() {
		var s model.AppSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// GetMap returns every stored setting keyed by name.
func (r *SettingRepository) GetMap(ctx context.Context) (map[string]string, error) {
	settings, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(settings))
	for _, s := range settings {
		m[s.Key] = s.Value
	}
	return m, nil
}

// UpsertMany writes all values in a single transaction.
func (r *SettingRepository) UpsertMany(ctx context.Context, values map[string]string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for key, value := range values {
			if _, err := tx.Exec(ctx,
				`INSERT INTO app_settings (key, value, updated_at) VALUES ($1, $2, NOW())
				 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
				key, value); err != nil {
				return err
			}
		}
		return nil
	})
}
