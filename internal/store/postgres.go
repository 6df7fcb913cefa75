package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/config"
)

const queryBatchSize = 200

// PostgresStore giữ connection pool và implement Store trên một bảng
// items duy nhất. Mọi entity kind nằm chung bảng, phân biệt bằng
// entity_type; by_entity index phục vụ reverse-chronological listing.
type PostgresStore struct {
	Pool   *pgxpool.Pool
	Config config.DatabaseConfig
}

func NewPostgresStore(cfg config.DatabaseConfig) *PostgresStore {
	return &PostgresStore{Config: cfg}
}

func (s *PostgresStore) connString() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		s.Config.User, s.Config.Password, s.Config.Host, s.Config.Port, s.Config.Database, s.Config.SSLMode,
	)
}

// Connect establish pool với retry + exponential backoff.
func (s *PostgresStore) Connect(ctx context.Context) error {
	log.Info().Msg("[STORE] Initializing PostgreSQL connection...")

	poolCfg, err := pgxpool.ParseConfig(s.connString())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}
	poolCfg.MaxConns = s.Config.MaxConns
	poolCfg.MinConns = s.Config.MinConns
	poolCfg.ConnConfig.ConnectTimeout = 10 * time.Second

	const maxRetries = 5
	var pool *pgxpool.Pool
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		pool, lastErr = pgxpool.NewWithConfig(ctx, poolCfg)
		if lastErr == nil {
			if err := pool.Ping(ctx); err != nil {
				pool.Close()
				lastErr = err
			} else {
				log.Info().Int("attempt", attempt).Msg("[STORE] Connected")
				s.Pool = pool
				return nil
			}
		}
		log.Warn().Err(lastErr).Int("attempt", attempt).Msg("[STORE] Connection attempt failed")
		if attempt < maxRetries {
			delay := time.Second * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}
	return fmt.Errorf("failed to connect after %d attempts: %w", maxRetries, lastErr)
}

// EnsureSchema tạo bảng và index nếu chưa có. Chạy lúc startup.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS items (
			pk          TEXT NOT NULL,
			sk          TEXT NOT NULL,
			entity_type TEXT NOT NULL DEFAULT '',
			entity_sk   TEXT NOT NULL DEFAULT '',
			attrs       JSONB NOT NULL DEFAULT '{}'::jsonb,
			PRIMARY KEY (pk, sk)
		)`,
		`CREATE INDEX IF NOT EXISTS by_entity ON items (entity_type, entity_sk DESC)`,
	}
	for _, stmt := range ddl {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	if s.Pool == nil {
		return fmt.Errorf("store pool is not initialized")
	}
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Pool.Ping(healthCtx); err != nil {
		return fmt.Errorf("store ping failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *PostgresStore) Get(ctx context.Context, pk, sk string) (*Item, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT pk, sk, entity_type, entity_sk, attrs FROM items WHERE pk = $1 AND sk = $2`,
		pk, sk,
	)
	var it Item
	err := row.Scan(&it.PK, &it.SK, &it.EntityType, &it.EntitySK, &it.Attrs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		// Read faults degrade to not-found; the caller's page still renders.
		log.Error().Err(err).Str("pk", pk).Str("sk", sk).Msg("[STORE] Get failed")
		return nil, nil
	}
	return &it, nil
}

func (s *PostgresStore) Put(ctx context.Context, item Item) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO items (pk, sk, entity_type, entity_sk, attrs)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (pk, sk) DO UPDATE
		 SET entity_type = EXCLUDED.entity_type,
		     entity_sk   = EXCLUDED.entity_sk,
		     attrs       = EXCLUDED.attrs`,
		item.PK, item.SK, item.EntityType, item.EntitySK, item.Attrs,
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", item.PK, item.SK, err)
	}
	return nil
}

func (s *PostgresStore) PutIfAbsent(ctx context.Context, item Item) (bool, error) {
	tag, err := s.Pool.Exec(ctx,
		`INSERT INTO items (pk, sk, entity_type, entity_sk, attrs)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (pk, sk) DO NOTHING`,
		item.PK, item.SK, item.EntityType, item.EntitySK, item.Attrs,
	)
	if err != nil {
		return false, fmt.Errorf("conditional put %s/%s: %w", item.PK, item.SK, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) Delete(ctx context.Context, pk, sk string) error {
	if _, err := s.Pool.Exec(ctx, `DELETE FROM items WHERE pk = $1 AND sk = $2`, pk, sk); err != nil {
		return fmt.Errorf("delete %s/%s: %w", pk, sk, err)
	}
	return nil
}

// QueryByType page hết index trước khi trả về, caller không bao giờ
// nhận partial page. Keyset pagination theo (entity_sk, pk) DESC.
func (s *PostgresStore) QueryByType(ctx context.Context, entityType string, filters map[string]interface{}) ([]Item, error) {
	items := []Item{}
	lastSK, lastPK := "", ""
	first := true

	for {
		var rows pgx.Rows
		var err error
		if first {
			rows, err = s.Pool.Query(ctx,
				`SELECT pk, sk, entity_type, entity_sk, attrs FROM items
				 WHERE entity_type = $1
				 ORDER BY entity_sk DESC, pk DESC
				 LIMIT $2`,
				entityType, queryBatchSize,
			)
		} else {
			rows, err = s.Pool.Query(ctx,
				`SELECT pk, sk, entity_type, entity_sk, attrs FROM items
				 WHERE entity_type = $1 AND (entity_sk, pk) < ($2, $3)
				 ORDER BY entity_sk DESC, pk DESC
				 LIMIT $4`,
				entityType, lastSK, lastPK, queryBatchSize,
			)
		}
		if err != nil {
			log.Error().Err(err).Str("entity_type", entityType).Msg("[STORE] QueryByType failed")
			return []Item{}, nil
		}

		batch, err := scanItems(rows)
		if err != nil {
			log.Error().Err(err).Str("entity_type", entityType).Msg("[STORE] QueryByType scan failed")
			return []Item{}, nil
		}
		for _, it := range batch {
			if matchesFilters(it, filters) {
				items = append(items, it)
			}
		}
		if len(batch) < queryBatchSize {
			return items, nil
		}
		last := batch[len(batch)-1]
		lastSK, lastPK = last.EntitySK, last.PK
		first = false
	}
}

func (s *PostgresStore) QueryPrefix(ctx context.Context, pk, skPrefix string) ([]Item, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT pk, sk, entity_type, entity_sk, attrs FROM items
		 WHERE pk = $1 AND sk LIKE $2 || '%'
		 ORDER BY sk`,
		pk, skPrefix,
	)
	if err != nil {
		log.Error().Err(err).Str("pk", pk).Str("sk_prefix", skPrefix).Msg("[STORE] QueryPrefix failed")
		return []Item{}, nil
	}
	items, err := scanItems(rows)
	if err != nil {
		log.Error().Err(err).Str("pk", pk).Msg("[STORE] QueryPrefix scan failed")
		return []Item{}, nil
	}
	return items, nil
}

func scanItems(rows pgx.Rows) ([]Item, error) {
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.PK, &it.SK, &it.EntityType, &it.EntitySK, &it.Attrs); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
