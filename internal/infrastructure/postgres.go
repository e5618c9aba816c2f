package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func NewPostgresClient(connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}

	if err := client.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

func (p *PostgresClient) Migrate() error {
	ctx := context.Background()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS clients (
			id VARCHAR(64) PRIMARY KEY,
			business_name VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			plan_type VARCHAR(20) NOT NULL DEFAULT 'Lite',
			currency VARCHAR(10) NOT NULL DEFAULT 'Rs.',
			telegram_chat_id VARCHAR(32) DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS bot_configs (
			client_id VARCHAR(64) PRIMARY KEY REFERENCES clients(id) ON DELETE CASCADE,
			bot_name VARCHAR(100) NOT NULL DEFAULT 'Ria',
			persona TEXT DEFAULT '',
			knowledge_base TEXT DEFAULT '',
			welcome_message TEXT DEFAULT '',
			accent_color VARCHAR(20) DEFAULT '#4F46E5',
			temperature DECIMAL(3, 2) DEFAULT 0.6,
			history_window INT DEFAULT 6,
			limit_message TEXT DEFAULT '',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			client_id VARCHAR(64) NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			description TEXT DEFAULT '',
			price VARCHAR(50) DEFAULT '',
			image_url TEXT DEFAULT '',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id BIGSERIAL PRIMARY KEY,
			client_id VARCHAR(64) NOT NULL,
			session_id VARCHAR(128) NOT NULL,
			role VARCHAR(20) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_session
			ON conversations (session_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS usage_logs (
			client_id VARCHAR(64) NOT NULL,
			usage_date DATE NOT NULL,
			chat_count INT NOT NULL DEFAULT 0,
			PRIMARY KEY (client_id, usage_date)
		);`,
		`CREATE TABLE IF NOT EXISTS leads (
			id UUID PRIMARY KEY,
			client_id VARCHAR(64) NOT NULL,
			customer_name VARCHAR(255) DEFAULT '',
			customer_phone VARCHAR(64) DEFAULT '',
			interest_summary TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			client_id VARCHAR(64) NOT NULL,
			details TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS admin_users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) DEFAULT 'owner',
			client_id VARCHAR(64) DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, ddl := range statements {
		if _, err := p.Pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
