package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"project_ria/internal/apperr"
)

// UsageRepository tracks per-tenant daily chat counts. The usage_logs row is
// the canonical usage source; the gate reads it at request start and the
// committer bumps it once per accepted request. Read-then-increment is not
// atomic across requests, so modest overrun under bursts is possible.
type UsageRepository struct {
	db *pgxpool.Pool
}

func NewUsageRepository(db *pgxpool.Pool) *UsageRepository {
	return &UsageRepository{db: db}
}

// TodayCount returns today's processed message count, 0 when no row exists.
func (r *UsageRepository) TodayCount(ctx context.Context, tenantID string) (int, error) {
	today := time.Now().Format("2006-01-02")
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT chat_count FROM usage_logs
		WHERE client_id = $1 AND usage_date = $2
	`, tenantID, today).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, apperr.Wrap(apperr.KindPersistence, "usage.today", err)
	}
	return count, nil
}

// Increment bumps today's count by one, creating the row if needed.
func (r *UsageRepository) Increment(ctx context.Context, tenantID string) error {
	today := time.Now().Format("2006-01-02")
	_, err := r.db.Exec(ctx, `
		INSERT INTO usage_logs (client_id, usage_date, chat_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (client_id, usage_date)
		DO UPDATE SET chat_count = usage_logs.chat_count + 1
	`, tenantID, today)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "usage.increment", err)
	}
	return nil
}

// History returns the last days of usage for the dashboard.
func (r *UsageRepository) History(ctx context.Context, tenantID string, days int) ([]DailyUsage, error) {
	startDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	rows, err := r.db.Query(ctx, `
		SELECT usage_date, chat_count FROM usage_logs
		WHERE client_id = $1 AND usage_date >= $2
		ORDER BY usage_date ASC
	`, tenantID, startDate)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "usage.history", err)
	}
	defer rows.Close()

	usage := []DailyUsage{}
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.ChatCount); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, "usage.history", err)
		}
		usage = append(usage, u)
	}
	return usage, nil
}

type DailyUsage struct {
	Date      time.Time `json:"date"`
	ChatCount int       `json:"chat_count"`
}
