package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"project_ria/internal/apperr"
	"project_ria/internal/entities"
)

type LeadRepository struct {
	db *pgxpool.Pool
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

// InsertLead writes one captured lead. There is no deduplication; the same
// contact captured across turns produces multiple rows.
func (r *LeadRepository) InsertLead(ctx context.Context, lead *entities.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO leads (id, client_id, customer_name, customer_phone, interest_summary)
		VALUES ($1, $2, $3, $4, $5)
	`, lead.ID, lead.TenantID, lead.Name, lead.Phone, lead.Interest)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "lead.insert", err)
	}
	return nil
}

// InsertOrder writes one captured order confirmation.
func (r *LeadRepository) InsertOrder(ctx context.Context, order *entities.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, client_id, details)
		VALUES ($1, $2, $3)
	`, order.ID, order.TenantID, order.Details)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "order.insert", err)
	}
	return nil
}

// RecentLeads lists the newest leads for the dashboard.
func (r *LeadRepository) RecentLeads(ctx context.Context, tenantID string, limit int) ([]entities.Lead, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, client_id, customer_name, customer_phone, interest_summary, created_at
		FROM leads WHERE client_id = $1
		ORDER BY created_at DESC LIMIT $2
	`, tenantID, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "lead.recent", err)
	}
	defer rows.Close()

	leads := []entities.Lead{}
	for rows.Next() {
		var l entities.Lead
		if err := rows.Scan(&l.ID, &l.TenantID, &l.Name, &l.Phone, &l.Interest, &l.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, "lead.recent", err)
		}
		leads = append(leads, l)
	}
	return leads, nil
}
