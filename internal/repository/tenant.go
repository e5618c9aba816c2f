package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"project_ria/internal/apperr"
	"project_ria/internal/entities"
)

type TenantRepository struct {
	db *pgxpool.Pool
}

func NewTenantRepository(db *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{db: db}
}

// Resolve loads the tenant, its bot configuration and its knowledge items in
// one logical fetch. A missing bot_configs row falls back to defaults so a
// freshly created tenant still answers.
func (r *TenantRepository) Resolve(ctx context.Context, tenantID string) (*entities.TenantProfile, error) {
	profile := &entities.TenantProfile{}

	err := r.db.QueryRow(ctx, `
		SELECT c.id, c.business_name, c.status, c.plan_type, c.currency,
		       COALESCE(c.telegram_chat_id, ''), c.created_at,
		       COALESCE(b.bot_name, 'Ria'), COALESCE(b.persona, ''),
		       COALESCE(b.knowledge_base, ''), COALESCE(b.welcome_message, ''),
		       COALESCE(b.accent_color, '#4F46E5'), COALESCE(b.temperature, 0.6),
		       COALESCE(b.history_window, 6), COALESCE(b.limit_message, '')
		FROM clients c
		LEFT JOIN bot_configs b ON b.client_id = c.id
		WHERE c.id = $1
	`, tenantID).Scan(
		&profile.Tenant.ID, &profile.Tenant.BusinessName, &profile.Tenant.Status,
		&profile.Tenant.Plan, &profile.Tenant.Currency, &profile.Tenant.TelegramChatID,
		&profile.Tenant.CreatedAt,
		&profile.Config.BotName, &profile.Config.Persona,
		&profile.Config.KnowledgeBase, &profile.Config.WelcomeMessage,
		&profile.Config.AccentColor, &profile.Config.Temperature,
		&profile.Config.HistoryWindow, &profile.Config.LimitMessage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.KindTenantNotFound, "tenant not found")
		}
		return nil, apperr.Wrap(apperr.KindPersistence, "tenant.resolve", err)
	}
	profile.Config.TenantID = profile.Tenant.ID

	rows, err := r.db.Query(ctx, `
		SELECT id, client_id, name, COALESCE(description, ''),
		       COALESCE(price, ''), COALESCE(image_url, ''), updated_at
		FROM products WHERE client_id = $1 ORDER BY id
	`, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "tenant.products", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entities.KnowledgeItem
		if err := rows.Scan(&item.ID, &item.TenantID, &item.Name, &item.Description,
			&item.Price, &item.ImageURL, &item.UpdatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, "tenant.products", err)
		}
		profile.Knowledge = append(profile.Knowledge, item)
	}

	return profile, nil
}

// UpdateConfig upserts the tenant's bot configuration.
func (r *TenantRepository) UpdateConfig(ctx context.Context, cfg *entities.BotConfig) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bot_configs (client_id, bot_name, persona, knowledge_base,
		                         welcome_message, accent_color, temperature,
		                         history_window, limit_message, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (client_id) DO UPDATE SET
			bot_name = EXCLUDED.bot_name,
			persona = EXCLUDED.persona,
			knowledge_base = EXCLUDED.knowledge_base,
			welcome_message = EXCLUDED.welcome_message,
			accent_color = EXCLUDED.accent_color,
			temperature = EXCLUDED.temperature,
			history_window = EXCLUDED.history_window,
			limit_message = EXCLUDED.limit_message,
			updated_at = NOW()
	`, cfg.TenantID, cfg.BotName, cfg.Persona, cfg.KnowledgeBase,
		cfg.WelcomeMessage, cfg.AccentColor, cfg.Temperature,
		cfg.HistoryWindow, cfg.LimitMessage)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "tenant.update_config", err)
	}
	return nil
}

// UpsertProduct inserts or updates one knowledge item.
func (r *TenantRepository) UpsertProduct(ctx context.Context, item *entities.KnowledgeItem) error {
	if item.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO products (client_id, name, description, price, image_url, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			RETURNING id
		`, item.TenantID, item.Name, item.Description, item.Price, item.ImageURL).Scan(&item.ID)
		if err != nil {
			return apperr.Wrap(apperr.KindPersistence, "tenant.insert_product", err)
		}
		return nil
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products SET name = $1, description = $2, price = $3,
		       image_url = $4, updated_at = NOW()
		WHERE id = $5 AND client_id = $6
	`, item.Name, item.Description, item.Price, item.ImageURL, item.ID, item.TenantID)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "tenant.update_product", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "product not found")
	}
	return nil
}

// DeleteProduct removes one knowledge item, scoped to the tenant.
func (r *TenantRepository) DeleteProduct(ctx context.Context, tenantID string, productID int) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM products WHERE id = $1 AND client_id = $2", productID, tenantID)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "tenant.delete_product", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "product not found")
	}
	return nil
}
