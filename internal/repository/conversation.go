package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"project_ria/internal/apperr"
	"project_ria/internal/entities"
)

type ConversationRepository struct {
	db *pgxpool.Pool
}

func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// RecentTurns returns the last limit turns of a session in chronological
// order (oldest first).
func (r *ConversationRepository) RecentTurns(ctx context.Context, sessionID string, limit int) ([]entities.Turn, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, client_id, session_id, role, content, created_at
		FROM conversations
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "conversation.recent", err)
	}
	defer rows.Close()

	var turns []entities.Turn
	for rows.Next() {
		var t entities.Turn
		if err := rows.Scan(&t.ID, &t.TenantID, &t.SessionID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, "conversation.recent", err)
		}
		turns = append(turns, t)
	}

	// Newest-first from the query; flip to chronological.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// AppendExchange writes the user turn and the assistant turn in one
// transaction so a context window never observes half an exchange.
func (r *ConversationRepository) AppendExchange(ctx context.Context, userTurn, assistantTurn entities.Turn) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "conversation.append", err)
	}
	defer tx.Rollback(ctx)

	for _, turn := range []entities.Turn{userTurn, assistantTurn} {
		_, err := tx.Exec(ctx, `
			INSERT INTO conversations (client_id, session_id, role, content)
			VALUES ($1, $2, $3, $4)
		`, turn.TenantID, turn.SessionID, turn.Role, turn.Content)
		if err != nil {
			return apperr.Wrap(apperr.KindPersistence, "conversation.append", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Wrap(apperr.KindPersistence, "conversation.append", err)
	}
	return nil
}
