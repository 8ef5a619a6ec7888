package data

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/echomind/internal/models"
)

// AddJournal сохраняет запись дневника
func (s *Service) AddJournal(ctx context.Context, entry *models.JournalEntry) (*models.Record, error) {
	if strings.TrimSpace(entry.Content) == "" {
		return nil, fmt.Errorf("journal content is empty")
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	return s.Save(ctx, models.CollectionJournals, entry.ID, entry)
}

// ListJournals возвращает записи дневника, новые первыми
func (s *Service) ListJournals(ctx context.Context) ([]*models.JournalEntry, error) {
	return listTyped[models.JournalEntry](ctx, s, models.CollectionJournals)
}

// AddChatMessage сохраняет сообщение диалога
func (s *Service) AddChatMessage(ctx context.Context, msg *models.ChatMessage) (*models.Record, error) {
	if strings.TrimSpace(msg.Content) == "" {
		return nil, fmt.Errorf("message content is empty")
	}
	switch msg.Role {
	case "":
		msg.Role = models.ChatRoleUser
	case models.ChatRoleUser, models.ChatRoleAssistant:
	default:
		return nil, fmt.Errorf("unknown chat role %q", msg.Role)
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now().UTC()
	}
	return s.Save(ctx, models.CollectionChatMessages, msg.ID, msg)
}

// ListChatMessages возвращает сообщения диалога в хронологическом порядке.
// Пустой conversationID возвращает все сообщения.
func (s *Service) ListChatMessages(ctx context.Context, conversationID string) ([]*models.ChatMessage, error) {
	all, err := listTyped[models.ChatMessage](ctx, s, models.CollectionChatMessages)
	if err != nil {
		return nil, err
	}

	result := make([]*models.ChatMessage, 0, len(all))
	// listTyped отдает новые первыми
	for i := len(all) - 1; i >= 0; i-- {
		if conversationID == "" || all[i].ConversationID == conversationID {
			result = append(result, all[i])
		}
	}
	return result, nil
}

// ListDailyPrompts возвращает ежедневные вопросы
func (s *Service) ListDailyPrompts(ctx context.Context) ([]*models.DailyPrompt, error) {
	return listTyped[models.DailyPrompt](ctx, s, models.CollectionDailyPrompts)
}

func listTyped[T any](ctx context.Context, s *Service, collection string) ([]*T, error) {
	records, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	result := make([]*T, 0, len(records))
	for _, r := range records {
		v := new(T)
		if err := r.Decode(v); err != nil {
			s.logger.Warn("Skipping undecodable record", "collection", collection, "record_id", r.ID, "error", err)
			continue
		}
		result = append(result, v)
	}
	return result, nil
}
