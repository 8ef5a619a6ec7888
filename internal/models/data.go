package models

import "time"

// JournalEntry представляет запись дневника пользователя.
type JournalEntry struct {
	CreatedAt time.Time `json:"created_at"` // CreatedAt время создания
	ID        string    `json:"id"`         // ID уникальный идентификатор (UUID)
	Title     string    `json:"title"`      // Title заголовок
	Content   string    `json:"content"`    // Content текст записи
	Mood      string    `json:"mood"`       // Mood настроение (например, "calm", "anxious")
	Tags      []string  `json:"tags"`       // Tags теги для поиска
}

// ChatMessage представляет сообщение в диалоге с ассистентом.
type ChatMessage struct {
	CreatedAt      time.Time `json:"created_at"`      // CreatedAt время отправки
	ID             string    `json:"id"`              // ID уникальный идентификатор (UUID)
	ConversationID string    `json:"conversation_id"` // ConversationID идентификатор диалога
	Role           string    `json:"role"`            // Role "user" или "assistant"
	Content        string    `json:"content"`         // Content текст сообщения
}

// Resource представляет закешированный материал (статья, упражнение).
type Resource struct {
	ID       string `json:"id"`       // ID уникальный идентификатор
	Title    string `json:"title"`    // Title название
	URL      string `json:"url"`      // URL ссылка на материал
	Category string `json:"category"` // Category раздел каталога
	Summary  string `json:"summary"`  // Summary краткое описание
}

// Profile представляет профиль пользователя.
type Profile struct {
	ID          string `json:"id"`           // ID совпадает с UserID
	DisplayName string `json:"display_name"` // DisplayName отображаемое имя
	Timezone    string `json:"timezone"`     // Timezone часовой пояс
}

// DailyPrompt представляет ежедневный вопрос для рефлексии.
type DailyPrompt struct {
	ID       string `json:"id"`       // ID уникальный идентификатор
	Day      string `json:"day"`      // Day дата в формате YYYY-MM-DD
	Question string `json:"question"` // Question текст вопроса
	Answered bool   `json:"answered"` // Answered ответил ли пользователь
}

// Роли участников диалога
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)
