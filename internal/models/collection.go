package models

// Логические коллекции. Каждой соответствует таблица удаленной базы.
const (
	CollectionJournals     = "journals"
	CollectionChatMessages = "chat_messages"
	CollectionResources    = "resources"
	CollectionProfiles     = "profiles"
	CollectionDailyPrompts = "daily_prompts"
)

// Collections returns every known collection in a stable order.
func Collections() []string {
	return []string{
		CollectionJournals,
		CollectionChatMessages,
		CollectionResources,
		CollectionProfiles,
		CollectionDailyPrompts,
	}
}

// IsKnownCollection reports whether name is one of Collections.
func IsKnownCollection(name string) bool {
	for _, c := range Collections() {
		if c == name {
			return true
		}
	}
	return false
}
