package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Clone(t *testing.T) {
	now := time.Now()

	original := &Record{
		CreatedAt:  now,
		UpdatedAt:  now.Add(time.Minute),
		ID:         "j1",
		Collection: CollectionJournals,
		UserID:     "user-1",
		SyncStatus: SyncStatusPending,
		Data:       json.RawMessage(`{"title":"day one"}`),
		Version:    3,
	}

	clone := original.Clone()
	assert.Equal(t, original, clone)

	// Изменение копии не должно затрагивать оригинал
	clone.Data[2] = 'X'
	clone.SyncStatus = SyncStatusSynced
	assert.Equal(t, `{"title":"day one"}`, string(original.Data))
	assert.Equal(t, SyncStatusPending, original.SyncStatus)
}

func TestRecord_Clone_NilData(t *testing.T) {
	r := &Record{ID: "x"}
	clone := r.Clone()
	assert.Nil(t, clone.Data)
}

func TestRecord_Decode(t *testing.T) {
	r := &Record{ID: "j1", Data: json.RawMessage(`{"id":"j1","title":"t","content":"c","mood":"calm"}`)}

	var entry JournalEntry
	require.NoError(t, r.Decode(&entry))
	assert.Equal(t, "t", entry.Title)
	assert.Equal(t, "calm", entry.Mood)

	empty := &Record{ID: "j2"}
	assert.Error(t, empty.Decode(&entry))

	broken := &Record{ID: "j3", Data: json.RawMessage(`{`)}
	assert.Error(t, broken.Decode(&entry))
}

func TestRecord_IsPending(t *testing.T) {
	assert.True(t, (&Record{SyncStatus: SyncStatusPending}).IsPending())
	assert.False(t, (&Record{SyncStatus: SyncStatusSynced}).IsPending())
}

func TestIsKnownCollection(t *testing.T) {
	for _, c := range Collections() {
		assert.True(t, IsKnownCollection(c), c)
	}
	assert.False(t, IsKnownCollection("secrets"))
	assert.False(t, IsKnownCollection(""))
}
