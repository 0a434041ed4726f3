package publisher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "warden/pkg/domain"
	audit "warden/pkg/platform/audit"
	"warden/pkg/platform/audit/store/memory"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	inmateID := id.NewInmateID()
	event := audit.Event{
		InmateID: inmateID,
		Action:   string(audit.EventInmateRegistered),
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	events, err := pub.List(context.Background(), inmateID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventInmateRegistered), events[0].Action)
	assert.Equal(t, audit.CategoryCustody, events[0].Category)
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))
	defer pub.Close()

	inmateID := id.NewInmateID()
	event := audit.Event{
		InmateID: inmateID,
		Action:   string(audit.EventMovementRecorded),
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	// Wait for async processing
	time.Sleep(100 * time.Millisecond)

	events, err := pub.List(context.Background(), inmateID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventMovementRecorded), events[0].Action)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	inmateID := id.NewInmateID()

	for range 10 {
		event := audit.Event{
			InmateID: inmateID,
			Action:   string(audit.EventInmateStatusChanged),
		}
		err := pub.Emit(context.Background(), event)
		require.NoError(t, err)
	}

	// Close should drain all events
	pub.Close()

	events, err := store.ListByInmate(context.Background(), inmateID)
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_BufferFull_DropsEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	inmateID := id.NewInmateID()

	// Fill the buffer with concurrent writes
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			event := audit.Event{
				InmateID: inmateID,
				Action:   string(audit.EventInmateRegistered),
			}
			_ = pub.Emit(context.Background(), event)
		}()
	}
	wg.Wait()

	// Some events may have been dropped (buffer size 1).
	// Just verify no panic and publisher still works.
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	inmateID := id.NewInmateID()
	event := audit.Event{
		InmateID: inmateID,
		Action:   string(audit.EventInmateRegistered),
		// Timestamp not set
	}

	before := time.Now()
	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)
	after := time.Now()

	events, err := pub.List(context.Background(), inmateID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.True(t, !events[0].Timestamp.Before(before), "timestamp should be >= before")
	assert.True(t, !events[0].Timestamp.After(after), "timestamp should be <= after")
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	inmateID := id.NewInmateID()
	customTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	event := audit.Event{
		InmateID:  inmateID,
		Action:    string(audit.EventInmateReleased),
		Timestamp: customTime,
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	events, err := pub.List(context.Background(), inmateID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, customTime, events[0].Timestamp)
}

func TestPublisher_MultipleEvents(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	inmateID := id.NewInmateID()

	events := []audit.Event{
		{InmateID: inmateID, Action: string(audit.EventInmateRegistered)},
		{InmateID: inmateID, Action: string(audit.EventMovementRecorded)},
		{InmateID: inmateID, Action: string(audit.EventOutcomeRecorded)},
	}

	for _, event := range events {
		err := pub.Emit(context.Background(), event)
		require.NoError(t, err)
	}

	result, err := pub.List(context.Background(), inmateID)
	require.NoError(t, err)
	require.Len(t, result, 3)

	assert.Equal(t, string(audit.EventInmateRegistered), result[0].Action)
	assert.Equal(t, string(audit.EventMovementRecorded), result[1].Action)
	assert.Equal(t, string(audit.EventOutcomeRecorded), result[2].Action)
}

func TestPublisher_DifferentInmates(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	inmate1 := id.NewInmateID()
	inmate2 := id.NewInmateID()

	err := pub.Emit(context.Background(), audit.Event{
		InmateID: inmate1,
		Action:   string(audit.EventInmateRegistered),
	})
	require.NoError(t, err)

	err = pub.Emit(context.Background(), audit.Event{
		InmateID: inmate2,
		Action:   string(audit.EventPhotoCaptured),
	})
	require.NoError(t, err)

	events1, err := pub.List(context.Background(), inmate1)
	require.NoError(t, err)
	require.Len(t, events1, 1)
	assert.Equal(t, string(audit.EventInmateRegistered), events1[0].Action)

	events2, err := pub.List(context.Background(), inmate2)
	require.NoError(t, err)
	require.Len(t, events2, 1)
	assert.Equal(t, string(audit.EventPhotoCaptured), events2[0].Action)
}
