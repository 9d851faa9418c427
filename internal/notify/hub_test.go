package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.publish)
}

func TestHub_RegisterClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Send:   make(chan []byte, 256),
	}

	hub.Register(client)

	// Wait for registration to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, exists := hub.clients[client.ID]
	hub.mu.RUnlock()

	assert.True(t, exists)
}

func TestHub_UnregisterClient_ClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Send:   make(chan []byte, 256),
	}

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, exists := hub.clients[client.ID]
	hub.mu.RUnlock()
	assert.False(t, exists)

	_, open := <-client.Send
	assert.False(t, open)
}

func TestHub_PublishReachesTargetUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	targetID := uuid.New()
	target := &Client{
		ID:     "target",
		UserID: targetID,
		Send:   make(chan []byte, 256),
	}
	bystander := &Client{
		ID:     "bystander",
		UserID: uuid.New(),
		Send:   make(chan []byte, 256),
	}

	hub.Register(target)
	hub.Register(bystander)
	time.Sleep(10 * time.Millisecond)

	event := Event{
		Kind:     KindInvitationSent,
		TeamID:   uuid.New(),
		ActorID:  uuid.New(),
		TargetID: targetID,
	}
	assert.True(t, hub.Publish(targetID, event))

	select {
	case msg := <-target.Send:
		var got Event
		require.NoError(t, json.Unmarshal(msg, &got))
		assert.Equal(t, KindInvitationSent, got.Kind)
		assert.Equal(t, event.TeamID, got.TeamID)
	case <-time.After(time.Second):
		t.Fatal("expected event for target user")
	}

	select {
	case <-bystander.Send:
		t.Fatal("bystander should not receive another user's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishFanOutToAllUserClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := uuid.New()
	first := &Client{ID: "first", UserID: userID, Send: make(chan []byte, 256)}
	second := &Client{ID: "second", UserID: userID, Send: make(chan []byte, 256)}

	hub.Register(first)
	hub.Register(second)
	time.Sleep(10 * time.Millisecond)

	hub.Publish(userID, Event{Kind: KindRequestApproved, TargetID: userID})

	for _, client := range []*Client{first, second} {
		select {
		case <-client.Send:
		case <-time.After(time.Second):
			t.Fatalf("client %s did not receive event", client.ID)
		}
	}
}

func TestHub_PublishWithNoClientsDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	done := make(chan struct{})
	go func() {
		hub.Publish(uuid.New(), Event{Kind: KindMemberRemoved})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked with no clients connected")
	}
}

func TestHub_FullClientBufferIsSkipped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := uuid.New()
	full := &Client{ID: "full", UserID: userID, Send: make(chan []byte)}
	healthy := &Client{ID: "healthy", UserID: userID, Send: make(chan []byte, 256)}

	hub.Register(full)
	hub.Register(healthy)
	time.Sleep(10 * time.Millisecond)

	hub.Publish(userID, Event{Kind: KindRequestRejected, TargetID: userID})

	select {
	case <-healthy.Send:
	case <-time.After(time.Second):
		t.Fatal("healthy client should still receive the event")
	}
}
