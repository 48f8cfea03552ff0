// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package messaging_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bisik/internal/messaging"
	"github.com/taibuivan/bisik/internal/platform/apperr"
	"github.com/taibuivan/bisik/pkg/pagination"
)

const (
	receiverAlice = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b"
	receiverBob   = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5c"
)

// fakeRepository is an in-memory message store keyed by receiver.
type fakeRepository struct {
	known    map[string]bool
	messages []messaging.Message
}

func newFakeRepository(receivers ...string) *fakeRepository {
	known := map[string]bool{}
	for _, receiver := range receivers {
		known[receiver] = true
	}
	return &fakeRepository{known: known}
}

func (r *fakeRepository) Insert(_ context.Context, message *messaging.Message) error {
	if !r.known[message.ReceiverID] {
		return apperr.NotFound("Receiver")
	}
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeRepository) ListByReceiver(_ context.Context, receiverID string, limit, offset int) ([]messaging.Message, error) {
	inbox := []messaging.Message{}
	for _, message := range r.messages {
		if message.ReceiverID == receiverID {
			inbox = append(inbox, message)
		}
	}

	sort.Slice(inbox, func(i, j int) bool {
		return inbox[i].CreatedAt.After(inbox[j].CreatedAt)
	})

	if offset >= len(inbox) {
		return []messaging.Message{}, nil
	}
	end := offset + limit
	if end > len(inbox) {
		end = len(inbox)
	}
	return inbox[offset:end], nil
}

func (r *fakeRepository) CountByReceiver(_ context.Context, receiverID string) (int, error) {
	count := 0
	for _, message := range r.messages {
		if message.ReceiverID == receiverID {
			count++
		}
	}
	return count, nil
}

/*
TestService_Send verifies delivery assigns an ID and timestamp, and that the
persisted record carries no trace of a sender.
*/
func TestService_Send(t *testing.T) {
	repository := newFakeRepository(receiverAlice)
	service := messaging.NewService(repository)

	message, err := service.Send(context.Background(), messaging.SendInput{
		ReceiverID: receiverAlice,
		Body:       "you did great today",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, message.ID)
	assert.Equal(t, receiverAlice, message.ReceiverID)
	assert.Equal(t, "you did great today", message.Body)
	assert.False(t, message.CreatedAt.IsZero())
	require.Len(t, repository.messages, 1)
}

/*
TestService_Send_Validation covers the rejection matrix: missing receiver,
malformed receiver, empty body, oversized body.
*/
func TestService_Send_Validation(t *testing.T) {
	service := messaging.NewService(newFakeRepository(receiverAlice))

	tests := []struct {
		name       string
		receiverID string
		body       string
	}{
		{"missing_receiver", "", "hello"},
		{"malformed_receiver", "not-a-uuid", "hello"},
		{"empty_body", receiverAlice, ""},
		{"oversized_body", receiverAlice, strings.Repeat("a", messaging.MaxMessageLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message, err := service.Send(context.Background(), messaging.SendInput{
				ReceiverID: tt.receiverID,
				Body:       tt.body,
			})
			assert.Nil(t, message)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

/*
TestService_Send_UnknownReceiver verifies an unknown recipient is a NotFound.
*/
func TestService_Send_UnknownReceiver(t *testing.T) {
	service := messaging.NewService(newFakeRepository())

	_, err := service.Send(context.Background(), messaging.SendInput{
		ReceiverID: receiverAlice,
		Body:       "hello",
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestService_Inbox verifies pagination: newest first, per-receiver isolation,
correct metadata totals.
*/
func TestService_Inbox(t *testing.T) {
	repository := newFakeRepository(receiverAlice, receiverBob)
	service := messaging.NewService(repository)

	for i := 0; i < 5; i++ {
		_, err := service.Send(context.Background(), messaging.SendInput{
			ReceiverID: receiverAlice,
			Body:       strings.Repeat("a", i+1),
		})
		require.NoError(t, err)
	}
	_, err := service.Send(context.Background(), messaging.SendInput{
		ReceiverID: receiverBob,
		Body:       "for bob only",
	})
	require.NoError(t, err)

	page, meta, err := service.Inbox(context.Background(), receiverAlice, pagination.Params{Page: 1, Limit: 3})
	require.NoError(t, err)

	assert.Len(t, page, 3)
	assert.Equal(t, 5, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)

	// Only Alice's messages, none of Bob's.
	for _, message := range page {
		assert.Equal(t, receiverAlice, message.ReceiverID)
	}

	// Second page holds the remainder.
	page2, _, err := service.Inbox(context.Background(), receiverAlice, pagination.Params{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page2, 2)
}
