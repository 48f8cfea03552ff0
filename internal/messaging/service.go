// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package messaging

import (
	"context"
	"time"

	"github.com/taibuivan/bisik/internal/platform/validate"
	"github.com/taibuivan/bisik/pkg/pagination"
	"github.com/taibuivan/bisik/pkg/uuid"
)

// Service implements the anonymous messaging use cases.
type Service struct {
	repository Repository
	now        func() time.Time
}

// NewService constructs a new [Service] with its Repository dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository, now: time.Now}
}

// SendInput holds the data for delivering an anonymous message.
//
// There is deliberately no sender field anywhere in this type or below it.
type SendInput struct {
	ReceiverID string
	Body       string
}

/*
Send delivers an anonymous message to a member's inbox.

Parameters:
  - context: context.Context
  - input: SendInput

Returns:
  - *Message: The persisted message
  - err: Validation, apperr.NotFound (unknown receiver), or persistence failures
*/
func (service *Service) Send(context context.Context, input SendInput) (*Message, error) {
	validator := &validate.Validator{}
	validator.Required(FieldReceiverID, input.ReceiverID).
		UUID(FieldReceiverID, input.ReceiverID).
		Required(FieldMessage, input.Body).
		MaxLen(FieldMessage, input.Body, MaxMessageLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	message := &Message{
		ID:         uuid.New(),
		ReceiverID: input.ReceiverID,
		Body:       input.Body,
		CreatedAt:  service.now().UTC(),
	}

	if err := service.repository.Insert(context, message); err != nil {
		return nil, err
	}

	return message, nil
}

/*
Inbox returns one page of the receiver's messages, newest first.

Parameters:
  - context: context.Context
  - receiverID: string
  - params: pagination.Params

Returns:
  - []Message: The requested page
  - pagination.Meta: Page metadata including the inbox total
  - err: Database retrieval failures
*/
func (service *Service) Inbox(context context.Context, receiverID string, params pagination.Params) ([]Message, pagination.Meta, error) {
	messages, err := service.repository.ListByReceiver(context, receiverID, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	total, err := service.repository.CountByReceiver(context, receiverID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return messages, pagination.NewMeta(params.Page, params.Limit, total), nil
}
