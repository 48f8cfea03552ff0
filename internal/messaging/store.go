// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package messaging

import "context"

// Repository defines the data access contract for anonymous messages.
type Repository interface {

	/*
		Insert persists a new message.

		Parameters:
		  - context: context.Context
		  - message: *Message (ID and CreatedAt already assigned)

		Returns:
		  - error: apperr.NotFound when the receiver does not exist,
		    or persistence failures
	*/
	Insert(context context.Context, message *Message) error

	/*
		ListByReceiver returns a page of the receiver's inbox, newest first.

		Parameters:
		  - context: context.Context
		  - receiverID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []Message: One inbox page
		  - error: Database retrieval failures
	*/
	ListByReceiver(context context.Context, receiverID string, limit, offset int) ([]Message, error)

	/*
		CountByReceiver returns the total inbox size for pagination metadata.
	*/
	CountByReceiver(context context.Context, receiverID string) (int, error)
}
