// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MessageTable represents the 'messaging.message' table
//
// Note the deliberate absence of any sender column.
type MessageTable struct {
	Table      string
	ID         string
	ReceiverID string
	Body       string
	CreatedAt  string
}

// Message is the schema definition for messaging.message
var Message = MessageTable{
	Table:      "messaging.message",
	ID:         "id",
	ReceiverID: "receiverid",
	Body:       "body",
	CreatedAt:  "createdat",
}

// Columns returns all standard column names
func (t MessageTable) Columns() []string {
	return []string{
		t.ID, t.ReceiverID, t.Body, t.CreatedAt,
	}
}
