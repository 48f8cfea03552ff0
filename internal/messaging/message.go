// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package messaging implements anonymous message delivery between members.

A message records only its recipient. The sender's identity is never
persisted — anonymity is structural, not a presentation choice: there is no
column to leak.
*/
package messaging

import "time"

// Message is one anonymous note delivered to a member's inbox.
type Message struct {
	ID         string    `json:"id"`
	ReceiverID string    `json:"receiver_id"`
	Body       string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldReceiverID = "receiver_id"
	FieldMessage    = "message"
)

// MaxMessageLength caps a single note. Long enough for a letter, short
// enough to keep the inbox renderable.
const MaxMessageLength = 2000
