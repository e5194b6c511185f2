// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package incident

import "time"

// Normalized is the comparison view of one incident. It is built once per
// invocation and never mutated.
type Normalized struct {
	ID           string    `json:"id"`
	Created      time.Time `json:"created"`
	Text         string    `json:"text"`
	Sender       string    `json:"sender"`
	SenderDomain string    `json:"sender_domain"`
}
