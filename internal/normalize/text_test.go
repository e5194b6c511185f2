// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davetashner/phishdedup/internal/incident"
)

func TestText(t *testing.T) {
	absent := incident.TextField{}
	null := incident.TextField{Kind: incident.FieldNull}
	number := incident.TextField{Kind: incident.FieldNonString}

	tests := []struct {
		name                string
		subject, body, html incident.TextField
		want                string
	}{
		{
			name:    "subject and body",
			subject: incident.Text("Urgent"),
			body:    incident.Text("verify at http://evil.com/x?id=1"),
			html:    absent,
			want:    "Urgent verify at http://evil.com",
		},
		{
			name:    "blank body falls back to html",
			subject: incident.Text("Hi"),
			body:    incident.Text("   "),
			html:    incident.Text("<p>from html</p>"),
			want:    "Hi from html",
		},
		{
			name:    "null body falls back to html",
			subject: incident.Text("Hi"),
			body:    null,
			html:    incident.Text("<b>bold</b>"),
			want:    "Hi bold",
		},
		{
			name:    "body wins over html",
			subject: incident.Text("Hi"),
			body:    incident.Text("plain"),
			html:    incident.Text("<p>ignored</p>"),
			want:    "Hi plain",
		},
		{
			name:    "non-string values coerce to empty",
			subject: number,
			body:    absent,
			html:    number,
			want:    " ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.subject, tt.body, tt.html))
		})
	}
}

func TestText_FixedPoint(t *testing.T) {
	first := Text(
		incident.Text("Account notice"),
		incident.TextField{},
		incident.Text("<p>Login at <a href='x'>https://evil.com/login?u=1</a></p>"),
	)
	// Feed the normalized text back in as a body with an empty subject; the
	// only change is the leading separator space.
	second := Text(incident.Text(""), incident.Text(first), incident.TextField{})
	assert.Equal(t, " "+first, second)
	assert.Equal(t, first, CanonicalizeURLs(first))
}
