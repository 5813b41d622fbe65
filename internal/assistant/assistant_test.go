package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"lost any case", "I LOST my keys", ReplyLost},
		{"found", "I found a wallet", ReplyFound},
		{"lost wins over found", "found out I lost it", ReplyLost},
		{"search", "how do I Search?", ReplySearch},
		{"delete item", "please delete item 4", ReplyDelete},
		{"delete alone is not a match", "delete", ReplyFallback},
		{"edit", "Edit my post", ReplyEdit},
		{"help", "help", ReplyHelp},
		{"search beats help", "help me search", ReplySearch},
		{"fallback", "xyz", ReplyFallback},
		{"empty", "", ReplyFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Respond(tt.message))
		})
	}
}
