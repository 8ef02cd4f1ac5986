package tagging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestParseLegacyList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      *string
		tokens   []string
		sentinel bool
	}{
		{
			name: "nil_field",
			raw:  nil,
		},
		{
			name: "blank_field",
			raw:  strPtr("   "),
		},
		{
			name:   "plain_names",
			raw:    strPtr("Alice,Bob,Carol"),
			tokens: []string{"Alice", "Bob", "Carol"},
		},
		{
			name:   "whitespace_and_empty_tokens",
			raw:    strPtr("  Alice  ,  ,  Eve  ,, Bob "),
			tokens: []string{"Alice", "Eve", "Bob"},
		},
		{
			name:     "no_people_sentinel",
			raw:      strPtr("1"),
			sentinel: true,
		},
		{
			name:     "sentinel_with_whitespace",
			raw:      strPtr(" 1 "),
			sentinel: true,
		},
		{
			name:   "sentinel_value_among_others_is_a_real_token",
			raw:    strPtr("1,2"),
			tokens: []string{"1", "2"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseLegacyList(tt.raw)
			assert.Equal(t, tt.tokens, got.Tokens)
			assert.Equal(t, tt.sentinel, got.Sentinel)
			assert.Equal(t, len(tt.tokens) == 0, got.IsEmpty())
		})
	}
}
