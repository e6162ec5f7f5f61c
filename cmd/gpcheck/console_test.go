package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/John-Robertt/gpcheck/internal/domain"
)

func TestConsole_OnItemDone(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	cases := []struct {
		name string
		item domain.ItemResult
		want string
	}{
		{
			name: "invalid",
			item: domain.ItemResult{Raw: "Ab", ID: "Ab", Status: domain.StatusInvalid, Lookup: domain.LookupSkipped},
			want: "[2/5] ❌ INVALID: Ab (does not meet GCP naming rules)\n",
		},
		{
			name: "available",
			item: domain.ItemResult{ID: "free-name-1", Status: domain.StatusAvailable, Lookup: domain.LookupNotFound},
			want: "[2/5] ✅ free-name-1                    → AVAILABLE\n",
		},
		{
			name: "taken",
			item: domain.ItemResult{ID: "used-name-1", Status: domain.StatusTaken, Lookup: domain.LookupFound},
			want: "[2/5] ❌ used-name-1                    → TAKEN\n",
		},
		{
			name: "unconfirmed",
			item: domain.ItemResult{ID: "busy-name-1", Status: domain.StatusAvailable, Lookup: domain.LookupUnexpected, ErrorMsg: "HTTP 429"},
			want: "[!] Unexpected error checking 'busy-name-1': HTTP 429\n" +
				"[2/5] ✅ busy-name-1                    → AVAILABLE\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			newConsole(&buf).OnItemDone(2, 5, tc.item, 0)
			assert.Equal(t, tc.want, buf.String())
		})
	}
}
