package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		limit int
		want  string
	}{
		{"empty", "", 0, ""},
		{"plain", "upstream   connect\nerror", 0, "upstream connect error"},
		{
			"error page",
			"<html><head><title>502</title><style>body{}</style></head>" +
				"<body><h1>502 Bad Gateway</h1><p>nginx &amp; friends</p></body></html>",
			0,
			"502 Bad Gateway nginx & friends",
		},
		{"script skipped", "<p>a</p><script>alert(1)</script><p>b</p>", 0, "a b"},
		{"truncated", "<p>Internal Server Error</p>", 8, "Internal..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.raw, tt.limit))
		})
	}
}
