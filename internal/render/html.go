package render

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

// PlainText reduces an HTML (or plain) response body to a single line of
// visible text, truncated to limit runes. A limit <= 0 disables truncation.
// Servers behind a proxy or a crashed app worker answer with an HTML error
// page; this keeps those bodies readable in logs.
func PlainText(raw string, limit int) string {
	if raw == "" {
		return ""
	}

	tokenizer := xhtml.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	var skip int

	for {
		tt := tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			return truncate(strings.Join(strings.Fields(sb.String()), " "), limit)

		case xhtml.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "head":
				skip++
			case "br", "p", "div", "li", "h1", "h2", "h3", "title":
				sb.WriteString(" ")
			}

		case xhtml.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "head":
				if skip > 0 {
					skip--
				}
			case "p", "div", "li", "h1", "h2", "h3":
				sb.WriteString(" ")
			}

		case xhtml.TextToken:
			if skip == 0 {
				// The tokenizer has already unescaped entities.
				sb.Write(tokenizer.Text())
			}
		}
	}
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
