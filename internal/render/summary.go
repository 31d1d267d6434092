package render

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
)

var summaryPolicy = bluemonday.UGCPolicy()

var blankLines = regexp.MustCompile(`\n{3,}`)

// SanitizeSummaryHTML removes anything unsafe from backend summary markup.
func SanitizeSummaryHTML(s string) string {
	return summaryPolicy.Sanitize(s)
}

// SummaryToText sanitizes summary markup and flattens it for the terminal:
// <br> and block ends become line breaks, <hr> becomes a rule, and the result
// is wrapped at width.
func SummaryToText(markup string, width int) string {
	if width < 20 {
		width = 20
	}

	tokenizer := html.NewTokenizer(strings.NewReader(SanitizeSummaryHTML(markup)))
	var sb strings.Builder

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			out := blankLines.ReplaceAllString(sb.String(), "\n\n")
			return wordwrap.String(strings.TrimSpace(out), width)
		case html.TextToken:
			sb.WriteString(collapseSpace(string(tokenizer.Text())))
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "br":
				trimTrailingSpace(&sb)
				sb.WriteString("\n")
			case "hr":
				if tt != html.EndTagToken {
					trimTrailingSpace(&sb)
					sb.WriteString("\n" + strings.Repeat("─", width) + "\n")
				}
			case "p", "div", "li", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6":
				if tt == html.EndTagToken {
					trimTrailingSpace(&sb)
					sb.WriteString("\n")
				} else if string(name) == "li" {
					sb.WriteString("• ")
				}
			}
		}
	}
}

func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(fields, " ")
	if strings.TrimLeft(s, " \t\r\n") != s {
		out = " " + out
	}
	if strings.TrimRight(s, " \t\r\n") != s {
		out += " "
	}
	return out
}

func trimTrailingSpace(sb *strings.Builder) {
	s := sb.String()
	trimmed := strings.TrimRight(s, " ")
	if len(trimmed) != len(s) {
		sb.Reset()
		sb.WriteString(trimmed)
	}
}
