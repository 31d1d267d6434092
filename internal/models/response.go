package models

import "strings"

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the success body of POST /chat and POST /ask_with_context
type ChatResponse struct {
	Response string `json:"response"`
}

// AskRequest is the body of POST /ask_with_context
type AskRequest struct {
	Message  string `json:"message"`
	PageText string `json:"page_text"`
}

// ErrorResponse is the failure body returned by the backend
type ErrorResponse struct {
	Error string `json:"error"`
}

// PageSummary is one page entry of a summarization result.
// HTML is the backend's markup as received; callers sanitize before display.
type PageSummary struct {
	Label string `json:"label"`
	HTML  string `json:"html"`
}

// Summary is an ordered page label -> summary HTML mapping.
// Order follows the backend's JSON object order.
type Summary struct {
	FileName string        `json:"file_name,omitempty"`
	Pages    []PageSummary `json:"pages"`
}

// Len returns the number of pages
func (s *Summary) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Pages)
}

// Labels returns the page labels in order
func (s *Summary) Labels() []string {
	if s == nil {
		return nil
	}
	labels := make([]string, len(s.Pages))
	for i, p := range s.Pages {
		labels[i] = p.Label
	}
	return labels
}

// Page returns the summary for label
func (s *Summary) Page(label string) (PageSummary, bool) {
	if s == nil {
		return PageSummary{}, false
	}
	for _, p := range s.Pages {
		if p.Label == label {
			return p, true
		}
	}
	return PageSummary{}, false
}

// ContextText returns the text used as context for a question: one page's
// summary when label names a page, all pages joined by blank lines otherwise.
func (s *Summary) ContextText(label string) string {
	if s == nil {
		return ""
	}
	if p, ok := s.Page(label); ok {
		return p.HTML
	}
	parts := make([]string, len(s.Pages))
	for i, p := range s.Pages {
		parts[i] = p.HTML
	}
	return strings.Join(parts, "\n\n")
}
