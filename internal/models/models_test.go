package models

import (
	"testing"
)

func TestSender(t *testing.T) {
	tests := []struct {
		sender Sender
		label  string
		valid  bool
	}{
		{SenderUser, "You", true},
		{SenderAssistant, "Assistant", true},
		{Sender("system"), "system", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.sender), func(t *testing.T) {
			if got := tt.sender.String(); got != tt.label {
				t.Errorf("String() = %q, want %q", got, tt.label)
			}
			if got := tt.sender.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestNewTurn(t *testing.T) {
	a := NewTurn(SenderUser, "  Hello  ")
	b := NewTurn(SenderAssistant, "Hi there!")

	if a.Text != "  Hello  " {
		t.Errorf("Text should be stored verbatim, got %q", a.Text)
	}
	if !a.IsUser() || b.IsUser() {
		t.Error("IsUser mismatch")
	}
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a.ID, b.ID)
	}
	if a.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestSummary(t *testing.T) {
	s := &Summary{Pages: []PageSummary{
		{Label: "Page 1", HTML: "First.<br><hr>"},
		{Label: "Page 2", HTML: "Second.<br><hr>"},
	}}

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}

	labels := s.Labels()
	if len(labels) != 2 || labels[0] != "Page 1" || labels[1] != "Page 2" {
		t.Errorf("Labels() = %v", labels)
	}

	if p, ok := s.Page("Page 2"); !ok || p.HTML != "Second.<br><hr>" {
		t.Errorf("Page(Page 2) = %+v, %v", p, ok)
	}
	if _, ok := s.Page("Page 9"); ok {
		t.Error("expected missing page")
	}

	if got := s.ContextText("Page 1"); got != "First.<br><hr>" {
		t.Errorf("ContextText(Page 1) = %q", got)
	}
	if got := s.ContextText(""); got != "First.<br><hr>\n\nSecond.<br><hr>" {
		t.Errorf("ContextText(all) = %q", got)
	}
}

func TestSummary_Nil(t *testing.T) {
	var s *Summary

	if s.Len() != 0 {
		t.Error("nil summary should have zero length")
	}
	if s.Labels() != nil {
		t.Error("nil summary should have no labels")
	}
	if s.ContextText("") != "" {
		t.Error("nil summary should have empty context")
	}
}

func TestDefaultHeaders(t *testing.T) {
	h := DefaultHeaders()
	if h["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q", h["Content-Type"])
	}
	if h["Accept"] != "application/json" {
		t.Errorf("Accept = %q", h["Accept"])
	}
}
