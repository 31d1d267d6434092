// Package models contains data types and constants shared by the chatmate client, TUI and server.
package models

// Backend endpoint paths, relative to the configured base URL
const (
	EndpointChat           = "/chat"
	EndpointSummarize      = "/summarize"
	EndpointAskWithContext = "/ask_with_context"
)

// Upload limits
const (
	MaxUploadSize  = 50 * 1024 * 1024 // 50MB
	UploadField    = "file"
	PDFContentType = "application/pdf"
)

// DefaultHeaders returns the headers sent with every JSON request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
		"User-Agent":   "chatmate/1.0",
	}
}
