package api

// GJSON paths for extracting values from backend responses.
const (
	// PathResponse holds the assistant reply of /chat and /ask_with_context.
	PathResponse = "response"

	// PathSummary holds the {label: html} object of /summarize.
	PathSummary = "summary"

	// PathError holds the message of a failed request, e.g. {"error": "..."}.
	PathError = "error"
)
