package server

import "fmt"

// NoReadableText is the summary of a page without extractable text.
const NoReadableText = "No readable text on this page."

// PageSeparator ends every page summary.
const PageSeparator = "<hr>"

func chatPrompt(message string) string {
	return "You are a friendly chatbot. Reply conversationally and briefly. User says: " + message
}

func summarizePrompt(pageText string) string {
	return fmt.Sprintf(`You are a professional summarizer.
Summarize the following page content into a short paragraph.
Add an HTML <br> after each sentence.

Page content:
%s
`, pageText)
}

func askPrompt(message, pageText string) string {
	return fmt.Sprintf(`You are an assistant that must answer user questions using the provided page text. `+
		`If the answer is present in the page_text, answer concisely and cite that it came from the page. `+
		`If page_text doesn't contain the answer, say you don't know and suggest next steps.

Page content:
%s

User question:
%s`, pageText, message)
}
