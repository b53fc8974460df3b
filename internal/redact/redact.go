// Package redact strips secrets from activity text before it is sent to an
// LLM. Window titles and browser tab URLs routinely contain API keys, tokens,
// and password-manager entries.
package redact

import (
	"regexp"
)

const redacted = "[REDACTED]"

// patterns holds secret-detection regexes in priority order.
var patterns = []*regexp.Regexp{
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// OpenAI / Anthropic secret keys — word-boundary aware
	regexp.MustCompile(`(?:^|\s|["'])sk-[a-zA-Z0-9]{20,}`),
	// JWT tokens (three base64url segments)
	regexp.MustCompile(`eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+`),
	// Bearer tokens — require minimum 20-char token to avoid false positives
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]{20,}=*`),
	// Inline password assignments
	regexp.MustCompile(`(?i)password\s*[:=]\s*\S+`),
	// Credential-bearing URL query parameters (token=..., api_key=..., secret=...)
	regexp.MustCompile(`(?i)[?&](?:token|api_key|apikey|secret|access_token)=[^&\s"]+`),
}

// Redact replaces known secret patterns in input with [REDACTED].
func Redact(input string) string {
	for _, re := range patterns {
		input = re.ReplaceAllString(input, redacted)
	}
	return input
}
