package api

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Error is the typed failure for every non-2xx response, carrying the
// composite human-readable message callers display verbatim.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// extractMessage builds the composite error message from a failure body.
// Validation failures arrive as an "apierror" object with a subErrors
// list; each becomes a "- <field> (valeur: <rejected>): <message>" line
// under the main message. Fallbacks, in order: top-level message/error,
// the raw body text, a generic status line.
func extractMessage(status int, body []byte) string {
	fallback := fmt.Sprintf("HTTP error! status: %d", status)

	text := strings.TrimSpace(string(body))
	if text == "" {
		return fallback
	}

	if !gjson.ValidBytes(body) {
		return text
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return text
	}

	apiErr := doc.Get("apierror")
	if !apiErr.Exists() {
		apiErr = doc
	}

	main := firstString(apiErr, "message", "error", "title")

	var details []string
	apiErr.Get("subErrors").ForEach(func(_, sub gjson.Result) bool {
		field := firstString(sub, "field", "object")
		if field == "" {
			field = "champ"
		}

		rejected := ""
		if v := sub.Get("rejectedValue"); v.Exists() && v.Type != gjson.Null {
			rejected = fmt.Sprintf(" (valeur: %s)", v.String())
		}

		msg := firstString(sub, "message", "defaultMessage")
		if msg == "" {
			msg = "invalide"
		}

		details = append(details, fmt.Sprintf("- %s%s: %s", field, rejected, msg))
		return true
	})

	if main == "" {
		main = fallback
	}
	if len(details) == 0 {
		return main
	}

	return main + "\n" + strings.Join(details, "\n")
}

func firstString(doc gjson.Result, keys ...string) string {
	for _, key := range keys {
		if v := doc.Get(key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
