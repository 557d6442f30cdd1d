package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatForCLI formats an error for CLI output (the message both
// satire-index and satire-query print to stderr before exiting
// non-zero).
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	e, ok := err.(*Error)
	if !ok {
		e = New(ErrCodeUsage, err.Error(), err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Message))
	sb.WriteString(fmt.Sprintf("  Code: %s\n", e.Code))
	for k, v := range e.Details {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", k, v))
	}
	return sb.String()
}

// jsonError is the JSON representation of an error.
type jsonError struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Category string            `json:"category"`
	Severity string            `json:"severity"`
	Details  map[string]string `json:"details,omitempty"`
	Cause    string            `json:"cause,omitempty"`
}

// FormatJSON returns a JSON representation of the error, suitable for
// machine consumption and structured logging.
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}

	e, ok := err.(*Error)
	if !ok {
		e = New(ErrCodeUsage, err.Error(), err)
	}

	je := jsonError{
		Code:     e.Code,
		Message:  e.Message,
		Category: string(e.Category),
		Severity: string(e.Severity),
		Details:  e.Details,
	}

	if e.Cause != nil {
		je.Cause = e.Cause.Error()
	}

	return json.Marshal(je)
}

// FormatForLog formats an error for structured logging attributes.
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}

	e, ok := err.(*Error)
	if !ok {
		return map[string]any{"error": err.Error()}
	}

	result := map[string]any{
		"error_code": e.Code,
		"message":    e.Message,
		"category":   string(e.Category),
		"severity":   string(e.Severity),
	}

	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}

	for k, v := range e.Details {
		result["detail_"+k] = v
	}

	return result
}
