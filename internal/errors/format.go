package errors

import (
	stderrors "errors"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// FormatForCLI formats an error as the single stderr line the CLI prints
// on failure: "error: <message>".
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	var de *DatashedError
	if stderrors.As(err, &de) {
		msg = de.Message
	}

	// Keep it on one line.
	msg = strings.ReplaceAll(msg, "\n", " ")
	return "error: " + msg
}

// FormatForLog returns slog attributes describing err. Coded errors log
// their code, category, cause and suggestion plus one "detail_<key>"
// attribute per detail; other errors log only their message.
func FormatForLog(err error) []any {
	if err == nil {
		return nil
	}

	var de *DatashedError
	if !stderrors.As(err, &de) {
		return []any{slog.String("error", err.Error())}
	}

	attrs := []any{
		slog.String("error_code", de.Code),
		slog.String("message", de.Message),
		slog.String("category", string(de.Category)),
	}
	if de.Cause != nil {
		attrs = append(attrs, slog.String("cause", de.Cause.Error()))
	}
	if de.Suggestion != "" {
		attrs = append(attrs, slog.String("suggestion", de.Suggestion))
	}
	for _, k := range slices.Sorted(maps.Keys(de.Details)) {
		attrs = append(attrs, slog.String("detail_"+k, de.Details[k]))
	}

	return attrs
}
