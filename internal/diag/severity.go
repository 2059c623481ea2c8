package diag

import (
	"fmt"
	"strings"
)

// Severity orders diagnostics from informational to fatal for the file.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError marks input the lexer could not tokenize as written.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// ParseSeverity accepts the String form in any case, plus "warn".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO":
		return SevInfo, nil
	case "WARNING", "WARN":
		return SevWarning, nil
	case "ERROR":
		return SevError, nil
	}
	return 0, fmt.Errorf("unknown severity %q (want info, warning or error)", s)
}
