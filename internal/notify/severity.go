package notify

import "fmt"

// Severity represents the severity level of a notification
type Severity int

const (
	Success Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText encodes the severity by name for JSON toasts
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity maps a severity name back to its value. Unknown names are Info.
func ParseSeverity(name string) Severity {
	switch name {
	case "success":
		return Success
	case "warning":
		return Warning
	case "error":
		return Error
	default:
		return Info
	}
}

// UnmarshalText decodes a severity name
func (s *Severity) UnmarshalText(text []byte) error {
	*s = ParseSeverity(string(text))
	return nil
}
