package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError describes an invalid or missing configuration, or a
// request for an account that does not exist.
type ConfigurationError struct {
	FilePath  string `json:"filePath,omitempty"`
	ErrorType string `json:"errorType"` // parse, validation, io, lookup
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	// Accounts are the configured account names, sorted. They are appended to
	// the error text so callers can correct an account name.
	Accounts    []string `json:"accounts,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	msg := ce.Message
	if ce.FilePath != "" {
		msg = fmt.Sprintf("%s: %s", ce.FilePath, msg)
	}
	if len(ce.Accounts) > 0 {
		msg = fmt.Sprintf("%s Available accounts: %s", msg, strings.Join(ce.Accounts, ", "))
	}
	return msg
}

// DetailedError returns a multi-line description including details and
// suggestions, for CLI output.
func (ce *ConfigurationError) DetailedError() string {
	var parts []string
	parts = append(parts, "Configuration error: "+ce.Message)
	if ce.FilePath != "" {
		parts = append(parts, "  File: "+ce.FilePath)
	}
	if ce.ErrorType != "" {
		parts = append(parts, "  Type: "+ce.ErrorType)
	}
	if ce.Details != "" {
		parts = append(parts, "  Details: "+ce.Details)
	}
	if len(ce.Accounts) > 0 {
		parts = append(parts, "  Available accounts: "+strings.Join(ce.Accounts, ", "))
	}
	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, s := range ce.Suggestions {
			parts = append(parts, "    - "+s)
		}
	}
	return strings.Join(parts, "\n")
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func validationError(path, message string, accounts []string, suggestions ...string) *ConfigurationError {
	return &ConfigurationError{
		FilePath:    path,
		ErrorType:   "validation",
		Message:     message,
		Accounts:    accounts,
		Suggestions: suggestions,
	}
}
