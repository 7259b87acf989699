// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ConfigurationError reports a configuration field that failed validation.
type ConfigurationError struct {
	// Field is the configuration key at fault (e.g. "baml_dir").
	Field string

	// Reason describes what is wrong with the field.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration: %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// InvalidFunctionError reports an extraction function the schema manager does
// not recognize.
type InvalidFunctionError struct {
	Function string
	Reason   string
}

func (e *InvalidFunctionError) Error() string {
	if e.Function == "" {
		return fmt.Sprintf("invalid extraction function: %s", e.Reason)
	}
	return fmt.Sprintf("invalid extraction function %q: %s", e.Function, e.Reason)
}

// ExtractionError reports a failed extraction: either the function returned
// an error (kept in Err) or its result did not conform to the schema.
type ExtractionError struct {
	Function string
	Message  string
	Err      error
}

func (e *ExtractionError) Error() string {
	return e.Message
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ResearchError reports a failure of the research backend.
type ResearchError struct {
	Err error
}

func (e *ResearchError) Error() string {
	return fmt.Sprintf("research failed: %v", e.Err)
}

func (e *ResearchError) Unwrap() error { return e.Err }
