// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"errors"

	"github.com/daviddl9/inquire/pkg/types"
)

// Error kinds returned by Research. Match them with errors.As.
type (
	ConfigurationError   = types.ConfigurationError
	InvalidFunctionError = types.InvalidFunctionError
	ExtractionError      = types.ExtractionError
	ResearchError        = types.ResearchError
)

// ErrSchemaRequired is returned when Research is called without a schema.
var ErrSchemaRequired = errors.New("schema required")
