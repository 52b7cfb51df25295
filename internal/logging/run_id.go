package logging

import (
	"github.com/google/uuid"
)

// NewRunID returns a random identifier for one parser run. Every CRL
// processed by the CLI gets its own ID so that interleaved log lines can be
// grouped.
func NewRunID() string {
	return uuid.NewString()
}
