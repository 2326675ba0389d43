package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateTraceID generates a random id used to correlate pushed messages and logs
func GenerateTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
