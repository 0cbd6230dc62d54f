package common

import (
	"fmt"
	"time"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// NonEmpty returns nil for an empty string, so optional filters stay unset.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
