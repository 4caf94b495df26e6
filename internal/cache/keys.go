package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// ReportKey keys a generated report by window and server-side filters.
// The days preset is bounded, so the key space stays small.
func ReportKey(tenantID uuid.UUID, days int, team, category string) string {
	return fmt.Sprintf("report:%s:%d:%s:%s", tenantID, days, team, category)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
