package period

import (
	"errors"
	"fmt"
	"strings"
	"time"

	// embed IANA database: container images thường không có /usr/share/zoneinfo
	_ "time/tzdata"
)

// DefaultTimezone is used when a request carries no tz.
const DefaultTimezone = "UTC"

var ErrInvalidTimezone = errors.New("invalid timezone")

// LoadLocation resolves an IANA timezone name. Empty input means UTC.
func LoadLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" || strings.EqualFold(tz, DefaultTimezone) {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	return loc, nil
}
