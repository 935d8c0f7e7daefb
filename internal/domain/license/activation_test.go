//go:build unit

package license_test

import "time"

func testNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}
