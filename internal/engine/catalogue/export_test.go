package catalogue

import "time"

// SetClock replaces the time source.
// This is exported for testing purposes only.
func (c *Catalogue) SetClock(now func() time.Time) {
	c.now = now
}
