package harvest

import "time"

// PerPage is the feed's full-page record count. A page yielding fewer
// records was the last, partial page for its area.
const PerPage = 20

// AreaProgress tracks one area's pagination loop. It is owned by the
// controller, created fresh per area, and discarded when the area
// completes, so counters never leak between areas.
type AreaProgress struct {
	Area  string
	Page  int // 1-based
	Count int // records appended for this area so far
}

// Offset is the record offset the feed expects for the current page.
func (p *AreaProgress) Offset() int {
	return (p.Page - 1) * PerPage
}

// Controller decides page advancement per area and enforces the pacing
// pause between page requests.
type Controller struct {
	interval time.Duration
	sleep    func(time.Duration)
}

// NewController builds a controller with the session's pacing interval.
func NewController(interval time.Duration) *Controller {
	return &Controller{
		interval: interval,
		sleep:    time.Sleep,
	}
}

// Start begins pagination for an area at page 1 with a zero count.
func (c *Controller) Start(area string) *AreaProgress {
	return &AreaProgress{Area: area, Page: 1}
}

// Advance consumes one page's record count and reports whether another
// page must be requested for the same area: exactly PerPage records
// means more may follow, strictly fewer ends the area. The pacing pause
// applies after every page, the area's last included, and is never
// shortened by retries.
func (c *Controller) Advance(progress *AreaProgress, pageRecords int) bool {
	progress.Count += pageRecords
	c.pause()

	if pageRecords < PerPage {
		return false
	}
	progress.Page++
	return true
}

func (c *Controller) pause() {
	if c.interval > 0 {
		c.sleep(c.interval)
	}
}
