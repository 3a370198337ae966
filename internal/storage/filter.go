package storage

import (
	"time"

	"github.com/leca/arexplorer-images/internal/geo"
	"github.com/leca/arexplorer-images/internal/model"
)

// DateLayout is the capture date format used by clients and filters.
const DateLayout = "2006-01-02T15:04:05"

// Filter selects records by capture date window and distance from a point.
//
// Both tests must pass for a record to be listed. A test whose parameters
// are absent fails, so a Filter without dates or without a location
// matches nothing.
type Filter struct {
	StartDate string
	EndDate   string

	Lat    *float64
	Lng    *float64
	Radius *float64

	IncludePublic bool
}

// MatchesDate reports whether img was captured strictly between StartDate
// and EndDate. Unparseable bounds or capture dates never match.
func (f Filter) MatchesDate(img *model.Image) bool {
	captured, err := time.Parse(DateLayout, img.Date)
	if err != nil {
		return false
	}
	return f.compile().matchesDate(captured)
}

// MatchesRadius reports whether img lies strictly closer than Radius meters
// to (Lat, Lng).
func (f Filter) MatchesRadius(img *model.Image) bool {
	return f.compile().matchesRadius(img)
}

// Matches combines both tests.
func (f Filter) Matches(img *model.Image) bool {
	captured, err := time.Parse(DateLayout, img.Date)
	if err != nil {
		return false
	}
	return f.compile().matches(captured, img)
}

// compiledFilter is a Filter with its bounds parsed, built once per scan.
type compiledFilter struct {
	start, end time.Time
	datesOK    bool

	center   geo.Point
	radius   float64
	radiusOK bool
}

func (f Filter) compile() compiledFilter {
	var c compiledFilter

	if f.StartDate != "" && f.EndDate != "" {
		start, startErr := time.Parse(DateLayout, f.StartDate)
		end, endErr := time.Parse(DateLayout, f.EndDate)
		if startErr == nil && endErr == nil {
			c.start, c.end, c.datesOK = start, end, true
		}
	}

	if f.Lat != nil && f.Lng != nil && f.Radius != nil {
		c.center = geo.Point{Lat: *f.Lat, Lng: *f.Lng}
		c.radius = *f.Radius
		c.radiusOK = true
	}
	return c
}

// satisfiable reports whether any record could pass. When it is false a
// scan can stop before touching the disk.
func (c compiledFilter) satisfiable() bool {
	return c.datesOK && c.radiusOK
}

func (c compiledFilter) matchesDate(captured time.Time) bool {
	return c.datesOK && captured.After(c.start) && captured.Before(c.end)
}

func (c compiledFilter) matchesRadius(img *model.Image) bool {
	if !c.radiusOK {
		return false
	}
	return c.center.DistanceTo(geo.Point{Lat: img.Lat, Lng: img.Lng}) < c.radius
}

func (c compiledFilter) matches(captured time.Time, img *model.Image) bool {
	dateOK := c.matchesDate(captured)
	radiusOK := c.matchesRadius(img)
	return dateOK && radiusOK
}
