package Planner

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// DisplayLayout is how start and end timestamps are shown ("u" reads "at").
const DisplayLayout = "02.01.2006. u 15:04"

// PassedLabel is shown instead of the due time once the deadline has gone by.
const PassedLabel = "Rok prošao"

var dueLayouts = []string{"2006-01-02 15:04", "2006-01-02 15:04:05"}

// Timestamps without a zone are read in the classifier's location.
var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02T15:04"}

// Classifier derives time-dependent task fields against a single fixed zone.
type Classifier struct {
	Location *time.Location
	Now      func() time.Time
}

func NewClassifier(loc *time.Location) *Classifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Classifier{Location: loc, Now: time.Now}
}

// Due parses a due date ("2006-01-02") and due time ("15:04") into an instant.
func (c *Classifier) Due(dueDate, dueTime string) (time.Time, bool) {
	for _, layout := range dueLayouts {
		t, err := time.ParseInLocation(layout, dueDate+" "+dueTime, c.Location)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// OverDo is true while now is strictly before the due instant. A due date or
// time that cannot be parsed counts as passed.
func (c *Classifier) OverDo(dueDate, dueTime string) bool {
	due, ok := c.Due(dueDate, dueTime)
	if !ok {
		log.WithFields(log.Fields{"due_date": dueDate, "due_time": dueTime}).Warn("Unparseable due date")
		return false
	}
	return c.Now().In(c.Location).Before(due)
}

// FormatTimestamp renders a backend timestamp for display. nil stays nil and
// a value that cannot be parsed is passed through untouched.
func (c *Classifier) FormatTimestamp(raw *string) *string {
	if raw == nil || *raw == "" {
		return nil
	}
	t, ok := c.parseTimestamp(*raw)
	if !ok {
		log.WithField("timestamp", *raw).Warn("Unparseable timestamp")
		out := *raw
		return &out
	}
	out := t.In(c.Location).Format(DisplayLayout)
	return &out
}

func (c *Classifier) parseTimestamp(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, c.Location); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StampNow is the display form of the current time, used when a task is
// started locally before the next fetch brings the server value.
func (c *Classifier) StampNow() *string {
	out := c.Now().In(c.Location).Format(DisplayLayout)
	return &out
}
