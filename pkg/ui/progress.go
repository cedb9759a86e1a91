package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	progressWidth = 20
)

// DayProgress tracks how many days of the window have been queried
type DayProgress struct {
	Label     string
	Total     int
	Done      int
	StartTime time.Time
}

// NewDayProgress creates a tracker for total days
func NewDayProgress(label string, total int) *DayProgress {
	return &DayProgress{Label: label, Total: total, StartTime: time.Now()}
}

// Update records done days and redraws the line
func (p *DayProgress) Update(done, total int) {
	p.Done, p.Total = done, total
	fmt.Fprintf(Out, "\r%s %s", Magenta("["+p.Label+"]"), p.Bar())
	if done >= total {
		fmt.Fprintf(Out, " %s\n", Dim(p.Elapsed().Round(time.Millisecond).String()))
	}
}

// Bar renders the progress bar with a done/total counter
func (p *DayProgress) Bar() string {
	filled := 0
	if p.Total > 0 {
		filled = p.Done * progressWidth / p.Total
	}
	if filled > progressWidth {
		filled = progressWidth
	}
	bar := strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, progressWidth-filled)
	return fmt.Sprintf("[%s] %d/%d", bar, p.Done, p.Total)
}

// Elapsed returns the time since the tracker was created
func (p *DayProgress) Elapsed() time.Duration {
	return time.Since(p.StartTime)
}
