// Package gantt lays out a dependency-aware timeline of onboarding stages on
// a date-indexed grid. The layout is pure geometry; rendering and hover
// behaviour are built on top of it.
package gantt

import (
	"fmt"
	"time"
)

// Geometry constants shared by the layout and its renderers.
const (
	// MinVisibleDays is the minimum horizontal span, enforced even when the
	// content is narrower.
	MinVisibleDays = 30
	// MinDayWidth keeps day columns legible on wide date ranges.
	MinDayWidth = 24.0

	RowHeight = 48.0
	BarTop    = 2.0
	BarHeight = 32.0

	// elbowOffset is how far a connector runs out of its source bar before
	// turning.
	elbowOffset = 20.0

	MonthHeaderHeight = 40.0
	DayHeaderHeight   = 48.0
)

// Task is one timeline row: a stage with its span, progress and
// prerequisites.
type Task struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Progress  float64   `json:"progress"`
	Details   string    `json:"details,omitempty"`
	DependsOn []string  `json:"dependsOn,omitempty"`
}

// Options control the grid dimensions.
type Options struct {
	// ContainerWidth is the available pixel width; the day column scales to
	// fill it, down to MinDayWidth.
	ContainerWidth float64
	// Days is the visible day count; defaults to MinVisibleDays.
	Days int
}

// MonthCell is one merged month header cell.
type MonthCell struct {
	Label string  `json:"label"`
	Span  int     `json:"span"`
	Width float64 `json:"width"`
}

// DayCell is one day header cell.
type DayCell struct {
	Day        int    `json:"day"`
	Weekday    string `json:"weekday"`
	MonthStart bool   `json:"monthStart"`
}

// Bar is a positioned task row.
type Bar struct {
	Task      Task    `json:"task"`
	Row       int     `json:"row"`
	X         float64 `json:"x"`
	Width     float64 `json:"width"`
	FillWidth float64 `json:"fillWidth"`
	Y         float64 `json:"y"`
	CenterY   float64 `json:"centerY"`
}

// Point is a connector path vertex.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Connector is an orthogonal dependency arrow from the right edge of the
// prerequisite bar to the left edge of the dependent bar.
type Connector struct {
	FromID string  `json:"fromId"`
	ToID   string  `json:"toId"`
	Path   []Point `json:"path"`
}

// Layout is the computed timeline geometry.
type Layout struct {
	ChartStart time.Time   `json:"chartStart"`
	Days       int         `json:"days"`
	DayWidth   float64     `json:"dayWidth"`
	TotalWidth float64     `json:"totalWidth"`
	Months     []MonthCell `json:"months"`
	DayCells   []DayCell   `json:"dayCells"`
	Bars       []Bar       `json:"bars"`
	Connectors []Connector `json:"connectors"`
}

// EarliestStart returns the earliest task start date. The boolean guards the
// empty case so callers never fold an invalid date into the chart start.
func EarliestStart(tasks []Task) (time.Time, bool) {
	if len(tasks) == 0 {
		return time.Time{}, false
	}
	earliest := tasks[0].Start
	for _, t := range tasks[1:] {
		if t.Start.Before(earliest) {
			earliest = t.Start
		}
	}
	return earliest, true
}

// NewLayout computes the timeline geometry for a set of tasks starting at
// chartStart. It is a pure function of its inputs and handles an empty task
// list without error.
func NewLayout(tasks []Task, chartStart time.Time, opts Options) *Layout {
	days := opts.Days
	if days <= 0 {
		days = MinVisibleDays
	}

	dayWidth := MinDayWidth
	if opts.ContainerWidth > 0 {
		if computed := opts.ContainerWidth / MinVisibleDays; computed > dayWidth {
			dayWidth = computed
		}
	}

	l := &Layout{
		ChartStart: chartStart,
		Days:       days,
		DayWidth:   dayWidth,
		TotalWidth: dayWidth * float64(days),
	}

	l.buildHeaders()
	l.buildBars(tasks)
	l.buildConnectors(tasks)
	return l
}

func (l *Layout) dateToPx(date time.Time) float64 {
	return date.Sub(l.ChartStart).Hours() / 24 * l.DayWidth
}

func (l *Layout) dayAt(i int) time.Time {
	return l.ChartStart.AddDate(0, 0, i)
}

// buildHeaders merges contiguous days of the same calendar month into one
// labeled cell and marks month boundaries on the day row.
func (l *Layout) buildHeaders() {
	i := 0
	for i < l.Days {
		date := l.dayAt(i)
		span := 1
		for i+span < l.Days {
			next := l.dayAt(i + span)
			if next.Month() != date.Month() || next.Year() != date.Year() {
				break
			}
			span++
		}
		l.Months = append(l.Months, MonthCell{
			Label: date.Format("January 2006"),
			Span:  span,
			Width: float64(span) * l.DayWidth,
		})
		i += span
	}

	for d := 0; d < l.Days; d++ {
		day := l.dayAt(d)
		cell := DayCell{
			Day:     day.Day(),
			Weekday: day.Format("Mon"),
		}
		if d > 0 && day.Month() != l.dayAt(d-1).Month() {
			cell.MonthStart = true
		}
		l.DayCells = append(l.DayCells, cell)
	}
}

func (l *Layout) buildBars(tasks []Task) {
	for i, t := range tasks {
		x := l.dateToPx(t.Start)
		width := t.End.Sub(t.Start).Hours() / 24 * l.DayWidth
		y := float64(i)*RowHeight + BarTop
		l.Bars = append(l.Bars, Bar{
			Task:      t,
			Row:       i,
			X:         x,
			Width:     width,
			FillWidth: t.Progress / 100 * width,
			Y:         y,
			CenterY:   y + BarHeight/2,
		})
	}
}

// buildConnectors draws an L-shaped path per declared prerequisite: out of
// the source's right edge, a vertical run between row centers, then into the
// target's left edge. Never a diagonal. Unknown prerequisite ids are
// skipped.
func (l *Layout) buildConnectors(tasks []Task) {
	rowByID := make(map[string]int, len(tasks))
	for i, t := range tasks {
		rowByID[t.ID] = i
	}

	for targetRow, t := range tasks {
		for _, depID := range t.DependsOn {
			sourceRow, ok := rowByID[depID]
			if !ok {
				continue
			}

			src := l.Bars[sourceRow]
			trg := l.Bars[targetRow]

			startX := src.X + src.Width
			endX := trg.X
			midX := startX + elbowOffset

			l.Connectors = append(l.Connectors, Connector{
				FromID: depID,
				ToID:   t.ID,
				Path: []Point{
					{X: startX, Y: src.CenterY},
					{X: midX, Y: src.CenterY},
					{X: midX, Y: trg.CenterY},
					{X: endX, Y: trg.CenterY},
				},
			})
		}
	}
}

// ChartHeight is the full pixel height including header rows.
func (l *Layout) ChartHeight() float64 {
	return MonthHeaderHeight + DayHeaderHeight + float64(len(l.Bars))*RowHeight
}

// HitTest returns the bar under a pointer position relative to the task
// grid, for tooltip display. Nil when the pointer is not over a bar.
func (l *Layout) HitTest(x, y float64) *Bar {
	for i := range l.Bars {
		b := &l.Bars[i]
		top := float64(b.Row)*RowHeight + BarTop
		if y < top || y > top+BarHeight {
			continue
		}
		if x >= b.X && x <= b.X+b.Width {
			return b
		}
	}
	return nil
}

// Tooltip is the hover payload for a bar.
type Tooltip struct {
	Name     string `json:"name"`
	Details  string `json:"details"`
	Progress string `json:"progress"`
}

// TooltipFor builds the hover payload for a bar.
func TooltipFor(b *Bar) Tooltip {
	return Tooltip{
		Name:     b.Task.Name,
		Details:  b.Task.Details,
		Progress: fmt.Sprintf("Progress: %.0f%%", b.Task.Progress),
	}
}
