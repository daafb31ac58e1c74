package gantt

import (
	"fmt"
	"html"
	"strings"
)

// Palette lifted from the portal's theme.
const (
	colorBar       = "#848484"
	colorFill      = "#063312"
	colorConnector = "#204877"
	colorHeaderBg  = "#F0F0E8"
	colorGridLine  = "#CCCABC"
	colorBoundary  = "#404040"
)

// RenderSVG renders a layout as a standalone SVG document: month and day
// header rows, the day grid with month-boundary dividers, one bar per task
// with its progress fill and label, and the dependency connectors.
func RenderSVG(l *Layout) []byte {
	var b strings.Builder

	height := l.ChartHeight()
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" font-family="sans-serif">`,
		l.TotalWidth, height)
	b.WriteString("\n")

	b.WriteString(`<defs><marker id="arrowhead" markerWidth="10" markerHeight="10" refX="8" refY="5" orient="auto">`)
	fmt.Fprintf(&b, `<polygon points="0 0, 10 5, 0 10" fill="%s"/></marker></defs>`, colorConnector)
	b.WriteString("\n")

	renderHeaders(&b, l)

	gridTop := MonthHeaderHeight + DayHeaderHeight
	renderGrid(&b, l, gridTop, height)

	// Connectors sit under the bars, offset into the task grid.
	fmt.Fprintf(&b, `<g transform="translate(0,%.0f)">`, gridTop)
	b.WriteString("\n")
	for _, c := range l.Connectors {
		var d strings.Builder
		for i, p := range c.Path {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&d, "%s %.2f %.2f ", cmd, p.X, p.Y)
		}
		fmt.Fprintf(&b, `<path d="%s" stroke="%s" stroke-width="2" fill="none" marker-end="url(#arrowhead)"/>`,
			strings.TrimSpace(d.String()), colorConnector)
		b.WriteString("\n")
	}

	for _, bar := range l.Bars {
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.0f" rx="6" fill="%s"/>`,
			bar.X, bar.Y, bar.Width, BarHeight, colorBar)
		if bar.FillWidth > 0 {
			fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.0f" rx="6" fill="%s"/>`,
				bar.X, bar.Y, bar.FillWidth, BarHeight, colorFill)
		}
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-size="12" fill="#FFFFFF">%s</text>`,
			bar.X+bar.Width/2, bar.CenterY, html.EscapeString(bar.Task.Name))
		b.WriteString("\n")
	}
	b.WriteString("</g>\n")

	b.WriteString("</svg>\n")
	return []byte(b.String())
}

func renderHeaders(b *strings.Builder, l *Layout) {
	x := 0.0
	for _, m := range l.Months {
		fmt.Fprintf(b, `<rect x="%.2f" y="0" width="%.2f" height="%.0f" fill="%s" stroke="%s"/>`,
			x, m.Width, MonthHeaderHeight, colorHeaderBg, colorGridLine)
		fmt.Fprintf(b, `<text x="%.2f" y="%.0f" text-anchor="middle" dominant-baseline="middle" font-size="13" font-weight="bold">%s</text>`,
			x+m.Width/2, MonthHeaderHeight/2, html.EscapeString(m.Label))
		b.WriteString("\n")
		x += m.Width
	}

	for i, cell := range l.DayCells {
		cx := float64(i) * l.DayWidth
		fmt.Fprintf(b, `<rect x="%.2f" y="%.0f" width="%.2f" height="%.0f" fill="#FFFFFF" stroke="%s"/>`,
			cx, MonthHeaderHeight, l.DayWidth, DayHeaderHeight, colorGridLine)
		fmt.Fprintf(b, `<text x="%.2f" y="%.0f" text-anchor="middle" font-size="11">%d</text>`,
			cx+l.DayWidth/2, MonthHeaderHeight+20, cell.Day)
		fmt.Fprintf(b, `<text x="%.2f" y="%.0f" text-anchor="middle" font-size="9" fill="%s">%s</text>`,
			cx+l.DayWidth/2, MonthHeaderHeight+36, colorBar, cell.Weekday)
		if cell.MonthStart {
			fmt.Fprintf(b, `<rect x="%.2f" y="%.0f" width="2" height="%.0f" fill="%s"/>`,
				cx, MonthHeaderHeight, DayHeaderHeight, colorBoundary)
		}
		b.WriteString("\n")
	}
}

func renderGrid(b *strings.Builder, l *Layout, top, height float64) {
	for i := 0; i <= l.Days; i++ {
		gx := float64(i) * l.DayWidth
		color := colorGridLine
		width := 1.0
		if i > 0 && i < l.Days && l.DayCells[i].MonthStart {
			color = colorBoundary
			width = 2.0
		}
		fmt.Fprintf(b, `<rect x="%.2f" y="%.0f" width="%.1f" height="%.0f" fill="%s"/>`,
			gx, top, width, height-top, color)
	}
	b.WriteString("\n")
}
