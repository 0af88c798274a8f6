// Package progress renders a single-line textual progress bar for
// operator feedback.
package progress

import (
	"fmt"
	"io"
	"strings"
)

const barWidth = 60

// Bar redraws a fixed-width progress line on a terminal writer.
type Bar struct {
	w io.Writer
}

func New(w io.Writer) *Bar {
	return &Bar{w: w}
}

// Update redraws the bar at count of total with a status label.
func (b *Bar) Update(count, total int, status string) {
	if total <= 0 {
		return
	}
	filled := barWidth * count / total
	if filled > barWidth {
		filled = barWidth
	}
	percent := 100.0 * float64(count) / float64(total)
	bar := strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled)
	fmt.Fprintf(b.w, "\033[K[%s] %.1f%% %s\r", bar, percent, status)
}

// Done moves off the bar line.
func (b *Bar) Done() {
	fmt.Fprintln(b.w)
}
