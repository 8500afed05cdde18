// Package progress reports block-by-block processing progress to a
// terminal-aware line, the way the teacher's CLI tools report status
// to the console.
package progress

/*------------------------------------------------------------------
 *
 * Purpose:	Print a single updating progress line (blocks processed,
 *		percentage, ETA) sized to the terminal width, falling
 *		back to a fixed width when that can't be determined
 *		(piped output, no controlling terminal).
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/term"
)

const defaultWidth = 80

// Reporter prints an updating progress line to an io.Writer as blocks
// are processed.
type Reporter struct {
	w        io.Writer
	total    int
	start    time.Time
	width    int
	lastLine string
}

// New creates a Reporter for a run of total blocks, writing to w.
func New(w io.Writer, total int) *Reporter {
	return &Reporter{
		w:     w,
		total: total,
		start: time.Now(),
		width: terminalWidth(),
	}
}

func terminalWidth() int {
	tty, err := term.Open("/dev/tty")
	if err != nil {
		return defaultWidth
	}
	defer tty.Close()

	w, _, err := term.GetSize(tty.Fd())
	if err != nil || w <= 0 {
		return defaultWidth
	}

	return w
}

// Update reports that `done` of `total` blocks have been processed.
func (r *Reporter) Update(done int) {
	if r.total <= 0 {
		return
	}

	frac := float64(done) / float64(r.total)
	if frac > 1 {
		frac = 1
	}

	elapsed := time.Since(r.start)
	var eta time.Duration
	if frac > 0 {
		eta = time.Duration(float64(elapsed) / frac * (1 - frac))
	}

	barWidth := r.width - 40
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(frac * float64(barWidth))

	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)
	line := fmt.Sprintf("\r[%s] %5.1f%% (%d/%d) ETA %s", bar, frac*100, done, r.total, eta.Round(time.Second))

	pad := ""
	if len(line) < len(r.lastLine) {
		pad = strings.Repeat(" ", len(r.lastLine)-len(line))
	}

	fmt.Fprint(r.w, line+pad)
	r.lastLine = line
}

// Done finishes the progress line with a trailing newline.
func (r *Reporter) Done() {
	fmt.Fprintln(r.w)
}
