package spectrice

/*------------------------------------------------------------------
 *
 * Purpose:	Diagnostic logger for the CLI, with an optional
 *		per-day log file alongside
 *		stderr output. Never touched by the core session/engine
 *		files: Init and Process stay free of I/O so the engine
 *		itself has no logging side effects.
 *
 *----------------------------------------------------------------*/

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// Log is the package-wide diagnostic logger. cmd/spectrice, its only
// user, points it at a log file via OpenLogFile.
var Log = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "spectrice",
})

var (
	logPattern *strftime.Strftime
	logDir     string
	logFile    *os.File
	logName    string
)

/*------------------------------------------------------------------
 *
 * Name:	OpenLogFile
 *
 * Purpose:	Point Log at a daily-rotating file in addition to stderr.
 *
 * Inputs:	dir	- Directory to hold daily log files. Created if
 *			  it doesn't already exist.
 *
 * Returns:	Error if dir exists and isn't a directory, or can't be
 *		created.
 *
 *----------------------------------------------------------------*/
func OpenLogFile(dir string) error {
	stat, statErr := os.Stat(dir)
	switch {
	case statErr == nil && !stat.IsDir():
		return invalidConfigf("log directory %q exists and is not a directory", dir)
	case statErr != nil:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return invalidConfigf("could not create log directory %q: %v", dir, err)
		}
	}

	pattern, err := strftime.New("spectrice-%Y-%m-%d.log")
	if err != nil {
		return invalidConfigf("invalid log file name pattern: %v", err)
	}

	logPattern = pattern
	logDir = dir

	return rotateLogFileIfNeeded()
}

// rotateLogFileIfNeeded opens today's log file if it isn't already open,
// closing yesterday's first if the date has rolled over. Only OpenLogFile
// calls it, so a run that crosses midnight keeps writing to the file
// OpenLogFile opened.
func rotateLogFileIfNeeded() error {
	if logPattern == nil {
		return nil
	}

	wantName := logPattern.FormatString(time.Now())
	if logFile != nil && wantName == logName {
		return nil
	}

	CloseLogFile()

	full := filepath.Join(logDir, wantName)
	f, err := os.OpenFile(full, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return invalidConfigf("could not open log file %q: %v", full, err)
	}

	logFile = f
	logName = wantName
	Log.SetOutput(io.MultiWriter(os.Stderr, f))

	return nil
}

// CloseLogFile closes the currently open daily log file, if any, and
// falls back to stderr-only output.
func CloseLogFile() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
		logName = ""
		Log.SetOutput(os.Stderr)
	}
}
