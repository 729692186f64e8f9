package display

import (
	"log"
	"strings"
)

// LogSink writes each distinct frame to the log as one line. It is the
// display for headless runs.
type LogSink struct {
	texts []string
	last  string
}

// NewLogSink creates an empty LogSink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

func (l *LogSink) Clear() {
	l.texts = l.texts[:0]
}

func (l *LogSink) DrawRect(x, y, w, h int) {}

func (l *LogSink) Print(x, y int, size TextSize, text string) {
	l.texts = append(l.texts, text)
}

// Flush logs the frame if it differs from the previous one, so the 100ms
// refresh does not flood the log.
func (l *LogSink) Flush() error {
	line := strings.Join(l.texts, " | ")
	if line == l.last {
		return nil
	}
	l.last = line
	log.Printf("display: %s", line)
	return nil
}
