package display

import "fmt"

// FakeSink records drawing commands for test assertions.
type FakeSink struct {
	// Ops contains every command since the last Flush, formatted.
	Ops []string

	// Frames contains the Ops of each flushed frame.
	Frames [][]string

	// FlushError, if set, will be returned by Flush.
	FlushError error
}

// NewFakeSink creates a FakeSink for testing.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

func (f *FakeSink) Clear() {
	f.Ops = append(f.Ops, "clear")
}

func (f *FakeSink) DrawRect(x, y, w, h int) {
	f.Ops = append(f.Ops, fmt.Sprintf("rect %d,%d %dx%d", x, y, w, h))
}

func (f *FakeSink) Print(x, y int, size TextSize, text string) {
	f.Ops = append(f.Ops, fmt.Sprintf("print %d,%d s%d %s", x, y, size, text))
}

func (f *FakeSink) Flush() error {
	if f.FlushError != nil {
		return f.FlushError
	}
	f.Frames = append(f.Frames, f.Ops)
	f.Ops = nil
	return nil
}

// Last returns the most recently flushed frame, or nil.
func (f *FakeSink) Last() []string {
	if len(f.Frames) == 0 {
		return nil
	}
	return f.Frames[len(f.Frames)-1]
}
