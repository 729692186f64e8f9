package main

import (
	"io"
	"log"
	"os"
	"testing"
)

// logOutput redirects the standard logger to w for the rest of the test.
func logOutput(t *testing.T, w io.Writer) {
	t.Helper()
	flags := log.Flags()
	log.SetOutput(w)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
}
