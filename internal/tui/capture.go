package tui

import (
	"fmt"
	"os"
)

// Capture redirects STDOUT and STDERR into log so that anything printed
// while the terminal is in use shows up in the log panel instead of
// tearing the screen. The returned function restores both.
//
// Loggers created before the capture keep writing to the old files.
func Capture(log *Logger) (restore func(), err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating capture pipe: %w", err)
	}

	stdout, stderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = w, w

	done := make(chan struct{})

	// spawn a process to capture output
	go func() {
		defer close(done)
		_, _ = log.ReadFrom(r)
	}()

	return func() {
		os.Stdout, os.Stderr = stdout, stderr

		_ = w.Close()
		<-done
		_ = r.Close()
	}, nil
}
