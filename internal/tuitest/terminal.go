package tuitest

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

const pollInterval = 20 * time.Millisecond

// screen accumulates everything the program writes to the PTY. It is shared
// between the capture goroutine and steps waiting for text.
type screen struct {
	mu  sync.Mutex
	raw bytes.Buffer
}

func newScreen() *screen {
	return &screen{}
}

func (s *screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw.Write(p)
}

// Bytes returns a copy of the captured stream.
func (s *screen) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.raw.Bytes())
}

// Contains reports whether text appears in the captured output once escape
// sequences are stripped.
func (s *screen) Contains(text string) bool {
	plain := stripANSI(strings.ReplaceAll(string(s.Bytes()), "\r", ""))
	return strings.Contains(plain, text)
}

func (s *screen) waitFor(ctx context.Context, text string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if s.Contains(text) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// capture copies the PTY into the screen, answering terminal queries on the
// way. The returned channel closes once the PTY stops yielding data.
func (s *screen) capture(rw io.ReadWriter) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		responder := newTerminalResponder(rw)
		buf := make([]byte, 4096)
		for {
			n, err := rw.Read(buf)
			if n > 0 {
				responder.Process(buf[:n])
				_, _ = s.Write(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()
	return done
}

// terminalQueries are the queries bubbletea and termenv send while starting,
// paired with the replies of a dark terminal with the cursor at the origin.
var terminalQueries = []struct {
	query []byte
	reply []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

const (
	responderMaxBuffer = 256
	responderTail      = 64
)

// terminalResponder answers terminal queries so the program does not stall
// waiting for a real terminal. Queries may be split across reads.
type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 2*responderTail)}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	if len(tr.buf) > responderMaxBuffer {
		tr.buf = tr.buf[len(tr.buf)-responderTail:]
	}
}

// answerNext replies to the earliest pending query and drops the buffer up to
// its end. It reports false when no complete query is buffered.
func (tr *terminalResponder) answerNext() bool {
	first, end := -1, 0
	var reply []byte
	for _, q := range terminalQueries {
		idx := bytes.Index(tr.buf, q.query)
		if idx >= 0 && (first < 0 || idx < first) {
			first, end, reply = idx, idx+len(q.query), q.reply
		}
	}
	if first < 0 {
		return false
	}
	tr.buf = tr.buf[end:]
	_, _ = tr.w.Write(reply)
	return true
}
