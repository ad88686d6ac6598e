package tuitest

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestTerminalResponderAnswersSplitQueries(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("frame\x1b[6"))
	if out.Len() != 0 {
		t.Fatalf("partial query answered early: %q", out.String())
	}
	tr.Process([]byte("n\x1b]11;?\x07"))
	want := "\x1b[1;1R\x1b]11;rgb:0000/0000/0000\x07"
	if out.String() != want {
		t.Fatalf("responses got %q want %q", out.String(), want)
	}
}

func TestTerminalResponderAnswersInStreamOrder(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("\x1b]11;?\x1b\\ text \x1b]10;?\x07\x1b[6n"))
	want := "\x1b]11;rgb:0000/0000/0000\x1b\\" + "\x1b]10;rgb:cccc/cccc/cccc\x07" + "\x1b[1;1R"
	if out.String() != want {
		t.Fatalf("responses got %q want %q", out.String(), want)
	}
}

func TestScreenWaitForSeesLaterOutput(t *testing.T) {
	scr := newScreen()
	go func() {
		time.Sleep(3 * pollInterval)
		_, _ = scr.Write([]byte("\x1b[1m✨ Element 3\x1b[0m  STRONG  v2\r\n"))
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := scr.waitFor(ctx, "Element 3  STRONG  v2"); err != nil {
		t.Fatalf("waitFor: %v", err)
	}
}

func TestScreenWaitForTimesOut(t *testing.T) {
	scr := newScreen()
	_, _ = scr.Write([]byte("Choose a Case"))
	ctx, cancel := context.WithTimeout(context.Background(), 5*pollInterval)
	defer cancel()
	if err := scr.waitFor(ctx, "Claim Chart"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v want deadline exceeded", err)
	}
}
