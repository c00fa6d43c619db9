package console

import (
	"bytes"
	"io"
	"testing"
	"time"
)

// pollGet retries Get until it stops reporting "no data available" or the
// deadline passes, since the copying goroutine's delivery isn't
// synchronized with the caller.
func pollGet(t *testing.T, c *Console) (byte, bool, bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		b, ok, eof := c.Get()
		if ok || eof || time.Now().After(deadline) {
			return b, ok, eof
		}
		time.Sleep(time.Millisecond)
	}
}

func TestGetNoDataAvailable(t *testing.T) {
	r, _ := io.Pipe()
	c := New(r, io.Discard, "")
	if _, ok, eof := c.Get(); ok || eof {
		t.Fatalf("Get() on empty console = (ok=%v, eof=%v), want (false, false)", ok, eof)
	}
}

func TestGetReturnsFedByte(t *testing.T) {
	r, w := io.Pipe()
	c := New(r, io.Discard, "")
	go w.Write([]byte{0x41})
	b, ok, eof := pollGet(t, c)
	if !ok || eof || b != 0x41 {
		t.Fatalf("Get() = (%#x, ok=%v, eof=%v), want (0x41, true, false)", b, ok, eof)
	}
}

func TestGetReportsEOF(t *testing.T) {
	r, w := io.Pipe()
	c := New(r, io.Discard, "")
	w.Close()
	_, ok, eof := pollGet(t, c)
	if ok || !eof {
		t.Fatalf("Get() after EOF = (ok=%v, eof=%v), want (false, true)", ok, eof)
	}
}

func TestPutWritesByte(t *testing.T) {
	r, _ := io.Pipe()
	var buf bytes.Buffer
	c := New(r, &buf, "")
	if err := c.Put('x'); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got := buf.String(); got != "x" {
		t.Fatalf("Put wrote %q, want %q", got, "x")
	}
}
