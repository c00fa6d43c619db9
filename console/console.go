// Package console is the host-side implementation of the VM's TX/RX/SAVE
// callback contract: a non-blocking byte source backed by a reader-copying
// goroutine, a byte sink backed by a writer, and a block-image saver.
package console

import (
	"bufio"
	"io"
	"os"

	"github.com/dvhtn/forthcpu/word"
)

// inBuf is the channel capacity backing Get's non-blocking receive; sized
// generously so a burst of input never stalls the copying goroutine behind
// a VM that is momentarily busy running ALU ops instead of polling RX.
const inBuf = 2048

// Console implements vm.IO: Get is a non-blocking poll fed by a goroutine
// that copies bytes out of r, Put writes to w, and Save persists a memory
// image to blockPath. The copying goroutine is the package's one
// concurrency boundary; the VM itself remains synchronous per spec.
type Console struct {
	in        chan byte
	eof       chan struct{}
	w         *bufio.Writer
	blockPath string
}

// New starts the input-copying goroutine and returns a ready Console.
// r is read until EOF or a read error, at which point the input channel
// is marked exhausted and subsequent Get calls report eof=true.
func New(r io.Reader, w io.Writer, blockPath string) *Console {
	c := &Console{
		in:        make(chan byte, inBuf),
		eof:       make(chan struct{}),
		w:         bufio.NewWriter(w),
		blockPath: blockPath,
	}
	go c.copyInput(r)
	return c
}

func (c *Console) copyInput(r io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			c.in <- buf[0]
		}
		if err != nil {
			close(c.eof)
			return
		}
	}
}

// Get implements the input callback contract of spec.md §6: a single
// non-blocking attempt to receive a byte. ok is false when no byte is
// currently available (the caller should treat the RX as pending and
// re-poll); eof is true once the underlying reader is exhausted and no
// buffered bytes remain.
func (c *Console) Get() (b byte, ok bool, eof bool) {
	select {
	case b = <-c.in:
		return b, true, false
	default:
	}
	select {
	case <-c.eof:
		select {
		case b = <-c.in:
			return b, true, false
		default:
			return 0, false, true
		}
	default:
		return 0, false, false
	}
}

// Put implements the output callback contract: write the low 8 bits of T.
func (c *Console) Put(b byte) error {
	if err := c.w.WriteByte(b); err != nil {
		return err
	}
	return c.w.Flush()
}

// Save implements the SAVE callback contract: persist the memory image to
// blockPath in the little-endian, low-byte-first cell layout of spec.md §6.
func (c *Console) Save(mem []word.Instr) error {
	f, err := os.Create(c.blockPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return word.EncodeImage(f, mem)
}
