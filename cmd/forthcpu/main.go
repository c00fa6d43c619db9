// Command forthcpu is the driver (C7): with a source-file argument it
// assembles and writes the block image; with no arguments it loads the
// block image and runs it, per spec.md §4.7/§6.
package main

import (
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dvhtn/forthcpu/asm"
	"github.com/dvhtn/forthcpu/console"
	"github.com/dvhtn/forthcpu/vm"
	"github.com/dvhtn/forthcpu/word"
)

// blockPath is the conventional memory image file spec.md §6 calls
// FORTH_BLOCK.
const blockPath = "FORTH_BLOCK"

// pollInterval is the sleep between re-entries after RX finds no data,
// matching the "~10ms" figure in spec.md §5/§6.
const pollInterval = 10 * time.Millisecond

// escapeByte is the ASCII ESCAPE code that spec.md §5 has the driver, not
// the VM, intercept for a successful process exit.
const escapeByte = 27

func main() {
	if len(os.Args) > 2 {
		log.Fatalf("usage: %s [source]", os.Args[0])
	}
	if len(os.Args) == 2 {
		assembleAndSave(os.Args[1])
		return
	}
	runBlock()
}

func assembleAndSave(path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	p, err := asm.NewParser(asm.NewLexer(f))
	if err != nil {
		log.Fatalln(err)
	}
	prog, err := p.Parse()
	if err != nil {
		log.Fatalln(err)
	}
	mem, err := asm.NewAssembler().Assemble(prog)
	if err != nil {
		log.Fatalln(err)
	}
	out, err := os.Create(blockPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer out.Close()
	if err := word.EncodeImage(out, mem); err != nil {
		log.Fatalln(err)
	}
}

func runBlock() {
	f, err := os.Open(blockPath)
	if err != nil {
		log.Fatalln(err)
	}
	img, err := word.DecodeImage(f)
	f.Close()
	if err != nil {
		log.Fatalln(err)
	}

	esc := newEscapeFilter(os.Stdin)
	m := vm.New(console.New(esc, os.Stdout, blockPath))
	m.Load(img)

	for {
		status, code, err := m.Run()
		if err != nil {
			log.Fatalln(err)
		}
		if esc.escaped() {
			os.Exit(0)
		}
		switch status {
		case vm.StatusHalted:
			os.Exit(int(code))
		case vm.StatusPending:
			time.Sleep(pollInterval)
		default:
			log.Fatalf("unknown run status %d", status)
		}
	}
}

// escapeFilter wraps a reader and drops the ESCAPE byte and everything
// after it in the same chunk, latching escaped() so the driver's run
// loop can exit successfully instead of ever handing ESCAPE to the VM's
// RX callback.
type escapeFilter struct {
	r    io.Reader
	once sync.Once
	gone chan struct{}
}

func newEscapeFilter(r io.Reader) *escapeFilter {
	return &escapeFilter{r: r, gone: make(chan struct{})}
}

func (f *escapeFilter) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] == escapeByte {
			f.once.Do(func() { close(f.gone) })
			return i, nil
		}
	}
	return n, err
}

func (f *escapeFilter) escaped() bool {
	select {
	case <-f.gone:
		return true
	default:
		return false
	}
}
