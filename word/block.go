package word

import "io"

// EncodeImage writes mem to w as little-endian 16-bit cells (low byte
// first), the persisted block layout of spec.md §6.
func EncodeImage(w io.Writer, mem []Instr) error {
	buf := make([]byte, len(mem)*2)
	for i, c := range mem {
		buf[2*i] = byte(c)
		buf[2*i+1] = byte(c >> 8)
	}
	_, err := w.Write(buf)
	return err
}

// DecodeImage reads a little-endian block image from r into a freshly
// allocated []Instr of length MemSize, per spec.md §6's load path.
func DecodeImage(r io.Reader) ([]Instr, error) {
	buf := make([]byte, MemSize*2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	mem := make([]Instr, MemSize)
	for i := range mem {
		mem[i] = Instr(buf[2*i]) | Instr(buf[2*i+1])<<8
	}
	return mem, nil
}
