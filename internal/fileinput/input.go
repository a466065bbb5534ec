// Package fileinput implements the line-input source stack: an
// ordered queue of input streams (interactive terminal, then any files
// pushed by `include-file`), read one byte at a time since the text
// engine is 8-bit bytes only (no Unicode decoding).
package fileinput

import (
	"bytes"
	"fmt"
	"io"
)

// Location names a line in an Input file.
type Location struct {
	Name string
	Line int
}

// Line combines a Location along with a bytes.Buffer holding its content so
// far, for error messages and tracing.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Buffer.String()) }

// Input implements sequential byte reading through a Queue of one or more
// input streams, popping to the next stream on EOF. Both the current and
// last-completed lines are tracked to facilitate user feedback and
// `include-file` error reporting.
type Input struct {
	br    io.ByteReader
	Queue []io.Reader
	Last  Line
	Scan  Line
}

// ReadByte reads one byte from the current input stream, appending it into
// the current Scan line, and rolling Scan over to Last after a line feed.
// Transparently advances to the next queued stream on EOF; returns io.EOF
// only once the queue is exhausted.
func (in *Input) ReadByte() (byte, error) {
	if in.br == nil && !in.nextIn() {
		return 0, io.EOF
	}

	b, err := in.br.ReadByte()
	if err == nil {
		if b == '\n' {
			in.nextLine()
		} else {
			in.Scan.WriteByte(b)
		}
		return b, nil
	}

	if err == io.EOF && in.nextIn() {
		return in.ReadByte()
	}
	return 0, err
}

// Push enqueues a new source at the back of the queue, to be read after all
// currently-queued sources are exhausted; used by `include-file`.
func (in *Input) Push(r io.Reader) {
	in.Queue = append(in.Queue, r)
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Name = in.Scan.Name
	in.Last.Line = in.Scan.Line
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

func (in *Input) nextIn() bool {
	in.nextLine()
	if in.br != nil {
		if cl, ok := in.br.(io.Closer); ok {
			cl.Close()
		}
		in.br = nil
	}
	if len(in.Queue) > 0 {
		r := in.Queue[0]
		in.Queue = in.Queue[1:]
		in.br = asByteReader(r)
		in.Scan.Name = nameOf(r)
		in.Scan.Line = 1
	}
	return in.br != nil
}

func asByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return &byteReader{r: r}
}

// byteReader adapts a plain io.Reader to io.ByteReader one byte at a time.
// Callers supplying *bufio.Reader or *bytes.Reader skip this path entirely.
type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func (br *byteReader) ReadByte() (byte, error) {
	n, err := br.r.Read(br.buf[:])
	if n > 0 {
		return br.buf[0], nil
	}
	if err == nil {
		err = io.ErrNoProgress
	}
	return 0, err
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
