// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package intake frames the external input stream described in spec.md §6:
// either newline-separated text (decimal, 0x/0b/0o-prefixed) or raw
// little-endian uint32 words packed back-to-back.
package intake

import (
	"bufio"
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrOutputParse is returned when a text-mode line is not a valid unsigned
// 32-bit integer (spec.md §7).
var ErrOutputParse = errors.New("intake: output line is not a valid uint32")

// ErrInputTruncated is returned when end-of-input is reached before four
// bootstrap outputs have been read (spec.md §7).
var ErrInputTruncated = errors.New("intake: truncated before bootstrap completed")

// Reader reads PCG-XSH-RR outputs off a byte stream in either framing mode.
type Reader struct {
	r      *bufio.Reader
	binary bool
}

// NewReader wraps r. When binaryMode is true, ReadOutput consumes raw
// little-endian uint32 words; otherwise it reads one line at a time.
func NewReader(r io.Reader, binaryMode bool) *Reader {
	return &Reader{r: bufio.NewReader(r), binary: binaryMode}
}

// ReadOutput returns the next output in the stream. It returns io.EOF
// (unwrapped, so callers can distinguish "stream ended cleanly" from a
// parse failure) once the stream is exhausted between outputs.
func (in *Reader) ReadOutput() (uint32, error) {
	if in.binary {
		return in.readBinary()
	}
	return in.readText()
}

func (in *Reader) readBinary() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(in.r, buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return 0, errors.Wrap(io.EOF, "truncated binary output")
		}
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (in *Reader) readText() (uint32, error) {
	for {
		line, err := in.r.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			v, perr := parseUint32(trimmed)
			if perr != nil {
				if err != nil && err != io.EOF {
					return 0, err
				}
				return 0, errors.Wrapf(ErrOutputParse, "%q", trimmed)
			}
			return uint32(v), nil
		}
		if err != nil {
			return 0, err // typically io.EOF
		}
	}
}

// parseUint32 accepts decimal, 0x-prefixed hex, 0b-prefixed binary, and
// 0o-prefixed octal unsigned 32-bit integers (spec.md §6). Unlike
// strconv.ParseUint's base-0 mode, a bare leading zero ("007") is parsed as
// decimal, not legacy C-style octal — only an explicit "0o"/"0O" prefix
// means octal.
func parseUint32(s string) (uint32, error) {
	base := 10
	digits := s
	if len(s) > 1 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base, digits = 16, s[2:]
		case 'b', 'B':
			base, digits = 2, s[2:]
		case 'o', 'O':
			base, digits = 8, s[2:]
		}
	}

	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
