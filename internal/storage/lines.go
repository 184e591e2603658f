package storage

import (
	"bufio"
	"io"
	"strings"
)

// lineReader reads newline terminated lines of any length. A trailing "\r"
// is dropped along with the "\n", and a last line without a newline is still
// returned.
type lineReader struct {
	br   *bufio.Reader
	line string
	err  error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReader(r)}
}

// Next advances to the next line. It returns false at end of input or on a
// read error; Err tells them apart.
func (lr *lineReader) Next() bool {
	if lr.err != nil {
		return false
	}
	s, err := lr.br.ReadString('\n')
	if err != nil {
		lr.err = err
		if err != io.EOF || s == "" {
			return false
		}
	}
	s = strings.TrimSuffix(s, "\n")
	lr.line = strings.TrimSuffix(s, "\r")
	return true
}

// Text returns the current line without its line ending.
func (lr *lineReader) Text() string { return lr.line }

// Err returns the first non-EOF read error.
func (lr *lineReader) Err() error {
	if lr.err == io.EOF {
		return nil
	}
	return lr.err
}
