// Package encoding normalises uploaded text files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset is the source encoding a reader was decoded from.
type Charset string

const (
	CharsetUTF8        Charset = "UTF-8"
	CharsetUTF8BOM     Charset = "UTF-8-BOM"
	CharsetUTF16LE     Charset = "UTF-16LE"
	CharsetUTF16BE     Charset = "UTF-16BE"
	CharsetWindows1252 Charset = "windows-1252"
	CharsetISO8859_9   Charset = "ISO-8859-9"
)

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader sniffs the start of r and returns a reader yielding UTF-8 along with the detected
// source charset. BOMs win, then valid UTF-8, then chardet's best guess, then Windows-1252.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	cs := Detect(buf)

	if cs == CharsetUTF8BOM {
		_, _ = br.Discard(len(bomUTF8))
	}

	dec := decoder(cs)
	if dec == nil {
		return br, cs, nil
	}

	return transform.NewReader(br, dec.NewDecoder()), cs, nil
}

// Detect classifies a sample of text.
func Detect(sample []byte) Charset {
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		return CharsetUTF8BOM
	case bytes.HasPrefix(sample, bomUTF16LE):
		return CharsetUTF16LE
	case bytes.HasPrefix(sample, bomUTF16BE):
		return CharsetUTF16BE
	case utf8.Valid(sample):
		return CharsetUTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return CharsetUTF8
		case "ISO-8859-9":
			return CharsetISO8859_9
		}
	}

	// ISO-8859-1 guesses land here too: Windows-1252 is its superset for printable text.
	return CharsetWindows1252
}

func decoder(cs Charset) encoding.Encoding {
	switch cs {
	case CharsetUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case CharsetUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case CharsetWindows1252:
		return charmap.Windows1252
	case CharsetISO8859_9:
		return charmap.ISO8859_9
	}

	return nil
}
