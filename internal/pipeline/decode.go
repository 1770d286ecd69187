package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"playstats/internal/core"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding is a text encoding a report may be stored in.
type Encoding int

const (
	UTF16 Encoding = iota
	UTF8
	Latin1
)

// DefaultEncodings is the order in which report bytes are tried. Play Console
// exports are UTF-16 with a byte order mark; the others cover re-saved copies.
var DefaultEncodings = []Encoding{UTF16, UTF8, Latin1}

func (e Encoding) String() string {
	switch e {
	case UTF16:
		return "utf-16"
	case UTF8:
		return "utf-8"
	case Latin1:
		return "latin-1"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

var (
	errNotUTF16     = errors.New("not utf-16 text")
	errInvalidText  = errors.New("invalid encoded text")
	errNoColumns    = errors.New("no columns to parse")
	errExtraFields  = errors.New("row has more fields than header")
	errUnknownCodec = errors.New("unknown encoding")
)

// Decoded is the outcome of decoding one report. OK is false when no
// configured encoding produced a table.
type Decoded struct {
	Table    core.Table
	Encoding Encoding
	OK       bool
}

// Decode tries each encoding in order and returns the first one whose text
// parses as CSV.
func Decode(content []byte, encodings []Encoding) Decoded {
	for _, enc := range encodings {
		text, err := decodeText(content, enc)
		if err != nil {
			continue
		}
		t, err := parseCSV(text)
		if err != nil {
			continue
		}
		return Decoded{Table: t, Encoding: enc, OK: true}
	}
	return Decoded{}
}

func decodeText(content []byte, enc Encoding) ([]byte, error) {
	var dec *encoding.Decoder
	switch enc {
	case UTF16:
		if len(content)%2 != 0 {
			return nil, errInvalidText
		}
		if !hasUTF16BOM(content) && !looksUTF16LE(content) {
			return nil, errNotUTF16
		}
		// without a BOM the decoder reads little endian
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case UTF8:
		if !utf8.Valid(content) {
			return nil, errInvalidText
		}
		dec = unicode.UTF8BOM.NewDecoder()
	case Latin1:
		dec = charmap.ISO8859_1.NewDecoder()
	default:
		return nil, errUnknownCodec
	}

	out, _, err := transform.Bytes(dec, content)
	if err != nil {
		return nil, err
	}
	// the UTF-16 decoder substitutes U+FFFD for unpaired surrogates instead of failing
	if enc == UTF16 && bytes.ContainsRune(out, utf8.RuneError) {
		return nil, errInvalidText
	}
	return out, nil
}

func hasUTF16BOM(content []byte) bool {
	return bytes.HasPrefix(content, []byte{0xFF, 0xFE}) || bytes.HasPrefix(content, []byte{0xFE, 0xFF})
}

// utf16SniffUnits bounds how many code units looksUTF16LE inspects.
const utf16SniffUnits = 256

// looksUTF16LE reports whether BOM-less content reads as little endian UTF-16
// of mostly ASCII text: across the first line every code unit has a zero high
// byte and a non-zero low byte. Plain UTF-8 text never has that NUL pattern.
func looksUTF16LE(content []byte) bool {
	if len(content) < 2 {
		return false
	}
	for i := 0; i+1 < len(content) && i < 2*utf16SniffUnits; i += 2 {
		lo, hi := content[i], content[i+1]
		if hi != 0 || lo == 0 {
			return false
		}
		if lo == '\n' {
			break
		}
	}
	return true
}

func parseCSV(text []byte) (core.Table, error) {
	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return core.Table{}, errNoColumns
	}
	if err != nil {
		return core.Table{}, err
	}
	cols := headerNames(header)

	t := core.Table{Columns: cols}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return core.Table{}, err
		}
		if len(rec) > len(cols) {
			return core.Table{}, fmt.Errorf("%w: line %d", errExtraFields, len(t.Rows)+2)
		}
		row := make(core.Row, len(rec))
		for i, v := range rec {
			row[cols[i]] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// headerNames names blank header cells by position and suffixes repeated names
// (".1", ".2", ...) so every column key is unique.
func headerNames(header []string) []string {
	cols := make([]string, len(header))
	used := map[string]bool{}
	for i, h := range header {
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		used[name] = true
		cols[i] = name
	}
	return cols
}
