package vfs

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Encoding is the character encoding a file was read with.
type Encoding string

const (
	// EncodingUTF8 is UTF-8 encoding (default).
	EncodingUTF8 Encoding = "utf-8"

	// EncodingUTF8BOM is UTF-8 encoding with BOM.
	EncodingUTF8BOM Encoding = "utf-8-bom"

	// EncodingLatin1 is ISO-8859-1, used for content that is not valid UTF-8.
	EncodingLatin1 Encoding = "iso-8859-1"
)

// LineEnding is the line ending style.
type LineEnding string

const (
	// LineEndingLF is Unix-style line ending (\n).
	LineEndingLF LineEnding = "lf"

	// LineEndingCRLF is Windows-style line ending (\r\n).
	LineEndingCRLF LineEnding = "crlf"

	// LineEndingCR is old Mac-style line ending (\r).
	LineEndingCR LineEnding = "cr"
)

// Format errors.
var (
	ErrBinary              = errors.New("binary content")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	ErrUnencodable         = errors.New("character cannot be encoded")
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Format records how a file was stored so it can be written back the
// same way after editing with '\n' line endings.
type Format struct {
	Encoding     Encoding
	LineEnding   LineEnding
	FinalNewline bool
}

// DefaultFormat is used for files that do not exist yet.
var DefaultFormat = Format{
	Encoding:     EncodingUTF8,
	LineEnding:   LineEndingLF,
	FinalNewline: true,
}

// Decode converts file content into text with '\n' line endings and
// reports the format it was stored in.
func Decode(content []byte) (string, Format, error) {
	if bytes.HasPrefix(content, bomUTF16LE) || bytes.HasPrefix(content, bomUTF16BE) {
		return "", Format{}, fmt.Errorf("%w: utf-16", ErrUnsupportedEncoding)
	}

	f := Format{Encoding: EncodingUTF8}
	if bytes.HasPrefix(content, bomUTF8) {
		content = content[len(bomUTF8):]
		f.Encoding = EncodingUTF8BOM
	}
	if IsBinary(content) {
		return "", Format{}, ErrBinary
	}

	f.LineEnding = DetectLineEnding(content)
	f.FinalNewline = len(content) > 0 &&
		(content[len(content)-1] == '\n' || content[len(content)-1] == '\r')

	var text string
	if f.Encoding == EncodingUTF8 && !utf8.Valid(content) {
		f.Encoding = EncodingLatin1
		runes := make([]rune, len(content))
		for i, b := range content {
			runes[i] = rune(b)
		}
		text = string(runes)
	} else {
		text = string(content)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, f, nil
}

// Encode converts text with '\n' line endings back into f. A single
// trailing newline is dropped when the file had none.
func Encode(text string, f Format) ([]byte, error) {
	if !f.FinalNewline {
		text = strings.TrimSuffix(text, "\n")
	}
	switch f.LineEnding {
	case LineEndingCRLF:
		text = strings.ReplaceAll(text, "\n", "\r\n")
	case LineEndingCR:
		text = strings.ReplaceAll(text, "\n", "\r")
	}

	switch f.Encoding {
	case EncodingUTF8BOM:
		return append(append([]byte{}, bomUTF8...), text...), nil
	case EncodingLatin1:
		out := make([]byte, 0, len(text))
		for i, r := range text {
			if r > 0xFF {
				return nil, fmt.Errorf("%w: %q at byte %d in %s", ErrUnencodable, r, i, f.Encoding)
			}
			out = append(out, byte(r))
		}
		return out, nil
	default:
		return []byte(text), nil
	}
}

// DetectLineEnding returns the most frequent line ending in content,
// preferring LF on ties and when there are no line breaks.
func DetectLineEnding(content []byte) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}

	switch {
	case crlf > lf && crlf >= cr:
		return LineEndingCRLF
	case cr > lf && cr > crlf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// IsBinary attempts to detect if content is binary (not text).
// Uses heuristics: presence of null bytes, high ratio of non-printable characters.
func IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	sample := content[:min(len(content), 8192)]

	// Null bytes are a strong indicator of binary
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	nonText := 0
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			nonText++
		}
	}
	return float64(nonText)/float64(len(sample)) > 0.1
}
