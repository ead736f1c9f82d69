package buffer

import (
	"sort"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/language"
)

// Word is a classified span of the buffer.
type Word struct {
	Type   language.TokenType
	Index  int
	Length int
}

// End returns the index of the word's last character.
func (w Word) End() int {
	return w.Index + w.Length - 1
}

// Contains returns true if index falls inside the word.
func (w Word) Contains(index int) bool {
	return index >= w.Index && index < w.Index+w.Length
}

// IsIgnored returns true for whitespace and other skipped spans.
func (w Word) IsIgnored() bool {
	return w.Type == language.TokenIgnored
}

// Words returns the current word list in index order.
func (b *FileBuffer) Words() []Word {
	return b.words
}

// Diagnostics returns the tokenizer diagnostics from the last Retokenize.
func (b *FileBuffer) Diagnostics() []language.Diagnostic {
	return b.diagnostics
}

// WordAt returns the position in Words of the word containing index.
func (b *FileBuffer) WordAt(index int) (int, bool) {
	i := sort.Search(len(b.words), func(i int) bool {
		return b.words[i].Index+b.words[i].Length > index
	})
	if i < len(b.words) && b.words[i].Contains(index) {
		return i, true
	}
	return i, false
}

// Retokenize rebuilds the word list for the current text.
// On tokenizer failure the previous words are kept and the error returned.
// A nil tokenizer leaves the words untouched.
func (b *FileBuffer) Retokenize(t Tokenizer) error {
	if t == nil {
		return nil
	}
	words, diags, err := tokenize(t, b.language, b.text)
	if err != nil {
		return err
	}
	b.words = words
	b.diagnostics = diags
	return nil
}

// commit swaps in text and index, retokenizing first when text changed.
// Nothing is swapped if the tokenizer fails.
func (b *FileBuffer) commit(t Tokenizer, text []rune, index int, changed bool) error {
	if changed && t != nil {
		words, diags, err := tokenize(t, b.language, text)
		if err != nil {
			return err
		}
		b.words = words
		b.diagnostics = diags
	}
	b.text = text
	b.index = index
	return nil
}

func tokenize(t Tokenizer, lang string, text []rune) ([]Word, []language.Diagnostic, error) {
	tokens, diags, err := t.Tokenize(lang, string(text))
	if err != nil {
		return nil, nil, err
	}
	words := make([]Word, 0, len(tokens))
	index := 0
	for _, tok := range tokens {
		n := min(utf8.RuneCountInString(tok.Text), len(text)-index)
		if n <= 0 {
			break
		}
		words = append(words, Word{Type: tok.Type, Index: index, Length: n})
		index += n
	}
	return words, diags, nil
}

// SetLanguage switches the buffer to name and retokenizes.
// An unsupported language leaves the buffer unchanged.
func (b *FileBuffer) SetLanguage(t Tokenizer, name string) error {
	if t != nil {
		if err := t.Supports(name); err != nil {
			return err
		}
	}
	previous := b.language
	b.language = name
	if err := b.Retokenize(t); err != nil {
		b.language = previous
		return err
	}
	return nil
}
