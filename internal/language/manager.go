package language

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/patrickmn/go-cache"
	"github.com/rivo/uniseg"
	"gopkg.in/yaml.v3"
)

// PlainText is the language used when nothing else matches.
const PlainText = "text"

// Default lexer cache timings.
const (
	DefaultLexerExpiration = 30 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// Definition describes one language.
type Definition struct {
	Name       string   `yaml:"name"`
	Lexer      string   `yaml:"lexer"`
	Extensions []string `yaml:"extensions"`
}

// definitionFile is the YAML layout of a definitions file.
type definitionFile struct {
	Languages []Definition `yaml:"languages"`
}

// DefaultDefinitions returns the built-in language set.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: PlainText, Lexer: "plaintext", Extensions: []string{".txt"}},
		{Name: "go", Lexer: "go", Extensions: []string{".go"}},
		{Name: "rust", Lexer: "rust", Extensions: []string{".rs"}},
		{Name: "python", Lexer: "python", Extensions: []string{".py"}},
		{Name: "c", Lexer: "c", Extensions: []string{".c", ".h"}},
		{Name: "javascript", Lexer: "javascript", Extensions: []string{".js", ".mjs"}},
		{Name: "json", Lexer: "json", Extensions: []string{".json"}},
		{Name: "yaml", Lexer: "yaml", Extensions: []string{".yaml", ".yml"}},
		{Name: "toml", Lexer: "toml", Extensions: []string{".toml"}},
		{Name: "lua", Lexer: "lua", Extensions: []string{".lua"}},
	}
}

// Manager resolves language definitions and tokenizes text.
// It is safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	defs   map[string]Definition
	byExt  map[string]string
	lexers *cache.Cache
}

// Option configures a Manager.
type Option func(*Manager)

// WithDefinitions replaces the built-in definitions.
func WithDefinitions(defs []Definition) Option {
	return func(m *Manager) {
		m.defs = make(map[string]Definition)
		m.byExt = make(map[string]string)
		for _, def := range defs {
			_ = m.register(def)
		}
	}
}

// WithLexerExpiration sets how long a resolved lexer stays cached.
func WithLexerExpiration(d time.Duration) Option {
	return func(m *Manager) {
		m.lexers = cache.New(d, DefaultCleanupInterval)
	}
}

// NewManager creates a manager with the built-in definitions.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		defs:   make(map[string]Definition),
		byExt:  make(map[string]string),
		lexers: cache.New(DefaultLexerExpiration, DefaultCleanupInterval),
	}
	for _, def := range DefaultDefinitions() {
		_ = m.register(def)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds or replaces a definition.
func (m *Manager) Register(def Definition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.register(def)
}

func (m *Manager) register(def Definition) error {
	if def.Name == "" {
		return &DefinitionError{Language: def.Name, Message: "missing name", Err: ErrMalformedDefinition}
	}
	if def.Lexer == "" {
		return &DefinitionError{Language: def.Name, Message: "missing lexer", Err: ErrMalformedDefinition}
	}
	m.defs[def.Name] = def
	for _, ext := range def.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		m.byExt[strings.ToLower(ext)] = def.Name
	}
	if m.lexers != nil {
		m.lexers.Delete(def.Name)
	}
	return nil
}

// LoadDefinitions reads YAML definitions and registers them.
// Every entry is validated before any is registered.
func (m *Manager) LoadDefinitions(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading language definitions: %w", err)
	}

	var file definitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return &DefinitionError{Language: "", Message: "parsing definitions", Err: fmt.Errorf("%w: %v", ErrMalformedDefinition, err)}
	}

	for _, def := range file.Languages {
		if def.Name == "" || def.Lexer == "" {
			return &DefinitionError{Language: def.Name, Message: "missing name or lexer", Err: ErrMalformedDefinition}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, def := range file.Languages {
		if err := m.register(def); err != nil {
			return err
		}
	}
	return nil
}

// Definition returns the definition for name.
func (m *Manager) Definition(name string) (Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	def, ok := m.defs[name]
	if !ok {
		return Definition{}, &DefinitionError{Language: name, Err: ErrLanguageNotFound}
	}
	return def, nil
}

// Languages returns the sorted names of all known languages.
func (m *Manager) Languages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.defs))
	for name := range m.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect returns the language for a file path, PlainText if none matches.
func (m *Manager) Detect(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	m.mu.RLock()
	defer m.mu.RUnlock()
	if name, ok := m.byExt[ext]; ok {
		return name
	}
	return PlainText
}

// Supports returns nil if name can be tokenized.
func (m *Manager) Supports(name string) error {
	_, err := m.lexer(name)
	return err
}

// lexer resolves and caches the chroma lexer of a language.
func (m *Manager) lexer(name string) (chroma.Lexer, error) {
	if cached, ok := m.lexers.Get(name); ok {
		return cached.(chroma.Lexer), nil
	}

	def, err := m.Definition(name)
	if err != nil {
		return nil, err
	}

	lexer := lexers.Get(def.Lexer)
	if lexer == nil {
		return nil, &DefinitionError{
			Language: name,
			Message:  fmt.Sprintf("unknown lexer %q", def.Lexer),
			Err:      ErrMalformedDefinition,
		}
	}
	lexer = chroma.Coalesce(lexer)
	m.lexers.SetDefault(name, lexer)
	return lexer, nil
}

// Tokenize splits text into contiguous tokens.
// Invalid fragments are reported as diagnostics, not errors.
func (m *Manager) Tokenize(name, text string) ([]Token, []Diagnostic, error) {
	lexer, err := m.lexer(name)
	if err != nil {
		return nil, nil, err
	}

	iter, err := lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, text)
	if err != nil {
		return nil, nil, fmt.Errorf("tokenizing %s: %w", name, err)
	}

	var (
		tokens      []Token
		diagnostics []Diagnostic
		index       int
	)
	for _, tok := range iter.Tokens() {
		if tok.Value == "" {
			continue
		}
		length := utf8.RuneCountInString(tok.Value)
		typ := classify(tok.Type)
		switch {
		case typ == TokenInvalid:
			diagnostics = append(diagnostics, Diagnostic{
				Index:   index,
				Length:  length,
				Message: fmt.Sprintf("unexpected %q", tok.Value),
			})
			tokens = append(tokens, Token{Type: typ, Text: tok.Value})
		case tok.Type.InCategory(chroma.Text) || tok.Type == chroma.None:
			tokens = append(tokens, splitWords(tok.Value)...)
		default:
			tokens = append(tokens, Token{Type: typ, Text: tok.Value})
		}
		index += length
	}
	return tokens, diagnostics, nil
}

// classify maps a chroma token type onto a TokenType.
func classify(t chroma.TokenType) TokenType {
	switch {
	case t == chroma.Error:
		return TokenInvalid
	case t.InCategory(chroma.Comment):
		return TokenComment
	case t == chroma.KeywordType || t == chroma.NameClass:
		return TokenTypeIdentifier
	case t.InCategory(chroma.Keyword):
		return TokenKeyword
	case t.InCategory(chroma.Operator), t.InCategory(chroma.Punctuation):
		return TokenOperator
	case t == chroma.LiteralStringChar:
		return TokenCharacter
	case t.InSubCategory(chroma.LiteralString):
		return TokenString
	case t == chroma.LiteralNumberFloat:
		return TokenFloat
	case t.InSubCategory(chroma.LiteralNumber):
		return TokenInteger
	case t.InCategory(chroma.Name):
		return TokenIdentifier
	case t.InCategory(chroma.Literal):
		return TokenString
	default:
		return TokenIgnored
	}
}

// splitWords segments an unclassified span into words.
func splitWords(s string) []Token {
	var tokens []Token
	state := -1
	for len(s) > 0 {
		var word string
		word, s, state = uniseg.FirstWordInString(s, state)
		r, _ := utf8.DecodeRuneInString(word)
		typ := TokenOperator
		switch {
		case unicode.IsSpace(r):
			typ = TokenIgnored
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			typ = TokenIdentifier
		}
		if n := len(tokens); n > 0 && tokens[n-1].Type == typ && typ == TokenIgnored {
			tokens[n-1].Text += word
			continue
		}
		tokens = append(tokens, Token{Type: typ, Text: word})
	}
	return tokens
}
