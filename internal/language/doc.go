// Package language turns buffer text into classified tokens.
//
// A Manager holds language definitions (name, chroma lexer, file extensions),
// loaded from built-in defaults or a YAML file:
//
//	languages:
//	  - name: go
//	    lexer: go
//	    extensions: [".go"]
//
// Tokenize runs the chroma lexer for a language and maps chroma token types
// onto the editor's TokenType set. Spans chroma leaves as plain text are split
// into words with Unicode word segmentation so word motion works in files
// without a grammar.
package language
