// File: token.go
// Title: Input Line Tokenizer
// Description: Splits an input line into tokens on whitespace. A
//              double-quoted run forms a single token with the quotes
//              stripped, so role paths containing spaces pass as one
//              argument.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-08
// Modified: 2025-11-08
//
// Change History:
// - 2025-11-08 v0.1.0: Initial tokenizer

package shell

import (
	"strings"
	"unicode"

	mdcerror "github.com/msto63/mDC/foundation/core/error"
)

// Tokenize splits line into tokens. An unterminated double quote is a
// parameter error.
func Tokenize(line string) ([]string, error) {
	var tokens []string
	var current strings.Builder

	inQuote := false
	haveToken := false

	flush := func() {
		if haveToken {
			tokens = append(tokens, current.String())
			current.Reset()
			haveToken = false
		}
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			// An opening quote starts a token even when it is empty
			haveToken = true
		case inQuote:
			current.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
			haveToken = true
		}
	}

	if inQuote {
		return nil, mdcerror.New("unterminated quote in input").
			WithCode(mdcerror.CodeParameterError).
			WithOperation("shell.Tokenize").
			WithDetail("line", line)
	}

	flush()
	return tokens, nil
}
