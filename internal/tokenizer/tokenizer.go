package tokenizer

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewTokenizer creates a tokenizer for URI strings.
// Matchers are tried in order:
// 1. "://" (before the single colon)
// 2. single-character delimiters @ : / ? #
// 3. Generic text (everything else up to the next delimiter)
//
// Whitespace is significant (a path containing spaces is rejected later),
// so the default whitespace skipper is not used.
func NewTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		tokenizer.StringMatcherFunc(TokenSchemeSep, "://"),
		tokenizer.StringMatcherFunc(TokenAt, "@"),
		tokenizer.StringMatcherFunc(TokenColon, ":"),
		tokenizer.StringMatcherFunc(TokenSlash, "/"),
		tokenizer.StringMatcherFunc(TokenQuestion, "?"),
		tokenizer.StringMatcherFunc(TokenHash, "#"),
		TextMatcher(),
	)
}

// NewTokenizerWithStream creates a URI tokenizer using a pre-configured stream.
func NewTokenizerWithStream(stream tokenizer.Stream) tokenizer.Tokenizer {
	tok := NewTokenizer()
	tok.InitializeFromStream(stream)
	return tok
}

// TextMatcher matches any sequence of characters until a URI delimiter or EOS.
func TextMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune

		for {
			r, ok := stream.PeekChar()
			if !ok || isDelimiter(r) {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}

		if len(value) == 0 {
			return nil
		}

		return tokenizer.NewToken(TokenText, value)
	}
}

func isDelimiter(r rune) bool {
	switch r {
	case ':', '/', '?', '#', '@':
		return true
	}
	return false
}
