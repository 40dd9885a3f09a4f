package stylesheet

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// token is a lexeme addressed by byte range into the parsed text.
type token struct {
	kind  css.TokenType
	start int
	end   int
	// inline marks // comments, which the css lexer does not know about
	inline bool
}

// tokenError is a lexical failure at a byte offset.
type tokenError struct {
	reason string
	offset int
}

// tokenize splits text into lossless tokens. Concatenating the ranges of the
// result yields text again.
func tokenize(text string, dialect Dialect) ([]token, *tokenError) {
	var tokens []token
	offset := 0
	lexer := css.NewLexer(parse.NewInputString(text))

	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken || len(data) == 0 {
			if offset < len(text) {
				return tokens, &tokenError{reason: ReasonUnknownWord, offset: offset}
			}
			return tokens, nil
		}

		t := token{kind: tt, start: offset, end: offset + len(data)}
		offset = t.end

		// Line comments run to the end of the line. The lexer restarts behind
		// them so quotes inside the comment do not open a string.
		if dialect.lineComments() && tt == css.DelimToken && data[0] == '/' &&
			offset < len(text) && text[offset] == '/' {
			end := strings.IndexAny(text[offset:], "\r\n\f")
			if end < 0 {
				end = len(text)
			} else {
				end += offset
			}
			tokens = append(tokens, token{kind: css.CommentToken, start: t.start, end: end, inline: true})
			offset = end
			lexer = css.NewLexer(parse.NewInputString(text[offset:]))
			continue
		}

		if reason := checkToken(tt, text[t.start:t.end]); reason != "" {
			return tokens, &tokenError{reason: reason, offset: t.start}
		}
		tokens = append(tokens, t)
	}
}

// checkToken reports tokens the lexer accepted at end of input although they
// were never closed.
func checkToken(tt css.TokenType, s string) string {
	switch tt {
	case css.BadStringToken:
		return ReasonUnclosedString
	case css.StringToken:
		if !closedString(s) {
			return ReasonUnclosedString
		}
	case css.CommentToken:
		if len(s) < 4 || !strings.HasSuffix(s, "*/") {
			return ReasonUnclosedComment
		}
	case css.URLToken, css.BadURLToken:
		if !strings.HasSuffix(s, ")") {
			return ReasonUnclosedURL
		}
	}
	return ""
}

func closedString(s string) bool {
	if len(s) < 2 || s[len(s)-1] != s[0] {
		return false
	}
	escapes := 0
	for i := len(s) - 2; i > 0 && s[i] == '\\'; i-- {
		escapes++
	}
	return escapes%2 == 0
}
