// Package shell splits command lines into argument vectors.
//
// Lines are processed in these steps:
//
// 1. The line is broken into fields on the delimiter set (space, tab, carriage
// return, newline, '<', '>' and '|'). Quotes and backslashes have no special
// meaning and the redirection characters never redirect anything.
//
// 2. If the first field names an alias, the alias expansion followed by the
// remaining fields becomes the new line and step 1 is repeated.
//
// 3. The resulting fields are the command name followed by its arguments.
package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
)

// Delimiters is the set of characters that separate fields.
const Delimiters = " \t\r\n<>|"

const (
	// DefaultMaxTokens is the maximum number of fields in a command.
	DefaultMaxTokens = 50
	// DefaultMaxAliasDepth is the maximum number of nested alias expansions.
	DefaultMaxAliasDepth = 32
)

var (
	ErrTooManyTokens         = errors.New("too many parameters")
	ErrAliasExpansionTooDeep = errors.New("alias expansion too deep")
)

// AliasLookup resolves alias names to their expansions.
type AliasLookup interface {
	Lookup(name string) (string, bool)
}

// delimiterTokenizer makes shlex split on Delimiters only.
type delimiterTokenizer struct{}

var _ shlex.Tokenizer = (*delimiterTokenizer)(nil)

func (delimiterTokenizer) IsWord(r rune) bool {
	return !strings.ContainsRune(Delimiters, r)
}

func (delimiterTokenizer) IsWhitespace(r rune) bool {
	return strings.ContainsRune(Delimiters, r)
}

func (delimiterTokenizer) IsQuote(rune) bool        { return false }
func (delimiterTokenizer) IsEscape(rune) bool       { return false }
func (delimiterTokenizer) IsEscapedQuote(rune) bool { return false }

// Fields splits line on Delimiters without consulting aliases.
func Fields(line string) []string {
	lexer := shlex.NewLexerString(line, true, true)
	lexer.SetTokenizer(delimiterTokenizer{})

	// The delimiter tokenizer has no quotes or escapes so the only error the
	// lexer can produce is EOF, which Split consumes.
	fields, _ := lexer.Split()
	return fields
}

// Parser turns raw lines into commands.
type Parser struct {
	Aliases AliasLookup

	// MaxTokens limits the number of fields in the final command.
	MaxTokens int
	// MaxAliasDepth limits how many times aliases are substituted.
	MaxAliasDepth int
}

// NewParser creates a parser using the default limits.
func NewParser(aliases AliasLookup) *Parser {
	return &Parser{
		Aliases:       aliases,
		MaxTokens:     DefaultMaxTokens,
		MaxAliasDepth: DefaultMaxAliasDepth,
	}
}

// Tokenize splits line into a command, expanding a leading alias
// recursively. A line without fields results in an empty command and no
// error.
func (p *Parser) Tokenize(line string) ([]string, error) {
	for depth := 0; ; depth++ {
		fields := Fields(line)
		if len(fields) == 0 {
			return nil, nil
		}

		expansion, ok := p.lookup(fields[0])
		if !ok {
			if p.MaxTokens > 0 && len(fields) > p.MaxTokens {
				return nil, ErrTooManyTokens
			}
			return fields, nil
		}

		if depth >= p.MaxAliasDepth {
			return nil, fmt.Errorf("%w: %q", ErrAliasExpansionTooDeep, fields[0])
		}

		line = expansion
		for _, field := range fields[1:] {
			line += " " + field
		}
	}
}

func (p *Parser) lookup(name string) (string, bool) {
	if p.Aliases == nil {
		return "", false
	}
	return p.Aliases.Lookup(name)
}
