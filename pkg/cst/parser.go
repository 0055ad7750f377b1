package cst

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports input the grammar rejects.
type SyntaxError struct {
	// Rule is the start rule the grammar was invoked with.
	Rule Rule

	// Offset is the absolute byte offset of the failure.
	Offset int

	// Line and Column are 1-based. Column counts characters.
	Line   int
	Column int

	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s (rule %s)", e.Line, e.Column, e.Message, e.Rule)
}

// Unwrap returns ErrSyntax.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Parse runs the grammar from rule over the whole source.
func Parse(rule Rule, source string) ([]*Node, error) {
	return ParseRange(rule, source, 0, len(source))
}

// ParseRange runs the grammar from rule over source[start:end]. Offsets in
// the returned nodes are absolute offsets into source. The last returned
// node is always an EOI marker at end.
//
// Supported start rules are Asciidoc and TableInner.
func ParseRange(rule Rule, source string, start, end int) ([]*Node, error) {
	if start < 0 || end > len(source) || start > end {
		return nil, fmt.Errorf("invalid range [%d, %d) for source of length %d", start, end, len(source))
	}

	p := &parser{
		rule: rule,
		src:  source,
		buf:  []byte(source),
	}
	p.lines = p.scanLines(start, end)

	var (
		nodes []*Node
		err   error
	)

	switch rule {
	case Asciidoc:
		nodes, err = p.document()
	case TableInner:
		var inner *Node
		inner, err = p.tableInner(start, end)
		nodes = []*Node{inner}
	default:
		return nil, fmt.Errorf("unsupported start rule %s", rule)
	}
	if err != nil {
		return nil, err
	}

	return append(nodes, NewNode(EOI, source, end, end)), nil
}

// line is one source line. end excludes the line terminator, next is the
// offset just after it.
type line struct {
	start int
	end   int
	next  int
}

type parser struct {
	rule  Rule
	src   string
	buf   []byte
	lines []line
}

// scanLines splits source[start:end] into lines.
func (p *parser) scanLines(start, end int) []line {
	var lines []line

	reader := text.NewReader(p.buf[start:end])
	for {
		content, seg := reader.PeekLine()
		if content == nil {
			break
		}

		n := len(content)
		if n > 0 && content[n-1] == '\n' {
			n--
			if n > 0 && content[n-1] == '\r' {
				n--
			}
		}

		lines = append(lines, line{
			start: start + seg.Start,
			end:   start + seg.Start + n,
			next:  start + seg.Stop,
		})
		reader.AdvanceLine()
	}

	return lines
}

func (p *parser) text(l line) string {
	return p.src[l.start:l.end]
}

func (p *parser) blank(i int) bool {
	l := p.lines[i]
	return util.IsBlank(p.buf[l.start:l.end])
}

// node creates a node bound to the parser's source.
func (p *parser) node(rule Rule, start, end int, children ...*Node) *Node {
	n := NewNode(rule, p.src, start, end)
	n.add(children...)
	return n
}

// trimmed returns [start, end) with surrounding white space removed.
func (p *parser) trimmed(start, end int) (int, int) {
	for start < end && util.IsSpace(p.buf[start]) {
		start++
	}
	for end > start && util.IsSpace(p.buf[end-1]) {
		end--
	}
	return start, end
}

func (p *parser) fail(offset int, format string, args ...any) error {
	prefix := p.src[:min(max(offset, 0), len(p.src))]
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	line := strings.Count(prefix, "\n") + 1
	col := utf8.RuneCountInString(prefix[lineStart:]) + 1

	return &SyntaxError{
		Rule:    p.rule,
		Offset:  offset,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	}
}

// isIdentifier reports whether s is a valid anchor or attribute name.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !util.IsAlphaNumeric(c) && c != '_' && c != '-' && c != '.' && c != ':' {
			return false
		}
	}
	return true
}

// runOf returns the length of the leading run of c in s.
func runOf(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func isRunOf(s string, c byte) bool {
	return s != "" && runOf(s, c) == len(s)
}

func hasSpaceAfter(s string, n int) bool {
	return len(s) > n+1 && (s[n] == ' ' || s[n] == '\t') && strings.TrimSpace(s[n:]) != ""
}
