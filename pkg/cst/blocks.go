package cst

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"
)

// document parses every block of the window.
func (p *parser) document() ([]*Node, error) {
	var nodes []*Node

	i := 0
	for {
		i = p.skipBlank(i)
		if i >= len(p.lines) {
			break
		}

		// Only the first block of a whole source can be its header.
		header := len(nodes) == 0 && p.lines[0].start == 0
		node, next, err := p.block(i, header)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		i = next
	}

	return nodes, nil
}

func (p *parser) skipBlank(i int) int {
	for i < len(p.lines) && p.blank(i) {
		i++
	}
	return i
}

// rightTrimmed returns line i without trailing white space.
func (p *parser) rightTrimmed(i int) string {
	l := p.lines[i]
	return string(util.TrimRightSpace(p.buf[l.start:l.end]))
}

// block parses one block starting at line i, including the metadata lines
// (anchor, attribute list, block title) directly above it.
func (p *parser) block(i int, header bool) (*Node, int, error) {
	var meta []*Node

	j := i
	for j < len(p.lines) {
		m := p.metadata(j)
		if m == nil {
			break
		}
		meta = append(meta, m)
		j++
	}

	// Metadata that does not precede a block is ordinary text.
	if len(meta) > 0 && (j >= len(p.lines) || p.blank(j)) {
		node, next := p.paragraph(i)
		return node, next, nil
	}

	start := p.lines[i].start
	s := p.rightTrimmed(j)

	if rule, ok := delimiterRule(s); ok {
		return p.delimitedBlock(i, j, rule, meta)
	}

	if title, next, ok := p.title(j); ok {
		switch {
		case len(meta) == 0 && header && isDocumentTitle(title):
			return p.node(Header, title.Start, title.End, title), next, nil
		case len(meta) == 0:
			return title, next, nil
		case allAnchors(meta):
			return p.node(TitleBlock, start, title.End, append(meta, title)...), next, nil
		default:
			return p.node(Block, start, title.End, append(meta, title)...), next, nil
		}
	}

	var (
		content *Node
		next    int
		err     error
	)
	switch {
	case p.isImage(j):
		content, next = p.imageBlock(j), j+1
	case isListItem(s):
		content, next, err = p.list(j, nil)
	default:
		content, next = p.paragraph(j)
	}
	if err != nil {
		return nil, 0, err
	}

	if len(meta) == 0 {
		return content, next, nil
	}
	return p.node(Block, start, content.End, append(meta, content)...), next, nil
}

// metadata parses line i as a block metadata line, or returns nil.
func (p *parser) metadata(i int) *Node {
	l := p.lines[i]
	s := p.rightTrimmed(i)
	end := l.start + len(s)

	switch {
	case len(s) >= 4 && strings.HasPrefix(s, "[[") && strings.HasSuffix(s, "]]"):
		anchor := p.inlineAnchor(l.start, end)
		if anchor == nil {
			return nil
		}
		return p.node(Anchor, l.start, end, anchor)
	case len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']':
		return p.node(AttributeList, l.start, end, p.attributeList(l.start+1, end-1))
	case len(s) >= 2 && s[0] == '.' && s[1] != '.' && !util.IsSpace(s[1]):
		return p.node(BlockTitle, l.start, end, p.node(Line, l.start+1, end))
	default:
		return nil
	}
}

func allAnchors(nodes []*Node) bool {
	for _, n := range nodes {
		if n.Rule != Anchor {
			return false
		}
	}
	return true
}

func isDocumentTitle(title *Node) bool {
	style := title.Child(AtxTitleStyle)
	return style != nil && style.End-style.Start == 1
}

// delimiterRule classifies a delimiter line.
func delimiterRule(s string) (Rule, bool) {
	if len(s) < 4 {
		return 0, false
	}
	switch {
	case s[0] == '|' && isRunOf(s[1:], '='):
		return DelimitedTable, true
	case isRunOf(s, '/'):
		return DelimitedComment, true
	case isRunOf(s, '-'):
		return DelimitedSource, true
	case isRunOf(s, '.'):
		return DelimitedLiteral, true
	case isRunOf(s, '='):
		return DelimitedExample, true
	default:
		return 0, false
	}
}

// delimitedBlock parses a fenced block opened at line j. Lines i..j-1 are
// its metadata. The closing line must repeat the opening line exactly.
func (p *parser) delimitedBlock(i, j int, rule Rule, meta []*Node) (*Node, int, error) {
	open := p.lines[j]
	delimiter := p.rightTrimmed(j)

	k := j + 1
	for k < len(p.lines) && p.rightTrimmed(k) != delimiter {
		k++
	}
	if k >= len(p.lines) {
		return nil, 0, p.fail(open.start, "unterminated %s block, expected closing %q", rule, delimiter)
	}
	closing := p.lines[k]

	// The inner text excludes the line break before the closing delimiter.
	innerStart, innerEnd := closing.start, closing.start
	if k > j+1 {
		innerStart, innerEnd = open.next, p.lines[k-1].end
	}

	typed := p.node(rule, open.start, closing.end, p.node(DelimitedInner, innerStart, innerEnd))
	block := p.node(DelimitedBlock, p.lines[i].start, closing.end, append(meta, typed)...)

	return block, k + 1, nil
}

// title parses an ATX title at line j or a setext title on lines j, j+1.
func (p *parser) title(j int) (*Node, int, bool) {
	l := p.lines[j]
	s := p.rightTrimmed(j)

	for _, marker := range []byte{'=', '#'} {
		n := runOf(s, marker)
		if n < 1 || n > 6 || !hasSpaceAfter(s, n) {
			continue
		}
		textStart, textEnd := p.trimmed(l.start+n, l.start+len(s))
		return p.node(Title, l.start, textEnd,
			p.node(AtxTitleStyle, l.start, l.start+n),
			p.node(Line, textStart, textEnd),
		), j + 1, true
	}

	if j+1 >= len(p.lines) || s == "" || isListItem(s) || p.isImage(j) {
		return nil, 0, false
	}
	underline := p.rightTrimmed(j + 1)
	if !isUnderline(underline, s) {
		return nil, 0, false
	}

	u := p.lines[j+1]
	textStart, textEnd := p.trimmed(l.start, l.start+len(s))
	return p.node(Title, l.start, u.start+len(underline),
		p.node(Line, textStart, textEnd),
		p.node(SetextTitleStyle, u.start, u.start+len(underline)),
	), j + 2, true
}

// isUnderline reports whether u underlines title: a run of one punctuation
// character whose length is within one of the title's.
func isUnderline(u, title string) bool {
	if len(u) < 2 || !util.IsPunct(u[0]) || !isRunOf(u, u[0]) {
		return false
	}
	diff := len(u) - utf8.RuneCountInString(title)
	return diff >= -1 && diff <= 1
}

// paragraph consumes lines from i up to a blank line or a delimiter line.
func (p *parser) paragraph(i int) (*Node, int) {
	j := i + 1
	for j < len(p.lines) && !p.blank(j) {
		if _, ok := delimiterRule(p.rightTrimmed(j)); ok {
			break
		}
		j++
	}

	start, end := p.lines[i].start, p.lines[j-1].end
	return p.node(Paragraph, start, end, p.inlines(start, end, OtherInline)...), j
}

func (p *parser) isImage(j int) bool {
	s := p.rightTrimmed(j)
	open := strings.IndexByte(s, '[')
	return strings.HasPrefix(s, "image::") && open > len("image::") && strings.HasSuffix(s, "]")
}

// imageBlock parses an image::target[attributes] line.
func (p *parser) imageBlock(j int) *Node {
	l := p.lines[j]
	s := p.rightTrimmed(j)
	end := l.start + len(s)

	targetStart := l.start + len("image::")
	targetEnd := l.start + strings.IndexByte(s, '[')

	var target *Node
	if scheme := schemeLength(p.src[targetStart:targetEnd]); scheme > 0 {
		target = p.node(URL, targetStart, targetEnd, p.node(Protocol, targetStart, targetStart+scheme))
	} else {
		target = p.node(Path, targetStart, targetEnd)
	}

	image := p.node(ImageBlock, l.start, end, target)
	if as, ae := p.trimmed(targetEnd+1, end-1); as < ae {
		image.add(p.attributeList(targetEnd+1, end-1))
	}
	return image
}
