package cst

import (
	"strings"

	"github.com/yuin/goldmark/util"
)

// inlines splits source[start:end] into styled inline nodes and runs of
// plain text tagged plain.
func (p *parser) inlines(start, end int, plain Rule) []*Node {
	var nodes []*Node

	run := start
	for i := start; i < end; {
		node := p.inlineAt(i, start, end)
		if node == nil {
			i++
			continue
		}
		if i > run {
			nodes = append(nodes, p.node(plain, run, i))
		}
		nodes = append(nodes, p.node(Inline, node.Start, node.End, node))
		i = node.End
		run = i
	}
	if end > run {
		nodes = append(nodes, p.node(plain, run, end))
	}

	return nodes
}

func (p *parser) inlineAt(i, start, end int) *Node {
	c := p.buf[i]
	atBoundary := i == start || util.IsSpace(p.buf[i-1]) || util.IsPunct(p.buf[i-1])

	switch {
	case c == '`':
		return p.monospaced(i, end)
	case c == '*' && atBoundary:
		return p.constrained(i, end, Strong)
	case c == '_' && atBoundary:
		return p.constrained(i, end, Emphasized)
	case c == '<' && strings.HasPrefix(p.src[i:end], "<<"):
		return p.xref(i, end)
	case util.IsAlphaNumeric(c) && (i == start || !util.IsAlphaNumeric(p.buf[i-1])):
		return p.link(i, end)
	default:
		return nil
	}
}

// monospaced parses `text`. Inline anchors inside are kept as nodes, all
// other characters become linechar runs.
func (p *parser) monospaced(i, end int) *Node {
	closing := strings.IndexByte(p.src[i+1:end], '`')
	if closing <= 0 {
		return nil
	}
	contentStart, contentEnd := i+1, i+1+closing

	mono := p.node(Monospaced, i, contentEnd+1)
	run := contentStart
	for k := contentStart; k < contentEnd; {
		if strings.HasPrefix(p.src[k:contentEnd], "[[") {
			if n := strings.Index(p.src[k+2:contentEnd], "]]"); n >= 0 {
				if anchor := p.inlineAnchor(k, k+2+n+2); anchor != nil {
					if k > run {
						mono.add(p.node(LineChar, run, k))
					}
					mono.add(anchor)
					k = anchor.End
					run = k
					continue
				}
			}
		}
		k++
	}
	if contentEnd > run {
		mono.add(p.node(LineChar, run, contentEnd))
	}

	return mono
}

// constrained parses *strong* and _emphasized_ spans. The opening mark must
// be followed by a non-space character and the closing mark must follow one
// and not be followed by a word character.
func (p *parser) constrained(i, end int, rule Rule) *Node {
	mark := p.buf[i]
	if i+1 >= end || util.IsSpace(p.buf[i+1]) || p.buf[i+1] == mark {
		return nil
	}

	for k := i + 2; k < end; k++ {
		if p.buf[k] != mark || util.IsSpace(p.buf[k-1]) {
			continue
		}
		if k+1 < end && util.IsAlphaNumeric(p.buf[k+1]) {
			continue
		}
		return p.node(rule, i, k+1, p.node(LineChar, i+1, k))
	}

	return nil
}

// xref parses <<id>> and <<id,link text>>.
func (p *parser) xref(i, end int) *Node {
	closing := strings.Index(p.src[i+2:end], ">>")
	if closing < 0 {
		return nil
	}
	innerStart, innerEnd := i+2, i+2+closing

	idEnd := innerEnd
	if comma := strings.IndexByte(p.src[innerStart:innerEnd], ','); comma >= 0 {
		idEnd = innerStart + comma
	}
	idStart, idStop := p.trimmed(innerStart, idEnd)
	if !isIdentifier(p.src[idStart:idStop]) {
		return nil
	}

	xref := p.node(Xref, i, innerEnd+2, p.node(Identifier, idStart, idStop))
	for k := idEnd + 1; k < innerEnd; {
		if util.IsSpace(p.buf[k]) {
			k++
			continue
		}
		w := k
		for w < innerEnd && !util.IsSpace(p.buf[w]) {
			w++
		}
		xref.add(p.node(Word, k, w))
		k = w
	}

	return xref
}

// link parses scheme://target[text] and link:target[text].
func (p *parser) link(i, end int) *Node {
	urlStart := i
	macro := strings.HasPrefix(p.src[i:end], "link:")
	if macro {
		urlStart += len("link:")
	}

	urlEnd := urlStart
	for urlEnd < end && !util.IsSpace(p.buf[urlEnd]) && p.buf[urlEnd] != '[' {
		urlEnd++
	}
	if urlEnd == urlStart {
		return nil
	}

	scheme := schemeLength(p.src[urlStart:urlEnd])
	bracket := urlEnd < end && p.buf[urlEnd] == '['
	switch {
	case macro && !bracket:
		return nil
	case !macro && scheme == 0:
		return nil
	case !bracket:
		// Trailing sentence punctuation is not part of a bare URL.
		for urlEnd > urlStart+scheme+3 && strings.IndexByte(".,;:)!?", p.buf[urlEnd-1]) >= 0 {
			urlEnd--
		}
	}

	url := p.node(URL, urlStart, urlEnd)
	if scheme > 0 {
		url.add(p.node(Protocol, urlStart, urlStart+scheme))
	}
	link := p.node(Link, i, urlEnd, url)

	if bracket {
		closing := strings.IndexByte(p.src[urlEnd+1:end], ']')
		if closing < 0 {
			if macro {
				return nil
			}
			return link
		}
		textStart, textEnd := urlEnd+1, urlEnd+1+closing
		if ts, te := p.trimmed(textStart, textEnd); ts < te {
			if strings.IndexByte(p.src[ts:te], '=') > 0 {
				link.add(p.attributeList(textStart, textEnd))
			} else {
				link.add(p.node(LinkText, ts, te))
			}
		}
		link.End = textEnd + 1
	}

	return link
}

// schemeLength returns the length of the URL scheme of s, or 0.
func schemeLength(s string) int {
	idx := strings.Index(s, "://")
	if idx <= 0 || !util.IsAlphaNumeric(s[0]) || (s[0] >= '0' && s[0] <= '9') {
		return 0
	}
	for k := 1; k < idx; k++ {
		c := s[k]
		if !util.IsAlphaNumeric(c) && c != '+' && c != '-' && c != '.' {
			return 0
		}
	}
	return idx
}
