package cst

import "slices"

// listMarker returns the list marker opening s.
func listMarker(s string) (string, bool, bool) {
	if s == "" {
		return "", false, false
	}

	switch c := s[0]; {
	case c == '*':
		if n := runOf(s, '*'); n <= 5 && hasSpaceAfter(s, n) {
			return s[:n], false, true
		}
	case c == '-':
		if hasSpaceAfter(s, 1) {
			return "-", false, true
		}
	case c == '.':
		if n := runOf(s, '.'); n <= 5 && hasSpaceAfter(s, n) {
			return s[:n], true, true
		}
	case c >= '0' && c <= '9':
		n := 0
		for n < len(s) && s[n] >= '0' && s[n] <= '9' {
			n++
		}
		if n < len(s) && s[n] == '.' && hasSpaceAfter(s, n+1) {
			return s[:n+1], true, true
		}
	}

	return "", false, false
}

func isListItem(s string) bool {
	_, _, ok := listMarker(s)
	return ok
}

// markerClass groups markers that continue the same list: every explicit
// number belongs to one list.
func markerClass(marker string) string {
	if marker[0] >= '0' && marker[0] <= '9' {
		return "1."
	}
	return marker
}

// list parses the list whose first item is at line i. enclosing holds the
// marker classes of the lists this one is nested in.
func (p *parser) list(i int, enclosing []string) (*Node, int, error) {
	marker, numbered, _ := listMarker(p.rightTrimmed(i))
	class := markerClass(marker)

	kind, element := BulletList, BulletListElement
	if numbered {
		kind, element = NumberedList, NumberBulletListElement
	}

	start := p.lines[i].start
	inner := p.node(kind, start, start)
	chain := append(slices.Clone(enclosing), class)

	j := i
	for j < len(p.lines) {
		k := p.skipBlank(j)
		if k >= len(p.lines) {
			break
		}
		m, _, ok := listMarker(p.rightTrimmed(k))
		if !ok || markerClass(m) != class {
			break
		}

		item, next, err := p.listItem(k, element, chain)
		if err != nil {
			return nil, 0, err
		}
		inner.add(item)
		inner.End = item.End
		j = next
	}

	return p.node(List, inner.Start, inner.End, inner), j, nil
}

// listItem parses one item: its marker, its text, attached blocks and
// nested lists.
func (p *parser) listItem(i int, rule Rule, chain []string) (*Node, int, error) {
	l := p.lines[i]
	marker, numbered, _ := listMarker(p.rightTrimmed(i))

	bulletRule := Bullet
	if numbered {
		bulletRule = NumberBullet
	}
	bullet := p.node(bulletRule, l.start, l.start+len(marker))

	j := i + 1
	for j < len(p.lines) && !p.blank(j) && !p.interruptsItem(j) {
		j++
	}

	textStart, textEnd := p.trimmed(l.start+len(marker), p.lines[j-1].end)
	paragraph := p.node(ListParagraph, textStart, textEnd, p.inlines(textStart, textEnd, OtherListInline)...)
	element := p.node(ListElement, textStart, textEnd, paragraph)

	for j < len(p.lines) {
		if p.rightTrimmed(j) == "+" {
			continuation := p.node(Continuation, p.lines[j].start, p.lines[j].start+1)
			element.add(continuation)
			element.End = continuation.End
			j++
			if j >= len(p.lines) || p.blank(j) {
				break
			}

			attached, next, err := p.block(j, false)
			if err != nil {
				return nil, 0, err
			}
			element.add(attached)
			element.End = attached.End
			j = next
			continue
		}

		k := p.skipBlank(j)
		if k >= len(p.lines) {
			break
		}
		m, _, ok := listMarker(p.rightTrimmed(k))
		if !ok || slices.Contains(chain, markerClass(m)) {
			break
		}

		nested, next, err := p.list(k, chain)
		if err != nil {
			return nil, 0, err
		}
		element.add(nested)
		element.End = nested.End
		j = next
	}

	return p.node(rule, l.start, element.End, bullet, element), j, nil
}

// interruptsItem reports whether line j ends the text of a list item.
func (p *parser) interruptsItem(j int) bool {
	s := p.rightTrimmed(j)
	if s == "+" || isListItem(s) {
		return true
	}
	_, ok := delimiterRule(s)
	return ok
}
