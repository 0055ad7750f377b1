package cst

import "strings"

// inlineAnchor parses [[id]] or [[id,reftext]] at source[start:end].
func (p *parser) inlineAnchor(start, end int) *Node {
	innerStart, innerEnd := start+2, end-2
	if comma := strings.IndexByte(p.src[innerStart:innerEnd], ','); comma >= 0 {
		innerEnd = innerStart + comma
	}

	idStart, idEnd := p.trimmed(innerStart, innerEnd)
	if !isIdentifier(p.src[idStart:idEnd]) {
		return nil
	}
	return p.node(InlineAnchor, start, end, p.node(Identifier, idStart, idEnd))
}

// attributeList parses the comma separated entries between brackets.
// Commas inside double quotes do not separate entries.
func (p *parser) attributeList(start, end int) *Node {
	list := p.node(InlineAttributeList, start, end)

	entry := start
	quoted := false
	for i := start; i <= end; i++ {
		if i < end && p.buf[i] == '"' {
			quoted = !quoted
			continue
		}
		if i == end || (p.buf[i] == ',' && !quoted) {
			list.add(p.attribute(entry, i))
			entry = i + 1
		}
	}

	return list
}

// attribute parses a positional value or a name=value pair.
func (p *parser) attribute(start, end int) *Node {
	start, end = p.trimmed(start, end)
	if start == end {
		return nil
	}

	entry := p.src[start:end]
	if eq := strings.IndexByte(entry, '='); eq > 0 && entry[0] != '"' {
		nameStart, nameEnd := p.trimmed(start, start+eq)
		if isIdentifier(p.src[nameStart:nameEnd]) {
			valueStart, valueEnd := p.trimmed(start+eq+1, end)
			named := p.node(NamedAttribute, start, end,
				p.node(Identifier, nameStart, nameEnd),
				p.attributeValue(valueStart, valueEnd),
			)
			return p.node(Attribute, start, end, named)
		}
	}

	return p.node(Attribute, start, end, p.attributeValue(start, end))
}

// attributeValue wraps a value; its attribute_text child is the value
// without surrounding quotes.
func (p *parser) attributeValue(start, end int) *Node {
	value := p.node(AttributeValue, start, end)

	textStart, textEnd := start, end
	if textEnd-textStart >= 2 {
		first, last := p.buf[textStart], p.buf[textEnd-1]
		if (first == '"' || first == '\'') && first == last {
			textStart++
			textEnd--
		}
	}
	if textStart < textEnd {
		value.add(p.node(AttributeText, textStart, textEnd))
	}

	return value
}
