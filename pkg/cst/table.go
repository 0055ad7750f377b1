package cst

// tableInner parses a table body: rows separated by blank lines, every row
// line starting with a cell separator.
func (p *parser) tableInner(start, end int) (*Node, error) {
	inner := p.node(TableInner, start, end)

	i := 0
	for {
		i = p.skipBlank(i)
		if i >= len(p.lines) {
			break
		}

		j := i
		for j < len(p.lines) && !p.blank(j) {
			l := p.lines[j]
			first, _ := p.trimmed(l.start, l.end)
			if p.buf[first] != '|' {
				return nil, p.fail(first, "table row must start with %q", "|")
			}
			j++
		}

		inner.add(p.tableRow(p.lines[i].start, p.lines[j-1].end))
		i = j
	}

	return inner, nil
}

// tableRow splits a row at every unescaped cell separator.
func (p *parser) tableRow(start, end int) *Node {
	rowStart, _ := p.trimmed(start, end)
	row := p.node(TableRow, rowStart, end)

	var separators []int
	for k := rowStart; k < end; k++ {
		if p.buf[k] == '|' && (k == rowStart || p.buf[k-1] != '\\') {
			separators = append(separators, k)
		}
	}

	for n, sep := range separators {
		cellEnd := end
		if n+1 < len(separators) {
			cellEnd = separators[n+1]
		}

		cell := p.node(TableCell, sep, cellEnd)
		if cs, ce := p.trimmed(sep+1, cellEnd); cs < ce {
			cell.add(p.node(TableCellContent, sep+1, cellEnd))
		}
		row.add(cell)
	}

	return row
}
