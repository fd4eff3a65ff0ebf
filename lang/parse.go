package lang

// Parse groups runs into an expression tree.
//
// Italic keyword runs open a sub-expression that ends at the next run with
// an equal StyleKey; the runs in between are parsed recursively. Keyword
// runs with a single underline open an opaque [RichText] literal closed the
// same way. Keyword runs with any other underline pattern open a region
// that is consumed and discarded. Any other keyword run is an
// [Identifier], and consecutive plain runs form a [RichText] literal with
// trailing blank runs removed.
//
// A region without a closing run extends to the end of runs.
//
// When top is true and exactly one node is produced, that node is returned
// as is. Otherwise the nodes are returned as an [ExpressionList].
func Parse(runs []Run, top bool) Expression {
	nodes := make([]Expression, 0, len(runs))

	for i := 0; i < len(runs); {
		key, ok := Classify(runs[i])
		if !ok {
			if runs[i].Blank() {
				i++

				continue
			}

			j := i + 1
			for j < len(runs) {
				if _, kw := Classify(runs[j]); kw {
					break
				}

				j++
			}

			if lit := trimTrailingBlank(runs[i:j]); len(lit) > 0 {
				nodes = append(nodes, RichText{Runs: lit})
			}

			i = j

			continue
		}

		switch {
		case key.Bracket:
			end := FindMatch(runs, key, i)
			nodes = append(nodes, Parse(runs[i+1:end], false))
			i = end + 1

		case key.Underline == UnderlineSingle:
			end := FindMatch(runs, key, i)
			nodes = append(nodes, RichText{Runs: runs[i+1 : end : end]})
			i = end + 1

		case key.Underline == UnderlineOther:
			i = FindMatch(runs, key, i) + 1

		default:
			nodes = append(nodes, Identifier{Key: key})
			i++
		}
	}

	if top && len(nodes) == 1 {
		return nodes[0]
	}

	return ExpressionList{Nodes: nodes}
}

// FindMatch returns the index of the first keyword run after from whose
// StyleKey equals key, or len(runs) if there is none.
func FindMatch(runs []Run, key StyleKey, from int) int {
	for j := from + 1; j < len(runs); j++ {
		if k, ok := Classify(runs[j]); ok && k == key {
			return j
		}
	}

	return len(runs)
}

func trimTrailingBlank(runs []Run) []Run {
	n := len(runs)
	for n > 0 && runs[n-1].Blank() {
		n--
	}

	return runs[:n:n]
}
