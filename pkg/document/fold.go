package document

// RecomputeFoldable marks each line foldable when the next non-blank line is
// indented deeper, then refreshes hidden state. Collapsed lines that are no
// longer foldable are expanded. Nothing is foldable when folding is disabled.
func (b *Block) RecomputeFoldable() {
	for i, line := range b.Lines {
		line.Foldable = false
		if !b.cfg.Folding || line.IsBlank() {
			line.Collapsed = false
			continue
		}
		if next := b.nextNonBlank(i); next >= 0 && b.Lines[next].Indent() > line.Indent() {
			line.Foldable = true
		}
		if !line.Foldable {
			line.Collapsed = false
		}
	}
	b.RecomputeHidden()
}

func (b *Block) nextNonBlank(i int) int {
	for j := i + 1; j < len(b.Lines); j++ {
		if !b.Lines[j].IsBlank() {
			return j
		}
	}
	return -1
}

// RecomputeHidden derives every line's Hidden flag: a line is hidden when some
// line above it is collapsed and every non-blank line in between, itself
// included, is indented deeper than the collapsed line.
func (b *Block) RecomputeHidden() {
	var stack []int
	for _, line := range b.Lines {
		if !line.IsBlank() {
			for len(stack) > 0 && line.Indent() <= stack[len(stack)-1] {
				stack = stack[:len(stack)-1]
			}
		}
		line.Hidden = len(stack) > 0
		if line.Collapsed && line.Foldable {
			stack = append(stack, line.Indent())
		}
	}
}

// Collapse folds the region beneath line i. It returns false if the line is not
// foldable or already collapsed.
func (b *Block) Collapse(i int) bool {
	line := b.Line(i)
	if line == nil || !line.Foldable || line.Collapsed {
		return false
	}
	line.Collapsed = true
	b.RecomputeHidden()
	return true
}

// Expand unfolds line i. It returns false if the line was not collapsed.
func (b *Block) Expand(i int) bool {
	line := b.Line(i)
	if line == nil || !line.Collapsed {
		return false
	}
	line.Collapsed = false
	b.RecomputeHidden()
	return true
}

// ToggleFold collapses or expands line i.
func (b *Block) ToggleFold(i int) bool {
	line := b.Line(i)
	if line == nil {
		return false
	}
	if line.Collapsed {
		return b.Expand(i)
	}
	return b.Collapse(i)
}

// ExpandAll unfolds every line.
func (b *Block) ExpandAll() {
	for _, line := range b.Lines {
		line.Collapsed = false
	}
	b.RecomputeHidden()
}

// VisibleLines returns the indexes of lines that are not hidden.
func (b *Block) VisibleLines() []int {
	out := make([]int, 0, len(b.Lines))
	for i, line := range b.Lines {
		if !line.Hidden {
			out = append(out, i)
		}
	}
	return out
}
