// Package highlight keeps a line's highlight spans in sync with its text.
//
// After an edit the line is re-tokenized and compared with its current spans.
// Only the differing middle range (after the longest common prefix and suffix)
// is replaced, so untouched spans keep their identity and validation marks.
package highlight

import (
	"github.com/yaklabco/codeblock/pkg/caret"
	"github.com/yaklabco/codeblock/pkg/document"
	"github.com/yaklabco/codeblock/pkg/token"
)

type state uint8

const (
	stateIdle state = iota
	stateApplying
)

type request struct {
	block *document.Block
	line  int
	caret *caret.Position
}

// Engine re-highlights lines. It is not safe for concurrent use; an editor owns
// one engine and drives it from its update loop.
type Engine struct {
	// OnSplice, if set, is called after spans on a line were replaced. Calls to
	// Rehighlight made from inside it are queued and run once the current
	// application finishes.
	OnSplice func(block *document.Block, line int)

	state state
	queue []request
}

// New returns an idle engine.
func New() *Engine {
	return &Engine{}
}

// Rehighlight re-tokenizes line lineIdx and splices changed spans. If pos is on
// that line it is moved to the same column in the new span sequence. It reports
// whether any span changed. A call made while the engine is applying is queued
// and reports false.
func (e *Engine) Rehighlight(block *document.Block, lineIdx int, pos *caret.Position) bool {
	req := request{block: block, line: lineIdx, caret: pos}
	if e.state == stateApplying {
		e.queue = append(e.queue, req)
		return false
	}

	e.state = stateApplying
	defer func() { e.state = stateIdle }()

	changed := e.apply(req)
	for len(e.queue) > 0 {
		next := e.queue[0]
		e.queue = e.queue[1:]
		if e.apply(next) {
			changed = true
		}
	}
	return changed
}

// RehighlightAll re-tokenizes every line of the block.
func (e *Engine) RehighlightAll(block *document.Block) bool {
	changed := false
	for i := range block.Lines {
		if e.Rehighlight(block, i, nil) {
			changed = true
		}
	}
	return changed
}

// Pending reports the number of queued requests.
func (e *Engine) Pending() int {
	return len(e.queue)
}

func (e *Engine) apply(req request) bool {
	block := req.block
	line := block.Line(req.line)
	if line == nil {
		return false
	}

	indent := line.Indent()
	content := line.Children[indent:]

	oldToks := make([]token.Token, len(content))
	text := ""
	for i, child := range content {
		oldToks[i] = child.Token()
		text += child.Text
	}
	newToks := token.Tokenize(text, block.Language)

	if token.Equal(oldToks, newToks) {
		return false
	}

	col := -1
	if req.caret != nil && req.caret.Line == req.line {
		col = caret.Column(block, *req.caret)
	}

	prefix := 0
	for prefix < len(oldToks) && prefix < len(newToks) && oldToks[prefix] == newToks[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(oldToks)-prefix && suffix < len(newToks)-prefix &&
		oldToks[len(oldToks)-1-suffix] == newToks[len(newToks)-1-suffix] {
		suffix++
	}

	middle := make([]*document.Inline, 0, len(newToks)-prefix-suffix)
	for _, tok := range newToks[prefix : len(newToks)-suffix] {
		middle = append(middle, block.WrapString(tok))
	}

	children := make([]*document.Inline, 0, indent+len(newToks))
	children = append(children, line.Children[:indent+prefix]...)
	children = append(children, middle...)
	children = append(children, line.Children[indent+len(oldToks)-suffix:]...)
	line.Children = children

	if col >= 0 {
		*req.caret = caret.Locate(block, req.line, col)
	}

	if e.OnSplice != nil {
		e.OnSplice(block, req.line)
	}
	return true
}
