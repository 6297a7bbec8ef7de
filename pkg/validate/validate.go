// Package validate checks a code block's text and annotates the block with
// the resulting errors.
//
// Three passes run over the logical text: a structural pass that classifies
// parse failures, a schema pass over successfully parsed values, and a
// bracket-matching pass. Their results are merged, deduplicated and attached to
// lines and spans.
package validate

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/diag"
	"github.com/yaklabco/codeblock/pkg/document"
	"github.com/yaklabco/codeblock/pkg/schema"
	"github.com/yaklabco/codeblock/pkg/value"
)

// Error sources, used as ErrorInfo.Source and as the store key.
const (
	sourceStructural  = "structural"
	sourceBracket     = "bracket"
	sourceSchema      = "schema"
	sourceConformance = "jsonschema"

	// StoreSource is the key the validator publishes under in a diag.Store.
	StoreSource = "validator"
)

// Validator validates block text against an optional schema.
type Validator struct {
	cfg      config.EditorConfig
	schema   *schema.Schema
	compiled *jsonschema.Schema

	lastHash uint64
	hashed   bool
}

// New creates a validator. A nil schema disables the schema pass.
func New(cfg config.EditorConfig, s *schema.Schema) (*Validator, error) {
	v := &Validator{cfg: cfg, schema: s}
	if s != nil {
		compiled, err := s.Compile()
		if err != nil {
			return nil, fmt.Errorf("compiling schema: %w", err)
		}
		v.compiled = compiled
	}
	return v, nil
}

// Schema returns the schema in use, or nil.
func (v *Validator) Schema() *schema.Schema {
	return v.schema
}

// Validate returns every error found in text. It is pure: it neither reads nor
// updates the content hash.
func (v *Validator) Validate(text string, lang config.Language) []diag.ErrorInfo {
	text = value.StripInvisible(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var structural, schemaErrs, brackets []diag.ErrorInfo

	parsed, serr := value.ParseTolerant(text, lang)
	if serr != nil {
		structural = v.structuralErrors(text, lang, serr)
	} else {
		schemaErrs = v.schemaErrors(parsed, text, lang)
	}

	if lang == config.LanguageJSON {
		brackets = suppressOverlap(v.bracketErrors(text), structural)
	}

	return diag.Merge(structural, brackets, schemaErrs)
}

// suppressOverlap drops bracket errors on lines where the structural pass
// already reported the same delimiter (or a block boundary) so one root cause
// is reported once.
func suppressOverlap(brackets, structural []diag.ErrorInfo) []diag.ErrorInfo {
	if len(structural) == 0 {
		return brackets
	}
	covered := make(map[int]string)
	for _, e := range structural {
		covered[e.Line] = e.Token
	}

	out := brackets[:0]
	for _, e := range brackets {
		if tok, ok := covered[e.Line]; ok && (tok == e.Token || tok == "" || e.Token == "") {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Hash returns the content identity used to skip redundant validation.
func Hash(block *document.Block) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(string(block.Language))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(block.Source())
	return h.Sum64()
}

// Update validates the block if its content changed since the last call,
// annotates it and publishes the errors to store (which may be nil). It
// reports whether validation ran.
func (v *Validator) Update(block *document.Block, store *diag.Store) bool {
	h := Hash(block)
	if v.hashed && h == v.lastHash {
		return false
	}
	v.lastHash, v.hashed = h, true

	errs := v.Validate(block.Source(), block.Language)
	Annotate(block, errs)
	if store != nil {
		store.Set(StoreSource, errs)
	}
	return true
}

// Reset forgets the last content hash so the next Update always runs.
func (v *Validator) Reset() {
	v.hashed = false
}
