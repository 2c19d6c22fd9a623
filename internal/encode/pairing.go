package encode

import (
	"fmt"
	"path"
	"strings"

	"srcbundle/internal/models"
	"srcbundle/internal/render"
	"srcbundle/internal/tokens"
)

// DefaultPairedFilenameTemplate names each paired output after its stem.
const DefaultPairedFilenameTemplate = "{{STEM}}{{SOURCE_EXT}}{{HEADER_EXT}}.combined"

// PairingOptions configures the pairing assembler: which extensions mark a
// source file, which mark its companion header, and how each paired output
// document is named.
type PairingOptions struct {
	// SourceExtensions and HeaderExtensions are dot-prefixed, in preference
	// order. Matching is case-insensitive.
	SourceExtensions []string
	HeaderExtensions []string

	// IncludeMismatched admits a lone source or header with no companion;
	// its pairing output is degenerate (single record).
	IncludeMismatched bool

	// FilenameTemplate renders each output path. Placeholders: STEM,
	// SOURCE_EXT, HEADER_EXT, DIR, DIR_SLUG. Unknown placeholders are a
	// configuration error.
	FilenameTemplate string
}

// Pair binds a source record to at most one header record sharing its stem
// and directory.
type Pair struct {
	Stem   string
	Dir    string
	Source *models.FileRecord
	Header *models.FileRecord
}

// PairRecords groups records by directory and stem and resolves each group
// to at most one source and one header, respecting extension preference
// order. An extension with more than one candidate in a group is ambiguous
// and is skipped in favor of the next preferred extension. Pair order
// follows the first appearance of each group in the record set.
func PairRecords(records []models.FileRecord, opts PairingOptions) []Pair {
	type group struct {
		dir, stem string
		byExt     map[string][]*models.FileRecord
	}

	groups := make(map[string]*group)
	var order []string
	for i := range records {
		r := &records[i]
		ext := strings.ToLower(path.Ext(r.RelPath))
		if !containsFold(opts.SourceExtensions, ext) && !containsFold(opts.HeaderExtensions, ext) {
			continue
		}
		key := path.Join(r.Dir(), r.Stem())
		g, ok := groups[key]
		if !ok {
			g = &group{dir: r.Dir(), stem: r.Stem(), byExt: make(map[string][]*models.FileRecord)}
			groups[key] = g
			order = append(order, key)
		}
		g.byExt[ext] = append(g.byExt[ext], r)
	}

	var pairs []Pair
	for _, key := range order {
		g := groups[key]
		source := selectPreferred(g.byExt, opts.SourceExtensions)
		header := selectPreferred(g.byExt, opts.HeaderExtensions)

		switch {
		case source != nil && header != nil:
			pairs = append(pairs, Pair{Stem: g.stem, Dir: g.dir, Source: source, Header: header})
		case opts.IncludeMismatched && (source != nil || header != nil):
			pairs = append(pairs, Pair{Stem: g.stem, Dir: g.dir, Source: source, Header: header})
		}
	}
	return pairs
}

// selectPreferred walks the preferred extensions in order and returns the
// sole candidate for the first unambiguous one. Ambiguous extensions (more
// than one record with the same stem, directory, and extension) are skipped.
func selectPreferred(byExt map[string][]*models.FileRecord, preferred []string) *models.FileRecord {
	for _, ext := range preferred {
		candidates := byExt[strings.ToLower(ext)]
		if len(candidates) == 1 {
			return candidates[0]
		}
	}
	return nil
}

// OutputPath renders the pair's output filename from the configured
// template. A missing companion renders its extension placeholder empty.
func (p Pair) OutputPath(template string) (string, error) {
	if template == "" {
		template = DefaultPairedFilenameTemplate
	}
	ctx := render.Context{
		"STEM":       p.Stem,
		"SOURCE_EXT": recordExt(p.Source),
		"HEADER_EXT": recordExt(p.Header),
		"DIR":        p.Dir,
		"DIR_SLUG":   render.SlugDir(p.Dir),
	}
	return render.RenderStrict(template, ctx)
}

func recordExt(r *models.FileRecord) string {
	if r == nil {
		return ""
	}
	return path.Ext(r.RelPath)
}

// EncodePairs renders one document per pair, bracketed independently by the
// global header and footer templates, and returns output path → document.
// Aggregate placeholders are undefined in pairing mode; ValidatePairing
// rejects them before this point. Pairing is whole-document assembly's
// mutually exclusive sibling: no table of contents, folder tree, or token
// budget applies here.
func EncodePairs(doc *models.Document, opts PairingOptions, counter tokens.Counter) (map[string]string, error) {
	if err := ValidatePairing(doc); err != nil {
		return nil, err
	}

	outputs := make(map[string]string)
	for _, pair := range PairRecords(doc.Records, opts) {
		outPath, err := pair.OutputPath(opts.FilenameTemplate)
		if err != nil {
			return nil, err
		}
		if _, dup := outputs[outPath]; dup {
			return nil, &models.ConfigError{
				Reason: fmt.Sprintf("paired filename template maps multiple groups to %q", outPath),
			}
		}

		sub := models.Document{
			Format:               doc.Format,
			HeaderTemplate:       doc.HeaderTemplate,
			FooterTemplate:       doc.FooterTemplate,
			GlobalHeaderTemplate: doc.GlobalHeaderTemplate,
			GlobalFooterTemplate: doc.GlobalFooterTemplate,
			MaxFileSize:          doc.MaxFileSize,
			MaxSizePlaceholder:   doc.MaxSizePlaceholder,
		}
		if pair.Source != nil {
			sub.Records = append(sub.Records, *pair.Source)
		}
		if pair.Header != nil {
			sub.Records = append(sub.Records, *pair.Header)
		}

		result, err := Encode(&sub, counter)
		if err != nil {
			return nil, err
		}
		outputs[outPath] = result.Output
	}
	return outputs, nil
}

var aggregatePlaceholders = []string{"{{FILE_COUNT}}", "{{TOTAL_SIZE}}", "{{TOTAL_TOKENS}}", "{{TOTAL_LINES}}"}

// ValidatePairing rejects document options that only make sense for
// whole-document assembly: derived sections, token budgets, structured
// formats, and aggregate placeholders in the global templates.
func ValidatePairing(doc *models.Document) error {
	switch {
	case doc.TableOfContents:
		return &models.ConfigError{Reason: "pairing cannot be combined with a table of contents"}
	case doc.IncludeTree:
		return &models.ConfigError{Reason: "pairing cannot be combined with a folder tree section"}
	case doc.MaxTotalTokens > 0:
		return &models.ConfigError{Reason: "pairing cannot be combined with a token budget"}
	case doc.Format == models.FormatStructured || doc.Format == models.FormatStructuredLines:
		return &models.ConfigError{Reason: "JSON format is not compatible with pairing mode"}
	}
	for _, tmpl := range []string{doc.GlobalHeaderTemplate, doc.GlobalFooterTemplate} {
		for _, placeholder := range aggregatePlaceholders {
			if strings.Contains(tmpl, placeholder) {
				return &models.ConfigError{
					Reason: fmt.Sprintf("aggregate placeholder %s is undefined in pairing mode", placeholder),
				}
			}
		}
	}
	return nil
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
