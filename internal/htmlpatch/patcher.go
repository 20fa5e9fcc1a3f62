package htmlpatch

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"imgprep/internal/faults"
	"imgprep/internal/fileutil"
	"imgprep/internal/logging"
	"imgprep/internal/variants"
)

// Rule names a placeholder matching strategy.
type Rule string

const (
	// RuleDirect replaces src values naming "{stem}-blur.*".
	RuleDirect Rule = "direct"
	// RulePicture replaces <img> src values inside a <picture> whose srcset
	// lists a file named "{stem}-*" other than the blur file.
	RulePicture Rule = "picture"
)

// DefaultRules is the evaluation order used by New.
func DefaultRules() []Rule {
	return []Rule{RuleDirect, RulePicture}
}

// Report describes the outcome of a patch.
type Report struct {
	// Patched maps each replaced stem to the rule that matched it.
	Patched map[string]Rule
	// NotFound lists stems with a placeholder but no target, sorted.
	NotFound []string
	// Replacements counts rewritten attributes.
	Replacements int
	// Missing is set when the document does not exist.
	Missing bool
	// Written is set when the document was rewritten on disk.
	Written bool
}

// Patcher applies placeholder rules to HTML documents.
type Patcher struct {
	labels []string
	rules  []Rule
	logger *slog.Logger
}

// New returns a Patcher recognising variants named with labels.
func New(labels []string, logger *slog.Logger) *Patcher {
	normalized := make([]string, len(labels))
	for i, label := range labels {
		normalized[i] = norm.NFC.String(label)
	}
	return &Patcher{
		labels: normalized,
		rules:  DefaultRules(),
		logger: logging.NewComponentLogger(logger, "htmlpatch"),
	}
}

// WithRules returns a copy of p that evaluates rules in the given order.
func (p *Patcher) WithRules(rules ...Rule) *Patcher {
	clone := *p
	clone.rules = append([]Rule(nil), rules...)
	return &clone
}

// Patch rewrites data with the placeholders keyed by stem and returns the new
// document. Bytes outside rewritten attribute values are preserved.
func (p *Patcher) Patch(data []byte, placeholders map[string]string) ([]byte, Report, error) {
	report := Report{Patched: make(map[string]Rule)}
	if len(placeholders) == 0 {
		return data, report, nil
	}

	doc, err := parseDocument(data)
	if err != nil {
		return nil, report, faults.Wrap(faults.ErrFilesystem, "htmlpatch", "tokenize", "", err)
	}

	stems := make([]string, 0, len(placeholders))
	for stem := range placeholders {
		stems = append(stems, stem)
	}
	sort.Strings(stems)

	keys := make([]string, len(stems))
	for i, stem := range stems {
		keys[i] = norm.NFC.String(stem)
	}

	edits := make(map[int][]byte)
	for _, stem := range stems {
		url := placeholders[stem]
		if url == "" {
			continue
		}
		key := norm.NFC.String(stem)
		matched := false
		for _, rule := range p.rules {
			targets := p.match(doc, rule, key, keys)
			fresh := 0
			for _, index := range targets {
				if _, done := edits[index]; done {
					continue
				}
				edits[index] = spliceAttr(doc.chunks[index], "src", url)
				fresh++
			}
			if fresh == 0 {
				continue
			}
			report.Patched[stem] = rule
			report.Replacements += fresh
			p.logger.Debug("placeholder inlined",
				logging.String(logging.FieldImage, stem),
				logging.String("rule", string(rule)),
				logging.Int("targets", fresh),
			)
			matched = true
			break
		}
		if !matched {
			report.NotFound = append(report.NotFound, stem)
		}
	}

	if len(edits) == 0 {
		return data, report, nil
	}
	return doc.bytes(edits), report, nil
}

func (p *Patcher) match(doc *document, rule Rule, stem string, stems []string) []int {
	var targets []int
	switch rule {
	case RuleDirect:
		prefix := stem + "-blur."
		for _, t := range doc.tags {
			if t.hasSrc && strings.HasPrefix(t.srcName, prefix) {
				targets = append(targets, t.index)
			}
		}
	case RulePicture:
		for _, pic := range doc.pictures {
			if !p.referencesVariant(pic.srcsetNames, stem, stems) {
				continue
			}
			targets = append(targets, pic.imgs...)
		}
	}
	return targets
}

// referencesVariant reports whether any name is "{stem}-*" and not the blur
// file. A name that is also "{other}-*" for a longer stem in the run belongs
// to that stem unless it is a labelled variant of this one.
func (p *Patcher) referencesVariant(names []string, stem string, stems []string) bool {
	prefix := stem + "-"
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) || strings.HasPrefix(name, stem+"-blur.") {
			continue
		}
		if variants.IsVariantOf(name, stem, p.labels) || !claimedByLonger(name, stem, stems) {
			return true
		}
	}
	return false
}

func claimedByLonger(name, stem string, stems []string) bool {
	for _, other := range stems {
		if len(other) > len(stem) && strings.HasPrefix(name, other+"-") {
			return true
		}
	}
	return false
}

// PatchFile patches the document at path in place. Nothing is written when
// placeholders is empty or the content is unchanged. A missing document is
// not an error: the report has Missing set.
func (p *Patcher) PatchFile(path string, placeholders map[string]string) (Report, error) {
	if len(placeholders) == 0 {
		return Report{Patched: map[string]Rule{}}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.WarnWithContext(p.logger, "html document missing; skipping placeholder substitution", "html_missing",
				logging.String("path", path),
				logging.String(logging.FieldErrorHint, "create the document or pass --html"),
			)
			return Report{Patched: map[string]Rule{}, Missing: true}, nil
		}
		return Report{}, faults.Wrap(faults.ErrFilesystem, "htmlpatch", "read", path, err)
	}

	patched, report, err := p.Patch(data, placeholders)
	if err != nil {
		return report, err
	}
	for _, stem := range report.NotFound {
		p.logger.Info("no placeholder target in document",
			logging.String(logging.FieldImage, stem),
			logging.String("path", path),
		)
	}
	if bytes.Equal(patched, data) {
		return report, nil
	}
	if err := fileutil.WriteAtomic(path, patched); err != nil {
		return report, faults.Wrap(faults.ErrFilesystem, "htmlpatch", "write", path, err)
	}
	report.Written = true
	return report, nil
}
