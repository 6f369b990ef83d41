package services

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/PrayerLoop/models"
)

// ModerationRejectedReason is shown to users. It never echoes the terms.
const ModerationRejectedReason = "Your prayer contains language that isn't appropriate for this community. Please revise it and try again."

//go:embed moderation_terms.yaml
var defaultModerationTerms []byte

type ModerationLexicon struct {
	Blocked  []string      `yaml:"blocked"`
	Context  []ContextTerm `yaml:"context"`
	Patterns []string      `yaml:"patterns"`
}

// ContextTerm is only objectionable on its own; inside any Allow compound
// it is ordinary vocabulary.
type ContextTerm struct {
	Term  string   `yaml:"term"`
	Allow []string `yaml:"allow"`
}

// LoadModerationLexicon reads the lexicon at path, or the embedded default
// when path is empty.
func LoadModerationLexicon(path string) (ModerationLexicon, error) {
	data := defaultModerationTerms
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return ModerationLexicon{}, fmt.Errorf("read moderation terms: %w", err)
		}
		data = b
	}

	var lex ModerationLexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return ModerationLexicon{}, fmt.Errorf("parse moderation terms: %w", err)
	}
	return lex, nil
}

type literalMatcher struct {
	term string
	re   *regexp.Regexp
}

type contextMatcher struct {
	literalMatcher
	allow []string
}

// ModerationFilter classifies free text. It is immutable after
// construction and safe for concurrent use.
type ModerationFilter struct {
	blocked  []literalMatcher
	context  []contextMatcher
	patterns []*regexp.Regexp
}

func NewModerationFilter(lex ModerationLexicon) (*ModerationFilter, error) {
	f := &ModerationFilter{}

	for _, term := range lex.Blocked {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		f.blocked = append(f.blocked, literalMatcher{term: term, re: literalRegexp(term)})
	}

	for _, ct := range lex.Context {
		term := strings.ToLower(strings.TrimSpace(ct.Term))
		if term == "" {
			continue
		}
		m := contextMatcher{literalMatcher: literalMatcher{term: term, re: literalRegexp(term)}}
		for _, a := range ct.Allow {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				m.allow = append(m.allow, a)
			}
		}
		f.context = append(f.context, m)
	}

	for _, p := range lex.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile moderation pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, re)
	}

	return f, nil
}

func literalRegexp(term string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
}

// FilterContent is deterministic: detected terms are deduplicated and
// sorted. Blank input is always valid.
func (f *ModerationFilter) FilterContent(text string) models.ModerationResult {
	if strings.TrimSpace(text) == "" {
		return models.ModerationResult{IsValid: true, DetectedTerms: []string{}}
	}

	found := make(map[string]struct{})

	for _, b := range f.blocked {
		if b.re.MatchString(text) {
			found[b.term] = struct{}{}
		}
	}

	lower := strings.ToLower(text)
	for _, c := range f.context {
		if len(c.standaloneMatches(text)) > 0 && !c.allowed(lower) {
			found[c.term] = struct{}{}
		}
	}

	for _, re := range f.patterns {
		for _, m := range re.FindAllString(text, -1) {
			found[strings.ToLower(m)] = struct{}{}
		}
	}

	terms := make([]string, 0, len(found))
	for t := range found {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	if len(terms) == 0 {
		return models.ModerationResult{IsValid: true, DetectedTerms: terms}
	}
	return models.ModerationResult{IsValid: false, Reason: ModerationRejectedReason, DetectedTerms: terms}
}

// FilterParts moderates several fragments as one text.
func (f *ModerationFilter) FilterParts(parts ...string) models.ModerationResult {
	return f.FilterContent(strings.Join(parts, "\n"))
}

// CleanContent masks flagged spans with asterisks. It is a display
// transform only and must not replace rejection on the write path.
func (f *ModerationFilter) CleanContent(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	var spans [][2]int
	for _, b := range f.blocked {
		for _, loc := range b.re.FindAllStringIndex(text, -1) {
			spans = append(spans, [2]int{loc[0], loc[1]})
		}
	}
	lower := strings.ToLower(text)
	for _, c := range f.context {
		if c.allowed(lower) {
			continue
		}
		spans = append(spans, c.standaloneMatches(text)...)
	}
	for _, re := range f.patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, [2]int{loc[0], loc[1]})
		}
	}

	if len(spans) == 0 {
		return text
	}
	return maskSpans(text, spans)
}

func (c contextMatcher) allowed(lowerText string) bool {
	for _, a := range c.allow {
		if strings.Contains(lowerText, a) {
			return true
		}
	}
	return false
}

// standaloneMatches returns occurrences not touching another letter or
// digit on either side. This is a word boundary that also works for scripts
// written without spaces.
func (c contextMatcher) standaloneMatches(text string) [][2]int {
	var out [][2]int
	for _, loc := range c.re.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			r, _ := utf8.DecodeLastRuneInString(text[:loc[0]])
			if isWordRune(r) {
				continue
			}
		}
		if loc[1] < len(text) {
			r, _ := utf8.DecodeRuneInString(text[loc[1]:])
			if isWordRune(r) {
				continue
			}
		}
		out = append(out, [2]int{loc[0], loc[1]})
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func maskSpans(text string, spans [][2]int) string {
	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })

	var b strings.Builder
	pos := 0
	for _, s := range spans {
		start, end := s[0], s[1]
		if end <= pos {
			continue
		}
		if start < pos {
			start = pos
		}
		b.WriteString(text[pos:start])
		b.WriteString(strings.Repeat("*", utf8.RuneCountInString(text[start:end])))
		pos = end
	}
	b.WriteString(text[pos:])
	return b.String()
}

var moderator *ModerationFilter

// InitModerationFilter loads the lexicon and installs the shared filter.
func InitModerationFilter(path string) error {
	lex, err := LoadModerationLexicon(path)
	if err != nil {
		return err
	}
	f, err := NewModerationFilter(lex)
	if err != nil {
		return err
	}
	moderator = f
	log.Printf("Moderation filter initialized: %d blocked, %d context, %d patterns",
		len(f.blocked), len(f.context), len(f.patterns))
	return nil
}

func GetModerationFilter() *ModerationFilter {
	return moderator
}
