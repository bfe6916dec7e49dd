// Package search ranks passages of an evidence document against a query.
//
// Court turns send the model the evidence the session holds. Extracted PDFs
// can run far past what a prompt should carry, so before a turn the evidence
// is split into passages, scored against the prosecution's argument by
// Jaccard similarity of their word sets, and the best passages are kept in
// their original order until a rune budget is spent.
//
// The index is immutable after construction and safe for concurrent use.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Result is a ranked passage. Pos is its position in the source document.
type Result struct {
	Snippet string
	Score   float64
	Pos     int
}

// Index is implemented by passage indices.
type Index interface {
	TopK(query string, k int) []Result
}

// Option configures an index.
type Option func(*config)

type config struct {
	minPassageRunes int
	stopwords       map[string]struct{}
	maxPassages     int
}

func defaultConfig() config {
	return config{
		minPassageRunes: 20,
		stopwords:       legalStopwords,
		maxPassages:     0,
	}
}

// WithMinPassageRunes drops passages shorter than n runes (page numbers,
// stray headers). Negative values are ignored.
func WithMinPassageRunes(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minPassageRunes = n
		}
	}
}

// WithStopwords replaces the default stop-word list. An empty list keeps it.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithMaxPassages caps how many passages are indexed.
func WithMaxPassages(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxPassages = n
		}
	}
}

type passage struct {
	text   string
	pos    int
	tokens map[string]struct{}
}

type index struct {
	cfg      config
	passages []passage
}

// NewIndex splits text into passages on blank lines and indexes them.
func NewIndex(text string, opts ...Option) Index {
	return NewIndexFromPassages(SplitPassages(text), opts...)
}

// NewIndexFromPassages indexes already split passages.
func NewIndexFromPassages(passages []string, opts ...Option) Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return buildIndex(passages, cfg)
}

func buildIndex(passages []string, cfg config) *index {
	out := make([]passage, 0, len(passages))
	for i, raw := range passages {
		t := strings.TrimSpace(normalizeWhitespace(raw))
		if t == "" {
			continue
		}
		if cfg.minPassageRunes > 0 && utf8.RuneCountInString(t) < cfg.minPassageRunes {
			continue
		}
		toks := tokenize(t, cfg.stopwords)
		if len(toks) == 0 {
			continue
		}
		out = append(out, passage{text: t, pos: i, tokens: toks})
		if cfg.maxPassages > 0 && len(out) >= cfg.maxPassages {
			break
		}
	}
	return &index{cfg: cfg, passages: out}
}

// TopK returns up to k passages sharing words with q, best first. Ties go to
// the earlier passage. k <= 0 means 3.
func (i *index) TopK(q string, k int) []Result {
	if len(i.passages) == 0 || strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 3
	}
	qTokens := tokenize(q, i.cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}

	buf := make([]Result, 0, min(k*4, len(i.passages)))
	for _, p := range i.passages {
		over := overlap(qTokens, p.tokens)
		if over == 0 {
			continue
		}
		union := float64(len(qTokens) + len(p.tokens) - over)
		if union <= 0 {
			continue
		}
		buf = append(buf, Result{Snippet: p.text, Score: float64(over) / union, Pos: p.pos})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].Score != buf[b].Score {
			return buf[a].Score > buf[b].Score
		}
		return buf[a].Pos < buf[b].Pos
	})
	if k > len(buf) {
		k = len(buf)
	}
	return buf[:k]
}

// passageSep joins focused passages; the marker tells the model text was cut.
const passageSep = "\n\n[...]\n\n"

// Focus returns text unchanged when it fits in budget runes. Otherwise it
// keeps the passages most relevant to query, in document order, until the
// budget is spent. With nothing relevant it falls back to the opening of the
// document. budget <= 0 disables focusing.
func Focus(text, query string, budget int) string {
	if budget <= 0 || utf8.RuneCountInString(text) <= budget {
		return text
	}

	ranked := NewIndex(text).TopK(query, len(SplitPassages(text)))
	picked := make([]Result, 0, len(ranked))
	used := 0
	for _, r := range ranked {
		n := utf8.RuneCountInString(r.Snippet)
		if len(picked) > 0 {
			n += utf8.RuneCountInString(passageSep)
		}
		if used+n > budget {
			continue
		}
		picked = append(picked, r)
		used += n
	}
	if len(picked) == 0 {
		return string([]rune(text)[:budget])
	}

	sort.Slice(picked, func(a, b int) bool { return picked[a].Pos < picked[b].Pos })
	parts := make([]string, len(picked))
	for i, r := range picked {
		parts[i] = r.Snippet
	}
	return strings.Join(parts, passageSep)
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*|\p{N}+`)

// legalStopwords are words too common in pleadings to say anything about
// relevance.
var legalStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "for": {},
	"on": {}, "with": {}, "by": {}, "from": {}, "at": {}, "as": {}, "that": {},
	"this": {}, "it": {}, "he": {}, "she": {}, "they": {}, "his": {}, "her": {},
	"their": {}, "which": {}, "said": {}, "shall": {}, "court": {}, "accused": {},
}

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, skip := stop[w]; skip {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func normalizeWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

var passageSplitRE = regexp.MustCompile(`\n\s*\n`)

// SplitPassages splits text on blank lines, dropping empty chunks.
func SplitPassages(text string) []string {
	chunks := passageSplitRE.Split(text, -1)
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if t := strings.TrimSpace(c); t != "" {
			out = append(out, t)
		}
	}
	return out
}
