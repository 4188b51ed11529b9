// Package corpus loads the two source texts and normalizes them into one
// ordered sequence of verse records.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gitarag/internal/domain"
)

// Paths points at the corpus source files. The questions files are optional
// supplements carrying concept/keyword tags per verse.
type Paths struct {
	GitaVerses    string
	GitaQuestions string
	PYSVerses     string
	PYSQuestions  string
}

// Corpus is the normalized, load-order-stable verse collection. Record
// positions are reproducible across restarts given identical input files:
// Gita rows come first, then PYS rows, each in file order.
type Corpus struct {
	Records []domain.VerseRecord
	Dropped int

	gitaCount    int
	pysCount     int
	gitaChapters int
	pysChapters  int
}

// Translation column priority per source. Headers are matched after
// trimming; the source files carry trailing spaces ("Sanskrit ").
var (
	gitaTextColumns = []string{
		"Swami Adidevananda", "Swami Gambirananda", "Swami Sivananda",
		"Dr. S. Sankaranarayan", "Shri Purohit Swami", "English",
	}
	pysTextColumns = []string{"English", "Translation", "translation"}
)

// Load reads both corpora and produces the unified record sequence. Rows
// with no usable text after normalization are dropped and counted, not
// treated as fatal. An entirely empty result is fatal: no index can be
// built from it.
func Load(paths Paths, logger *zap.Logger) (*Corpus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Corpus{}

	gita, dropped, err := loadSource(paths.GitaVerses, paths.GitaQuestions, domain.SourceGita, gitaTextColumns)
	if err != nil {
		return nil, fmt.Errorf("loading Gita corpus: %w", err)
	}
	c.Dropped += dropped
	c.gitaCount = len(gita)
	c.gitaChapters = countChapters(gita)

	pys, dropped, err := loadSource(paths.PYSVerses, paths.PYSQuestions, domain.SourcePYS, pysTextColumns)
	if err != nil {
		return nil, fmt.Errorf("loading PYS corpus: %w", err)
	}
	c.Dropped += dropped
	c.pysCount = len(pys)
	c.pysChapters = countChapters(pys)

	c.Records = append(c.Records, gita...)
	c.Records = append(c.Records, pys...)
	if len(c.Records) == 0 {
		return nil, fmt.Errorf("%w: no usable verses in %q and %q", domain.ErrEmptyCorpus, paths.GitaVerses, paths.PYSVerses)
	}

	logger.Info("corpus loaded",
		zap.Int("gita_verses", c.gitaCount),
		zap.Int("pys_verses", c.pysCount),
		zap.Int("dropped_rows", c.Dropped))
	return c, nil
}

// Summary reports the per-source totals consumed by the sources endpoint.
// Chapter counts come from the data; when a corpus carries no chapter
// column the canonical counts (18 for the Gita, 4 for the sutras) apply.
func (c *Corpus) Summary() domain.SourcesSummary {
	gitaChapters := c.gitaChapters
	if gitaChapters == 0 {
		gitaChapters = 18
	}
	pysChapters := c.pysChapters
	if pysChapters == 0 {
		pysChapters = 4
	}
	return domain.SourcesSummary{
		Sources: []domain.SourceInfo{
			{
				Name:        "Bhagavad Gita",
				Code:        domain.SourceGita,
				TotalVerses: c.gitaCount,
				Chapters:    gitaChapters,
				Description: "A 700-verse Hindu scripture that is part of the epic Mahabharata",
			},
			{
				Name:        "Patanjali Yoga Sutras",
				Code:        domain.SourcePYS,
				TotalVerses: c.pysCount,
				Chapters:    pysChapters,
				Description: "A collection of 196 Indian sutras on the theory and practice of yoga",
			},
		},
		TotalVerses: c.gitaCount + c.pysCount,
	}
}

func loadSource(versesPath, questionsPath string, source domain.Source, textColumns []string) ([]domain.VerseRecord, int, error) {
	rows, err := readTable(versesPath)
	if err != nil {
		return nil, 0, err
	}
	tags := map[refKey]tagPair{}
	if questionsPath != "" {
		if qrows, err := readTable(questionsPath); err == nil {
			tags = collectTags(qrows)
		}
		// a missing questions file only loses display tags
	}

	var records []domain.VerseRecord
	dropped := 0
	for _, row := range rows {
		text := normalizeText(pickColumn(row, textColumns))
		if text == "" {
			dropped++
			continue
		}
		rec := domain.VerseRecord{
			Source:      source,
			Chapter:     parseNumber(pickColumn(row, []string{"Chapter", "chapter"})),
			Verse:       parseNumber(pickColumn(row, []string{"Verse", "verse"})),
			Text:        text,
			Sanskrit:    normalizeText(pickColumn(row, []string{"Sanskrit", "sanskrit"})),
			Translation: text,
		}
		if rec.Chapter != nil && rec.Verse != nil {
			if t, ok := tags[refKey{*rec.Chapter, *rec.Verse}]; ok {
				rec.Concept = t.concept
				rec.Keyword = t.keyword
			}
		}
		records = append(records, rec)
	}
	return records, dropped, nil
}

// row is one CSV record keyed by trimmed header name.
type row map[string]string

func readTable(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorpusLoad, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header of %s: %v", domain.ErrCorpusLoad, path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrCorpusLoad, path, err)
		}
		m := make(row, len(header))
		for i, cell := range rec {
			if i < len(header) {
				m[header[i]] = cell
			}
		}
		rows = append(rows, m)
	}
	return rows, nil
}

func countChapters(records []domain.VerseRecord) int {
	seen := map[float64]struct{}{}
	for _, r := range records {
		if r.Chapter != nil {
			seen[*r.Chapter] = struct{}{}
		}
	}
	return len(seen)
}

type refKey struct{ chapter, verse float64 }

type tagPair struct{ concept, keyword string }

func collectTags(rows []row) map[refKey]tagPair {
	tags := make(map[refKey]tagPair, len(rows))
	for _, r := range rows {
		ch := parseNumber(pickColumn(r, []string{"chapter", "Chapter"}))
		vs := parseNumber(pickColumn(r, []string{"verse", "Verse"}))
		if ch == nil || vs == nil {
			continue
		}
		key := refKey{*ch, *vs}
		if _, exists := tags[key]; exists {
			continue // first tagging wins, matching load order
		}
		tags[key] = tagPair{
			concept: normalizeText(pickColumn(r, []string{"concept", "Concept"})),
			keyword: normalizeText(pickColumn(r, []string{"keyword", "Keyword"})),
		}
	}
	return tags
}

// pickColumn returns the first non-empty cell among the named columns.
func pickColumn(r row, names []string) string {
	for _, name := range names {
		if v := strings.TrimSpace(r[name]); v != "" {
			return v
		}
	}
	return ""
}

// normalizeText collapses runs of whitespace to single spaces and trims.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}
