package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitarag/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// Header cells carry trailing spaces on purpose: the real corpus files do.
const gitaCSV = `Chapter,Verse,Sanskrit ,Swami Adidevananda,Swami Sivananda
2,47,कर्मण्येवाधिकारस्ते,"You have a right to work alone, never to its fruits.","Thy right is to work only."
6,35,असंशयं महाबाहो,"  The   mind is restless and hard   to restrain.  ","Doubtless the mind is restless."
3,1,,"",""
`

const gitaQuestionsCSV = `chapter,verse,concept,keyword
2,47,Karma Yoga,Detachment
6,35,Mind Control,Practice
`

const pysCSV = `Chapter,Verse,Sanskrit,English,Translation
1,2,योगश्चित्तवृत्तिनिरोधः,Yoga is the stilling of the fluctuations of the mind.,
2,46,स्थिरसुखमासनम्,,Posture should be steady and comfortable.
`

func writeFixture(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	return Paths{
		GitaVerses:    writeFile(t, dir, "gita.csv", gitaCSV),
		GitaQuestions: writeFile(t, dir, "gita_questions.csv", gitaQuestionsCSV),
		PYSVerses:     writeFile(t, dir, "pys.csv", pysCSV),
	}
}

func TestLoad(t *testing.T) {
	c, err := Load(writeFixture(t), zap.NewNop())
	require.NoError(t, err)

	t.Run("drops rows without usable text, keeps the rest", func(t *testing.T) {
		assert.Len(t, c.Records, 4)
		assert.Equal(t, 1, c.Dropped)
	})

	t.Run("gita precedes pys in load order", func(t *testing.T) {
		assert.Equal(t, domain.SourceGita, c.Records[0].Source)
		assert.Equal(t, domain.SourceGita, c.Records[1].Source)
		assert.Equal(t, domain.SourcePYS, c.Records[2].Source)
		assert.Equal(t, domain.SourcePYS, c.Records[3].Source)
	})

	t.Run("maps columns onto the unified schema", func(t *testing.T) {
		first := c.Records[0]
		require.NotNil(t, first.Chapter)
		require.NotNil(t, first.Verse)
		assert.Equal(t, 2.0, *first.Chapter)
		assert.Equal(t, 47.0, *first.Verse)
		assert.Equal(t, "कर्मण्येवाधिकारस्ते", first.Sanskrit)
		assert.Equal(t, "You have a right to work alone, never to its fruits.", first.Text)
	})

	t.Run("collapses whitespace in text", func(t *testing.T) {
		assert.Equal(t, "The mind is restless and hard to restrain.", c.Records[1].Text)
	})

	t.Run("prefers the English column for pys", func(t *testing.T) {
		assert.Equal(t, "Yoga is the stilling of the fluctuations of the mind.", c.Records[2].Text)
	})

	t.Run("falls back to the translation column for pys", func(t *testing.T) {
		assert.Equal(t, "Posture should be steady and comfortable.", c.Records[3].Text)
	})

	t.Run("merges concept and keyword tags by reference", func(t *testing.T) {
		assert.Equal(t, "Karma Yoga", c.Records[0].Concept)
		assert.Equal(t, "Detachment", c.Records[0].Keyword)
		assert.Equal(t, "Mind Control", c.Records[1].Concept)
		assert.Empty(t, c.Records[2].Concept)
	})
}

func TestLoadFailures(t *testing.T) {
	t.Run("missing file is fatal", func(t *testing.T) {
		paths := writeFixture(t)
		paths.GitaVerses = filepath.Join(t.TempDir(), "nope.csv")
		_, err := Load(paths, nil)
		assert.ErrorIs(t, err, domain.ErrCorpusLoad)
	})

	t.Run("entirely empty corpus is fatal", func(t *testing.T) {
		dir := t.TempDir()
		empty := "Chapter,Verse,English\n1,1,\n"
		paths := Paths{
			GitaVerses: writeFile(t, dir, "gita.csv", "Chapter,Verse,Swami Adidevananda\n1,1,\n"),
			PYSVerses:  writeFile(t, dir, "pys.csv", empty),
		}
		_, err := Load(paths, nil)
		assert.ErrorIs(t, err, domain.ErrEmptyCorpus)
	})

	t.Run("missing questions file only loses tags", func(t *testing.T) {
		paths := writeFixture(t)
		paths.GitaQuestions = filepath.Join(t.TempDir(), "nope.csv")
		c, err := Load(paths, nil)
		require.NoError(t, err)
		assert.Empty(t, c.Records[0].Concept)
	})
}

func TestSummary(t *testing.T) {
	c, err := Load(writeFixture(t), nil)
	require.NoError(t, err)
	summary := c.Summary()

	require.Len(t, summary.Sources, 2)
	assert.Equal(t, 4, summary.TotalVerses)

	gita := summary.Sources[0]
	assert.Equal(t, domain.SourceGita, gita.Code)
	assert.Equal(t, "Bhagavad Gita", gita.Name)
	assert.Equal(t, 2, gita.TotalVerses)
	assert.Equal(t, 2, gita.Chapters)

	pys := summary.Sources[1]
	assert.Equal(t, domain.SourcePYS, pys.Code)
	assert.Equal(t, 2, pys.TotalVerses)
	assert.Equal(t, 2, pys.Chapters)
}
