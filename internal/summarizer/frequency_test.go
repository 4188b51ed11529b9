package summarizer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencySummarize(t *testing.T) {
	s := NewFrequency()
	ctx := context.Background()

	t.Run("empty passage yields empty summary", func(t *testing.T) {
		got, err := s.Summarize(ctx, "anything", "   ", 150)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("non-empty passage yields non-empty summary", func(t *testing.T) {
		passage := "The mind is restless. Practice stills the mind. Food is needed for the body."
		got, err := s.Summarize(ctx, "how to still the mind", passage, 150)
		require.NoError(t, err)
		assert.NotEmpty(t, got)
	})

	t.Run("prefers sentences sharing query terms", func(t *testing.T) {
		passage := "Donkeys carry heavy loads uphill. Practice and detachment still the restless mind. Rivers flow toward the sea."
		got, err := s.Summarize(ctx, "how can practice still the mind", passage, 12)
		require.NoError(t, err)
		assert.Contains(t, got, "Practice and detachment")
	})

	t.Run("respects the token budget", func(t *testing.T) {
		var sentences []string
		for i := 0; i < 30; i++ {
			sentences = append(sentences, "The steady mind rests in calm practice every single day.")
		}
		got, err := s.Summarize(ctx, "mind", strings.Join(sentences, " "), 20)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(strings.Fields(got)), 20+10) // one sentence may straddle the boundary
	})

	t.Run("passage without sentence punctuation is passed through", func(t *testing.T) {
		got, err := s.Summarize(ctx, "mind", "a fragment without punctuation", 150)
		require.NoError(t, err)
		assert.Equal(t, "a fragment without punctuation", got)
	})

	t.Run("deterministic", func(t *testing.T) {
		passage := "One sentence here. Another sentence there. A third thought concludes."
		first, err := s.Summarize(ctx, "sentence", passage, 10)
		require.NoError(t, err)
		second, err := s.Summarize(ctx, "sentence", passage, 10)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
