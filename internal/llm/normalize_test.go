package llm_test

import (
	"testing"

	"go-hiring-ingest/internal/llm"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeList(t *testing.T) {
	t.Run("Should strip bullet markers and whitespace", func(t *testing.T) {
		in := []string{"- Build APIs", "* Review code", "• Mentor juniors", "  \tShip features  "}
		out := llm.NormalizeList(in)
		assert.Equal(t, []string{"Build APIs", "Review code", "Mentor juniors", "Ship features"}, out)
	})

	t.Run("Should drop entries that are empty after cleaning", func(t *testing.T) {
		in := []string{"-", "  ", "", "• ", "Real item"}
		assert.Equal(t, []string{"Real item"}, llm.NormalizeList(in))
	})

	t.Run("Should return nil for empty input", func(t *testing.T) {
		assert.Nil(t, llm.NormalizeList(nil))
	})
}

func TestFallbackTitle(t *testing.T) {
	t.Run("Should use the first line longer than ten characters", func(t *testing.T) {
		text := "ACME\nSenior Backend Engineer\nRemote"
		assert.Equal(t, "Senior Backend Engineer", llm.FallbackTitle(text, "jd.pdf"))
	})

	t.Run("Should fall back to the cleaned filename", func(t *testing.T) {
		assert.Equal(t, "senior backend engineer", llm.FallbackTitle("short", "senior-backend_engineer.pdf"))
	})

	t.Run("Should return the default when nothing usable remains", func(t *testing.T) {
		assert.Equal(t, "Untitled role", llm.FallbackTitle("", ""))
	})
}
