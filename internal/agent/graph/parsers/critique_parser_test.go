package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate-poc/server/internal/agent/model"
)

func TestParseCritiqueReviseWithIssues(t *testing.T) {
	content := `(verdict<||>revise<||>0.9)##
(issue<||>ungrounded_discount<||>SAVE10<||>code absent from check_discounts result)##
(issue<||>ungrounded_price<||>$29.99<||>price not in any tool observation)##
<|COMPLETE|>`

	crit, err := ParseCritique(content)
	require.NoError(t, err)
	require.NotNil(t, crit)

	assert.Equal(t, model.VerdictRevise, crit.Verdict)
	assert.Equal(t, 0.9, crit.Confidence)
	require.Len(t, crit.Issues, 2)
	assert.Equal(t, model.IssueUngroundedDiscount, crit.Issues[0].Category)
	assert.Equal(t, "SAVE10", crit.Issues[0].Claim)
	assert.Equal(t, "code absent from check_discounts result", crit.Issues[0].Note)
	assert.Equal(t, model.IssueUngroundedPrice, crit.Issues[1].Category)
	assert.True(t, crit.ShouldRevise())
	assert.False(t, crit.Timestamp.IsZero())
}

func TestParseCritiqueApprove(t *testing.T) {
	content := `(verdict<||>approve<||>0.95)##<|COMPLETE|>`

	crit, err := ParseCritique(content)
	require.NoError(t, err)
	assert.Equal(t, model.VerdictApprove, crit.Verdict)
	assert.Equal(t, 0.95, crit.Confidence)
	assert.Empty(t, crit.Issues)
	assert.False(t, crit.ShouldRevise())
	assert.NotContains(t, crit.ParsingMetadata, "verdict_defaulted")
}

func TestParseCritiqueFailsOpen(t *testing.T) {
	t.Run("garbage content defaults to approve", func(t *testing.T) {
		crit, err := ParseCritique("the draft looks mostly fine I guess")
		require.NoError(t, err)
		assert.Equal(t, model.VerdictApprove, crit.Verdict)
		assert.Equal(t, true, crit.ParsingMetadata["verdict_defaulted"])
		assert.False(t, crit.ShouldRevise())
	})

	t.Run("empty content defaults to approve", func(t *testing.T) {
		crit, err := ParseCritique("")
		require.NoError(t, err)
		assert.Equal(t, model.VerdictApprove, crit.Verdict)
		assert.Equal(t, true, crit.ParsingMetadata["verdict_defaulted"])
	})

	t.Run("revise without issues downgrades to approve", func(t *testing.T) {
		crit, err := ParseCritique(`(verdict<||>revise<||>0.8)##<|COMPLETE|>`)
		require.NoError(t, err)
		assert.Equal(t, model.VerdictApprove, crit.Verdict)
		assert.Equal(t, true, crit.ParsingMetadata["revise_without_issues"])
		assert.False(t, crit.ShouldRevise())
	})
}

func TestParseCritiqueRecordHygiene(t *testing.T) {
	t.Run("last valid verdict wins", func(t *testing.T) {
		content := `(verdict<||>revise<||>0.6)##
(issue<||>missing_check<||>shipping cost<||>customer asked for zip 12345)##
(verdict<||>approve<||>0.7)##<|COMPLETE|>`
		crit, err := ParseCritique(content)
		require.NoError(t, err)
		assert.Equal(t, model.VerdictApprove, crit.Verdict)
		assert.Equal(t, 0.7, crit.Confidence)
		// issues survive; they are advisory under an approve verdict
		assert.Len(t, crit.Issues, 1)
	})

	t.Run("unknown category is skipped with a hint", func(t *testing.T) {
		content := `(verdict<||>revise<||>0.9)##
(issue<||>vibes_off<||>something<||>note)##
(issue<||>unknown_store<||>SiteD<||>store not in any tool result)##
<|COMPLETE|>`
		crit, err := ParseCritique(content)
		require.NoError(t, err)
		require.Len(t, crit.Issues, 1)
		assert.Equal(t, model.IssueUnknownStore, crit.Issues[0].Category)
		errs, _ := crit.ParsingMetadata["parsing_errors"].([]string)
		require.NotEmpty(t, errs)
		assert.Contains(t, errs[0], "unknown category")
	})

	t.Run("malformed tuples are recorded not fatal", func(t *testing.T) {
		content := `not a tuple##(verdict<||>approve<||>1.0)##(broken<|COMPLETE|>`
		crit, err := ParseCritique(content)
		require.NoError(t, err)
		assert.Equal(t, model.VerdictApprove, crit.Verdict)
		errs, _ := crit.ParsingMetadata["parsing_errors"].([]string)
		assert.NotEmpty(t, errs)
	})

	t.Run("confidence out of range rejects the verdict", func(t *testing.T) {
		crit, err := ParseCritique(`(verdict<||>approve<||>1.5)##<|COMPLETE|>`)
		require.NoError(t, err)
		assert.Equal(t, true, crit.ParsingMetadata["verdict_defaulted"])
	})

	t.Run("note may contain the tuple delimiter", func(t *testing.T) {
		content := `(verdict<||>revise<||>0.9)##
(issue<||>ungrounded_price<||>$20<||>observed 35<||>not 20)##<|COMPLETE|>`
		crit, err := ParseCritique(content)
		require.NoError(t, err)
		require.Len(t, crit.Issues, 1)
		assert.Equal(t, "observed 35<||>not 20", crit.Issues[0].Note)
	})

	t.Run("content after completion delimiter is ignored", func(t *testing.T) {
		content := `(verdict<||>approve<||>0.9)##<|COMPLETE|>##(verdict<||>revise<||>0.1)`
		crit, err := ParseCritique(content)
		require.NoError(t, err)
		assert.Equal(t, model.VerdictApprove, crit.Verdict)
	})
}

func TestParseCritiqueSizeLimits(t *testing.T) {
	t.Run("oversized content is truncated", func(t *testing.T) {
		content := `(verdict<||>approve<||>0.9)##` + strings.Repeat("x", maxContentLen)
		crit, err := ParseCritique(content)
		require.NoError(t, err)
		assert.Equal(t, true, crit.ParsingMetadata["truncated"])
		assert.Equal(t, model.VerdictApprove, crit.Verdict)
	})

	t.Run("record cap", func(t *testing.T) {
		var b strings.Builder
		b.WriteString(`(verdict<||>approve<||>0.9)`)
		for i := 0; i < maxRecords+10; i++ {
			b.WriteString(`##(issue<||>missing_check<||>claim<||>note)`)
		}
		crit, err := ParseCritique(b.String())
		require.NoError(t, err)
		assert.Equal(t, true, crit.ParsingMetadata["records_capped"])
		assert.LessOrEqual(t, len(crit.Issues), maxRecords)
	})
}
