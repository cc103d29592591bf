package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const disputedIssueBody = `The delete button removes the wrong row.

# Disputes

## :question: Issue severity

Tester claims High because data is lost, team lowered it to Low.

## :question: Issue type

Tester filed FunctionalityBug, team relabelled as FeatureFlaw.
`

const moderationComment = `# Tutor Moderation

## :question: Issue severity

- [x] Done

Severity stays High, data loss is involved.

## :question: Issue type

- [ ] Done
`

func TestParseDisputes(t *testing.T) {
	set := ParseDisputes(disputedIssueBody)

	assert.False(t, set.ParseFailure)
	require.Len(t, set.Disputes, 2)
	assert.Equal(t, "Issue severity", set.Disputes[0].Title)
	assert.Equal(t, "Tester claims High because data is lost, team lowered it to Low.", set.Disputes[0].Description)
	assert.Equal(t, "Issue type", set.Disputes[1].Title)
}

func TestParseDisputesMissingSection(t *testing.T) {
	set := ParseDisputes("a body without the section")
	assert.True(t, set.ParseFailure)
	assert.Empty(t, set.Disputes)
}

func TestParseDisputesHeaderWithoutItems(t *testing.T) {
	set := ParseDisputes("desc\n\n# Disputes\n\nno items here\n")
	assert.True(t, set.ParseFailure)
}

func TestParseResolutions(t *testing.T) {
	set := ParseResolutions(comment(moderationComment))

	assert.False(t, set.ParseFailure)
	require.Len(t, set.Resolutions, 2)

	assert.True(t, set.Resolutions[0].Done)
	assert.Equal(t, "Severity stays High, data loss is involved.", set.Resolutions[0].Remarks)

	assert.False(t, set.Resolutions[1].Done)
	assert.Equal(t, "", set.Resolutions[1].Remarks)
}

func TestParseResolutionsTotalOnGarbage(t *testing.T) {
	assert.True(t, ParseResolutions(nil).ParseFailure)
	assert.True(t, ParseResolutions(comment("")).ParseFailure)
	assert.True(t, ParseResolutions(comment("# Tutor Moderation\n\nno items")).ParseFailure)
}

func TestZipResolutionsPairsByIndex(t *testing.T) {
	disputes := ParseDisputes(disputedIssueBody).Disputes
	resolutions := ParseResolutions(comment(moderationComment)).Resolutions

	zipped := ZipResolutions(resolutions, disputes)
	require.Len(t, zipped, 2)
	assert.Equal(t, disputes[0].Description, zipped[0].Description)
	assert.Equal(t, disputes[1].Description, zipped[1].Description)

	// 原切片不被修改
	assert.Equal(t, "", resolutions[0].Description)
}

func TestZipResolutionsLengthMismatch(t *testing.T) {
	resolutions := []Resolution{{Title: "a"}, {Title: "b"}, {Title: "c"}}
	disputes := []Dispute{{Title: "a", Description: "only one"}}

	zipped := ZipResolutions(resolutions, disputes)
	require.Len(t, zipped, 3)
	assert.Equal(t, "only one", zipped[0].Description)
	// 超出异议数量的裁决保持原样
	assert.Equal(t, "", zipped[1].Description)
	assert.Equal(t, "", zipped[2].Description)
}
