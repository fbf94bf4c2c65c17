package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/ai"
)

func TestDecodeGeneratedSkillsShapes(t *testing.T) {
	g, err := DecodeGenerated(`{"summary":"s","skills":["Go","SQL"]}`)
	require.NoError(t, err)
	assert.Equal(t, Skills("Go, SQL"), g.Skills)

	g, err = DecodeGenerated("```\n{\"summary\":\"s\",\"skills\":\"Go | SQL\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, Skills("Go | SQL"), g.Skills)
}

func TestDecodeGeneratedRejectsMissingSummary(t *testing.T) {
	_, err := DecodeGenerated(`{"summary":"  ","skills":"Go"}`)
	var pe *ai.ParseError
	assert.ErrorAs(t, err, &pe)

	_, err = DecodeGenerated(`not json`)
	assert.ErrorAs(t, err, &pe)
}

func TestProfilesAreStable(t *testing.T) {
	list := Profiles()
	require.Len(t, list, 8)
	assert.Equal(t, "software-engineer", list[0].ID)
	for _, p := range list {
		got, ok := LookupProfile(p.ID)
		assert.True(t, ok)
		assert.Equal(t, p.Title, got.Title)
		assert.NotEmpty(t, p.Keywords)
	}
	list[0].Title = "mutated"
	assert.Equal(t, "Software Engineer", Profiles()[0].Title)
}

func TestBuildPromptCarriesProfileFraming(t *testing.T) {
	profile, _ := LookupProfile("devops-engineer")
	p := BuildPrompt(sampleBase(), profile)

	assert.Contains(t, p.User, "role: DevOps Engineer")
	assert.Contains(t, p.User, "kubernetes")
	assert.Contains(t, p.User, "CANDIDATE: Jane Doe")
	assert.NotEmpty(t, p.System)
}
