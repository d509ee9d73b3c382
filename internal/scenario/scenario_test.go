package scenario

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryLookup(t *testing.T) {
	r := Default()
	p, err := r.Get("grandchild")
	require.NoError(t, err)
	assert.Equal(t, "Grandchild in Crisis", p.Name)
	assert.NotEmpty(t, p.OpeningLine)
	assert.NotEmpty(t, p.SystemPrompt)
}

func TestGet_UnknownScenarioIsError(t *testing.T) {
	r := Default()
	// The original app substituted a placeholder persona for not-yet-authored
	// scenario types; here that is a configuration error.
	_, err := r.Get("lottery")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownScenario))
}

func TestVoiceStaging(t *testing.T) {
	assert.False(t, Grandchild.HasDistinctOpeningVoice())
	assert.Equal(t, Grandchild.VoiceID, Grandchild.OpeningVoice())

	for _, p := range []*Persona{BankSecurity, HydroQuebec} {
		assert.True(t, p.HasDistinctOpeningVoice(), p.ID)
		assert.Equal(t, p.OpeningVoiceID, p.OpeningVoice(), p.ID)
		assert.NotEqual(t, p.VoiceID, p.OpeningVoice(), p.ID)
	}
}

func TestDeclaresTool(t *testing.T) {
	assert.True(t, BankSecurity.DeclaresTool(ToolSensitiveInfo))
	assert.True(t, BankSecurity.DeclaresTool(ToolSuspicion))
	assert.False(t, BankSecurity.DeclaresTool("transfer_funds"))

	bare := &Persona{ID: "bare"}
	assert.False(t, bare.DeclaresTool(ToolSensitiveInfo))
}

func TestList_PreservesRegistrationOrder(t *testing.T) {
	r := Default()
	ids := make([]string, 0, 3)
	for _, p := range r.List() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"grandchild", "bankSecurity", "hydroQuebec"}, ids)
}

func TestDetectionToolSchemas(t *testing.T) {
	require.Len(t, DetectionTools, 2)
	info := DetectionTools[0]
	assert.Equal(t, ToolSensitiveInfo, info.Name)
	assert.Equal(t, []string{"info_type", "details"}, info.Parameters.Required)
	assert.Contains(t, info.Parameters.Properties["info_type"].Enum, "agreed_to_buy_gift_cards")

	susp := DetectionTools[1]
	assert.Equal(t, ToolSuspicion, susp.Name)
	assert.Contains(t, susp.Parameters.Properties["suspicion_type"].Enum, "direct_accusation")
}
