package businessflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/utils"
)

func TestThemePresetByID(t *testing.T) {
	t.Run("known preset", func(t *testing.T) {
		preset, ok := ThemePresetByID("sunset")
		require.True(t, ok)
		assert.Equal(t, "sunset", preset.ID)
		assert.Equal(t, ButtonStylePill, preset.ButtonStyle)
		assert.Equal(t, BackgroundLiquid, preset.BackgroundType)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, ok := ThemePresetByID("vaporwave")
		assert.False(t, ok)
	})
}

func TestResolveTheme_PresetOnly(t *testing.T) {
	profile := &models.Profile{ThemeID: "cosmos"}

	resolved := ResolveTheme(profile)

	assert.Equal(t, "cosmos", resolved.ThemeID)
	assert.Equal(t, "#050510", resolved.Background)
	assert.Equal(t, BackgroundStarfield, resolved.BackgroundType)
	assert.Equal(t, "#e8e8ff", resolved.TextColor)
	assert.Equal(t, ButtonStyleGlass, resolved.ButtonStyle)
	assert.Equal(t, "Orbitron", resolved.FontFamily)
	assert.Empty(t, resolved.ButtonColor)
}

func TestResolveTheme_UnknownThemeFallsBackToDefault(t *testing.T) {
	profile := &models.Profile{ThemeID: "does-not-exist"}

	resolved := ResolveTheme(profile)

	assert.Equal(t, DefaultThemeID, resolved.ThemeID)
	assert.Equal(t, "Inter", resolved.FontFamily)
}

func TestResolveTheme_CustomOverridesPreset(t *testing.T) {
	custom, err := json.Marshal(models.CustomTheme{
		Background:  "#123456",
		ButtonStyle: ButtonStyleOutline,
		ButtonColor: "#ff0000",
	})
	require.NoError(t, err)

	profile := &models.Profile{
		ThemeID:     "mono",
		CustomTheme: custom,
	}

	resolved := ResolveTheme(profile)

	// Overridden fields come from the custom theme
	assert.Equal(t, "#123456", resolved.Background)
	assert.Equal(t, ButtonStyleOutline, resolved.ButtonStyle)
	assert.Equal(t, "#ff0000", resolved.ButtonColor)

	// Untouched fields keep the preset values
	assert.Equal(t, "mono", resolved.ThemeID)
	assert.Equal(t, "#111111", resolved.TextColor)
	assert.Equal(t, "Space Grotesk", resolved.FontFamily)
}

func TestResolveTheme_FontPrecedence(t *testing.T) {
	custom, err := json.Marshal(models.CustomTheme{FontFamily: "Lora"})
	require.NoError(t, err)

	t.Run("custom_font beats custom theme font", func(t *testing.T) {
		profile := &models.Profile{
			ThemeID:     "midnight",
			CustomTheme: custom,
			CustomFont:  utils.ToPtr("JetBrains Mono"),
		}
		assert.Equal(t, "JetBrains Mono", ResolveTheme(profile).FontFamily)
	})

	t.Run("custom theme font beats preset font", func(t *testing.T) {
		profile := &models.Profile{
			ThemeID:     "midnight",
			CustomTheme: custom,
		}
		assert.Equal(t, "Lora", ResolveTheme(profile).FontFamily)
	})

	t.Run("preset font is the last resort", func(t *testing.T) {
		profile := &models.Profile{ThemeID: "forest"}
		assert.Equal(t, "Nunito", ResolveTheme(profile).FontFamily)
	})
}

func TestResolveTheme_MalformedCustomThemeIgnored(t *testing.T) {
	profile := &models.Profile{
		ThemeID:     "lavender",
		CustomTheme: json.RawMessage(`{not json`),
	}

	resolved := ResolveTheme(profile)

	assert.Equal(t, "lavender", resolved.ThemeID)
	assert.Equal(t, ButtonStylePill, resolved.ButtonStyle)
	assert.Equal(t, "Quicksand", resolved.FontFamily)
}
