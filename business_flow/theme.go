package businessflow

import (
	"encoding/json"

	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/utils"
)

// Button styles supported by the page renderer
const (
	ButtonStyleGlass   = "glass"
	ButtonStyleSolid   = "solid"
	ButtonStyleOutline = "outline"
	ButtonStyleBrutal  = "brutal"
	ButtonStylePill    = "pill"
)

// Background types supported by the page renderer
const (
	BackgroundStatic    = "static"
	BackgroundLiquid    = "liquid"
	BackgroundStarfield = "starfield"
)

// DefaultThemeID is applied when a profile has no valid theme selection
const DefaultThemeID = "midnight"

// ThemePreset is a named baseline the profile's custom overrides layer onto
type ThemePreset struct {
	ID             string
	Background     string
	BackgroundType string
	TextColor      string
	ButtonStyle    string
	FontFamily     string
}

// themePresets is the built-in preset table. IDs are stable, pages reference
// them by ID.
var themePresets = map[string]ThemePreset{
	"midnight": {
		ID:             "midnight",
		Background:     "linear-gradient(160deg, #0f0c29 0%, #302b63 50%, #24243e 100%)",
		BackgroundType: BackgroundStatic,
		TextColor:      "#f5f5f7",
		ButtonStyle:    ButtonStyleGlass,
		FontFamily:     "Inter",
	},
	"sunset": {
		ID:             "sunset",
		Background:     "linear-gradient(135deg, #ff6e7f 0%, #bfe9ff 100%)",
		BackgroundType: BackgroundLiquid,
		TextColor:      "#1c1c1e",
		ButtonStyle:    ButtonStylePill,
		FontFamily:     "Poppins",
	},
	"ocean": {
		ID:             "ocean",
		Background:     "linear-gradient(180deg, #2b5876 0%, #4e4376 100%)",
		BackgroundType: BackgroundLiquid,
		TextColor:      "#eef2f7",
		ButtonStyle:    ButtonStyleGlass,
		FontFamily:     "Inter",
	},
	"forest": {
		ID:             "forest",
		Background:     "linear-gradient(160deg, #11998e 0%, #38ef7d 100%)",
		BackgroundType: BackgroundStatic,
		TextColor:      "#0b2614",
		ButtonStyle:    ButtonStyleSolid,
		FontFamily:     "Nunito",
	},
	"mono": {
		ID:             "mono",
		Background:     "#fafafa",
		BackgroundType: BackgroundStatic,
		TextColor:      "#111111",
		ButtonStyle:    ButtonStyleOutline,
		FontFamily:     "Space Grotesk",
	},
	"brutalist": {
		ID:             "brutalist",
		Background:     "#ff8a00",
		BackgroundType: BackgroundStatic,
		TextColor:      "#000000",
		ButtonStyle:    ButtonStyleBrutal,
		FontFamily:     "Archivo Black",
	},
	"cosmos": {
		ID:             "cosmos",
		Background:     "#050510",
		BackgroundType: BackgroundStarfield,
		TextColor:      "#e8e8ff",
		ButtonStyle:    ButtonStyleGlass,
		FontFamily:     "Orbitron",
	},
	"lavender": {
		ID:             "lavender",
		Background:     "linear-gradient(140deg, #e0c3fc 0%, #8ec5fc 100%)",
		BackgroundType: BackgroundStatic,
		TextColor:      "#2d2440",
		ButtonStyle:    ButtonStylePill,
		FontFamily:     "Quicksand",
	},
}

// ThemePresetByID looks up a preset, reporting whether it exists
func ThemePresetByID(id string) (ThemePreset, bool) {
	p, ok := themePresets[id]
	return p, ok
}

// ResolveTheme layers a profile's custom theme on top of its selected
// preset. Precedence per field is custom value, then preset value, then the
// default preset. The font has one extra layer: custom_font wins over the
// custom theme's fontFamily.
func ResolveTheme(profile *models.Profile) dto.ResolvedThemeDTO {
	preset, ok := themePresets[profile.ThemeID]
	if !ok {
		preset = themePresets[DefaultThemeID]
	}

	var custom models.CustomTheme
	if len(profile.CustomTheme) > 0 {
		// A malformed custom theme falls back to the preset
		_ = json.Unmarshal(profile.CustomTheme, &custom)
	}

	resolved := dto.ResolvedThemeDTO{
		ThemeID:        preset.ID,
		Background:     utils.FirstNonEmpty(custom.Background, preset.Background),
		BackgroundType: utils.FirstNonEmpty(custom.BackgroundType, preset.BackgroundType),
		TextColor:      utils.FirstNonEmpty(custom.TextColor, preset.TextColor),
		ButtonStyle:    utils.FirstNonEmpty(custom.ButtonStyle, preset.ButtonStyle),
		ButtonColor:    custom.ButtonColor,
		FontFamily: utils.FirstNonEmpty(
			utils.DerefOr(profile.CustomFont, ""),
			custom.FontFamily,
			preset.FontFamily,
		),
	}

	return resolved
}
