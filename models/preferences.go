package models

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
)

type Accessibility struct {
	HighContrast bool `json:"high_contrast"`
	LargeText    bool `json:"large_text"`
	ReduceMotion bool `json:"reduce_motion"`
}
