package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme is a named dashboard color theme.
type Theme struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	Scheme string      `yaml:"scheme"` // "dark" or "light"
	Colors ThemeColors `yaml:"colors"`
}

type ThemeColors struct {
	Background string `yaml:"background"`
	Surface    string `yaml:"surface"`
	Primary    string `yaml:"primary"` // chart bars, links
	Accent     string `yaml:"accent"`  // secondary series
	Text       string `yaml:"text"`
	Success    string `yaml:"success"` // accepted verdicts, rating gains
	Danger     string `yaml:"danger"`  // failed verdicts, rating losses
}

type themesFile struct {
	Themes []Theme `yaml:"themes"`
}

// LoadThemes reads themes from path. When the file does not exist the
// embedded copy is used, and when that is empty too the built-in defaults.
func LoadThemes(path string, embedded []byte) ([]Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read themes file: %w", err)
		}
		data = embedded
	}
	if len(data) == 0 {
		return DefaultThemes(), nil
	}

	var f themesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse themes file: %w", err)
	}
	if len(f.Themes) == 0 {
		return DefaultThemes(), nil
	}
	return f.Themes, nil
}

// DefaultThemes returns the light and dark themes the dashboard ships with.
func DefaultThemes() []Theme {
	return []Theme{
		{
			ID: "light", Name: "Light", Scheme: "light",
			Colors: ThemeColors{
				Background: "#f3f4f6", Surface: "#ffffff", Primary: "#4f46e5",
				Accent: "#8884d8", Text: "#111827", Success: "#15803d", Danger: "#b91c1c",
			},
		},
		{
			ID: "dark", Name: "Dark", Scheme: "dark",
			Colors: ThemeColors{
				Background: "#111827", Surface: "#1f2937", Primary: "#818cf8",
				Accent: "#a5b4fc", Text: "#f3f4f6", Success: "#4ade80", Danger: "#f87171",
			},
		},
	}
}

// FindTheme looks a theme up by ID, falling back to the first one.
func FindTheme(themes []Theme, id string) Theme {
	for _, t := range themes {
		if t.ID == id {
			return t
		}
	}
	if len(themes) > 0 {
		return themes[0]
	}
	return DefaultThemes()[0]
}

// ThemeCSS renders a theme as CSS custom property declarations for :root.
func ThemeCSS(t Theme) string {
	c := t.Colors
	bg := parseHex(c.Background)
	text := parseHex(c.Text)

	var b strings.Builder
	prop := func(name, value string) {
		fmt.Fprintf(&b, "--%s: %s; ", name, value)
	}
	prop("bg", c.Background)
	prop("surface", c.Surface)
	prop("primary", c.Primary)
	prop("accent", c.Accent)
	prop("text", c.Text)
	prop("text-muted", mix(text, bg, 0.4).hex())
	prop("border", mix(parseHex(c.Surface), text, 0.15).hex())
	prop("success", c.Success)
	prop("danger", c.Danger)
	fmt.Fprintf(&b, "color-scheme: %s;", t.Scheme)
	return b.String()
}

type rgb struct{ r, g, b uint8 }

func parseHex(hex string) rgb {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	var c rgb
	fmt.Sscanf(hex, "%02x%02x%02x", &c.r, &c.g, &c.b)
	return c
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

func mix(a, b rgb, ratio float64) rgb {
	blend := func(x, y uint8) uint8 {
		return uint8(float64(x)*(1-ratio) + float64(y)*ratio)
	}
	return rgb{blend(a.r, b.r), blend(a.g, b.g), blend(a.b, b.b)}
}
