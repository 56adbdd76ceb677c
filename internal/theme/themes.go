// Package theme picks the color palette offered to the builder.
//
// Themes are static reference data. The only mutable state is which theme is
// current and whether it follows the calendar (auto) or was pinned by the
// user (manual); see Selector.
package theme

import (
	"strings"
	"time"
)

// DefaultID is the fallback theme for dates no seasonal theme covers.
const DefaultID = "classic"

// Color is one palette entry.
type Color struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Theme is a named palette.
type Theme struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Emoji   string  `json:"emoji"`
	Palette []Color `json:"palette"`
}

// ColorByID returns the palette color with the given id.
func (t Theme) ColorByID(id string) (Color, bool) {
	for _, c := range t.Palette {
		if strings.EqualFold(c.ID, id) {
			return c, true
		}
	}
	return Color{}, false
}

func (t Theme) clone() Theme {
	t.Palette = append([]Color(nil), t.Palette...)
	return t
}

var builtin = []Theme{
	{
		ID: "classic", Name: "Classic", Emoji: "🧱",
		Palette: []Color{
			{ID: "red", Name: "Bright Red", Hex: "#C91A09"},
			{ID: "blue", Name: "Bright Blue", Hex: "#0055BF"},
			{ID: "yellow", Name: "Bright Yellow", Hex: "#F2CD37"},
			{ID: "green", Name: "Green", Hex: "#237841"},
			{ID: "white", Name: "White", Hex: "#FFFFFF"},
			{ID: "black", Name: "Black", Hex: "#05131D"},
			{ID: "gray", Name: "Light Bluish Gray", Hex: "#A0A5A9"},
			{ID: "orange", Name: "Orange", Hex: "#FE8A18"},
		},
	},
	{
		ID: "valentine", Name: "Valentine", Emoji: "💘",
		Palette: []Color{
			{ID: "red", Name: "Rose Red", Hex: "#C91A09"},
			{ID: "pink", Name: "Bright Pink", Hex: "#E4ADC8"},
			{ID: "magenta", Name: "Magenta", Hex: "#923978"},
			{ID: "white", Name: "White", Hex: "#FFFFFF"},
			{ID: "lavender", Name: "Lavender", Hex: "#E1D5ED"},
			{ID: "coral", Name: "Coral", Hex: "#FF698F"},
		},
	},
	{
		ID: "spring", Name: "Spring", Emoji: "🌷",
		Palette: []Color{
			{ID: "lime", Name: "Lime", Hex: "#BBE90B"},
			{ID: "green", Name: "Bright Green", Hex: "#4B9F4A"},
			{ID: "yellow", Name: "Light Yellow", Hex: "#FBE696"},
			{ID: "pink", Name: "Light Pink", Hex: "#FECCCF"},
			{ID: "sky", Name: "Sky Blue", Hex: "#7DBFDD"},
			{ID: "lavender", Name: "Lavender", Hex: "#E1D5ED"},
			{ID: "white", Name: "White", Hex: "#FFFFFF"},
		},
	},
	{
		ID: "summer", Name: "Summer", Emoji: "🏖️",
		Palette: []Color{
			{ID: "sand", Name: "Tan", Hex: "#E4CD9E"},
			{ID: "azure", Name: "Medium Azure", Hex: "#36AEBF"},
			{ID: "blue", Name: "Bright Blue", Hex: "#0055BF"},
			{ID: "orange", Name: "Orange", Hex: "#FE8A18"},
			{ID: "yellow", Name: "Bright Yellow", Hex: "#F2CD37"},
			{ID: "coral", Name: "Coral", Hex: "#FF698F"},
			{ID: "white", Name: "White", Hex: "#FFFFFF"},
		},
	},
	{
		ID: "halloween", Name: "Halloween", Emoji: "🎃",
		Palette: []Color{
			{ID: "orange", Name: "Orange", Hex: "#FE8A18"},
			{ID: "black", Name: "Black", Hex: "#05131D"},
			{ID: "purple", Name: "Dark Purple", Hex: "#3F3691"},
			{ID: "lime", Name: "Lime", Hex: "#BBE90B"},
			{ID: "bone", Name: "Tan", Hex: "#E4CD9E"},
			{ID: "gray", Name: "Dark Bluish Gray", Hex: "#6C6E68"},
		},
	},
	{
		ID: "winter", Name: "Winter", Emoji: "❄️",
		Palette: []Color{
			{ID: "white", Name: "White", Hex: "#FFFFFF"},
			{ID: "ice", Name: "Light Aqua", Hex: "#ADC3C0"},
			{ID: "blue", Name: "Dark Blue", Hex: "#0A3463"},
			{ID: "red", Name: "Dark Red", Hex: "#720E0F"},
			{ID: "green", Name: "Dark Green", Hex: "#184632"},
			{ID: "silver", Name: "Flat Silver", Hex: "#898788"},
		},
	},
}

// All returns every built-in theme.
func All() []Theme {
	out := make([]Theme, len(builtin))
	for i, t := range builtin {
		out[i] = t.clone()
	}
	return out
}

// Lookup returns the theme with the given id.
func Lookup(id string) (Theme, bool) {
	for _, t := range builtin {
		if t.ID == id {
			return t.clone(), true
		}
	}
	return Theme{}, false
}

// Default returns the classic theme.
func Default() Theme {
	t, _ := Lookup(DefaultID)
	return t
}

// season is an inclusive month/day range. Ranges with from > to wrap
// around the new year.
type season struct {
	id    string
	fromM time.Month
	fromD int
	toM   time.Month
	toD   int
}

var seasons = []season{
	{"valentine", time.February, 1, time.February, 14},
	{"spring", time.March, 20, time.May, 31},
	{"summer", time.June, 1, time.August, 31},
	{"halloween", time.October, 1, time.October, 31},
	{"winter", time.December, 1, time.January, 6},
}

func (s season) contains(m time.Month, d int) bool {
	v := int(m)*100 + d
	from := int(s.fromM)*100 + s.fromD
	to := int(s.toM)*100 + s.toD
	if from <= to {
		return v >= from && v <= to
	}
	return v >= from || v <= to
}

// ForDate returns the theme the calendar selects for t, in t's location.
func ForDate(t time.Time) Theme {
	_, m, d := t.Date()
	for _, s := range seasons {
		if s.contains(m, d) {
			th, _ := Lookup(s.id)
			return th
		}
	}
	return Default()
}
