// Package taxonomy maps free-form leaf category names onto a closed set of
// parent categories. The table is static; unmapped leaves fall back to the
// Other/Uncategorized parent rather than growing the set at runtime.
package taxonomy

import (
	"sort"
	"strings"
)

// ParentID identifies one of the fixed parent categories.
type ParentID string

const (
	ParentFood      ParentID = "food"
	ParentTransport ParentID = "transport"
	ParentShopping  ParentID = "shopping"
	ParentHousing   ParentID = "housing"
	ParentHealth    ParentID = "health"
	ParentLeisure   ParentID = "leisure"
	ParentTravel    ParentID = "travel"
	ParentFinance   ParentID = "finance"
	ParentOther     ParentID = "other"
)

// Parent describes one fixed parent category for presentation.
type Parent struct {
	ID          ParentID
	DisplayName string
	Color       string // hex, for the caller's charts
	Icon        string // icon reference, presentation-defined
}

// Parents returns the fixed parent set in display order. ParentOther is
// always last.
func Parents() []Parent {
	return []Parent{
		{ID: ParentFood, DisplayName: "Food & Dining", Color: "#e4572e", Icon: "utensils"},
		{ID: ParentTransport, DisplayName: "Transport", Color: "#17bebb", Icon: "car"},
		{ID: ParentShopping, DisplayName: "Shopping", Color: "#ffc914", Icon: "bag"},
		{ID: ParentHousing, DisplayName: "Housing & Utilities", Color: "#2e282a", Icon: "home"},
		{ID: ParentHealth, DisplayName: "Health", Color: "#76b041", Icon: "heart"},
		{ID: ParentLeisure, DisplayName: "Leisure", Color: "#8d6a9f", Icon: "film"},
		{ID: ParentTravel, DisplayName: "Travel", Color: "#4c86a8", Icon: "plane"},
		{ID: ParentFinance, DisplayName: "Fees & Finance", Color: "#a4243b", Icon: "bank"},
		{ID: ParentOther, DisplayName: "Other", Color: "#9b9b9b", Icon: "dots"},
	}
}

// Get returns the parent record for an ID, falling back to ParentOther.
func Get(id ParentID) Parent {
	for _, p := range Parents() {
		if p.ID == id {
			return p
		}
	}
	return Get(ParentOther)
}

// leafParents is the static leaf -> parent table. Keys are lower-case.
var leafParents = map[string]ParentID{
	"groceries":   ParentFood,
	"restaurants": ParentFood,
	"dining":      ParentFood,
	"cafe":        ParentFood,
	"coffee":      ParentFood,
	"takeout":     ParentFood,
	"bars":        ParentFood,
	"fuel":        ParentTransport,
	"gas":         ParentTransport,
	"parking":     ParentTransport,
	"transit":     ParentTransport,
	"taxi":        ParentTransport,
	"rideshare":   ParentTransport,
	"car":         ParentTransport,
	"clothing":    ParentShopping,
	"electronics": ParentShopping,
	"household":   ParentShopping,
	"gifts":       ParentShopping,
	"online":      ParentShopping,
	"rent":        ParentHousing,
	"mortgage":    ParentHousing,
	"utilities":   ParentHousing,
	"electricity": ParentHousing,
	"water":       ParentHousing,
	"internet":    ParentHousing,
	"phone":       ParentHousing,
	"pharmacy":    ParentHealth,
	"doctor":      ParentHealth,
	"dental":      ParentHealth,
	"fitness":     ParentHealth,
	"insurance":   ParentHealth,
	"movies":      ParentLeisure,
	"streaming":   ParentLeisure,
	"games":       ParentLeisure,
	"books":       ParentLeisure,
	"music":       ParentLeisure,
	"hobbies":     ParentLeisure,
	"flights":     ParentTravel,
	"hotels":      ParentTravel,
	"vacation":    ParentTravel,
	"bank fees":   ParentFinance,
	"interest":    ParentFinance,
	"taxes":       ParentFinance,
}

// Table resolves leaf categories to parents, optionally extended with
// user-provided mappings from config. The static table always wins on
// conflict so the closed set stays authoritative.
type Table struct {
	extra map[string]ParentID
}

// New builds a Table with optional user extensions (leaf -> parent id).
// Extensions naming an unknown parent are ignored.
func New(extensions map[string]string) Table {
	extra := make(map[string]ParentID, len(extensions))
	for leaf, pid := range extensions {
		id := ParentID(strings.ToLower(pid))
		if _, known := leafParents[normalize(leaf)]; known {
			continue
		}
		if Get(id).ID != id {
			continue
		}
		extra[normalize(leaf)] = id
	}
	return Table{extra: extra}
}

// ParentOf maps a leaf category name to its parent, ParentOther when
// unmapped.
func (t Table) ParentOf(leaf string) ParentID {
	key := normalize(leaf)
	if id, ok := leafParents[key]; ok {
		return id
	}
	if id, ok := t.extra[key]; ok {
		return id
	}
	return ParentOther
}

// Fingerprint identifies the table's user extensions for cache keying.
// The static table never changes at runtime, so extensions are the only
// variable part.
func (t Table) Fingerprint() string {
	if len(t.extra) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t.extra))
	for k := range t.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(string(t.extra[k]))
		sb.WriteByte(';')
	}
	return sb.String()
}

func normalize(leaf string) string {
	return strings.ToLower(strings.TrimSpace(leaf))
}
