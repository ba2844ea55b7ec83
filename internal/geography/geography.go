// Package geography holds the static administrative hierarchy of Kigali:
// district -> sector -> cells. The table is compiled in, read-only and safe
// for concurrent use; every subscription write validates its area/location/
// cell triple against it.
package geography

import (
	"fmt"
	"sort"
	"strings"
)

// LocationError reports which part of a district/sector/cell triple failed
// validation, together with the accepted alternatives.
type LocationError struct {
	Field string   // "area", "location" or "cell"
	Value string   // the rejected value
	Valid []string // accepted values for this field
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("invalid %s %q, must be one of: %s",
		e.Field, e.Value, strings.Join(e.Valid, ", "))
}

// kigali maps each district to its sectors, and each sector to its cells.
var kigali = map[string]map[string][]string{
	"Gasabo": {
		"Bumbogo":    {"Bumbogo", "Gitega", "Munyiginya", "Ruhanga"},
		"Gatsata":    {"Cyahafi", "Gatsata", "Karama", "Karuruma", "Rutunga"},
		"Gikomero":   {"Bibare", "Bwiza", "Cyungo", "Gikomero", "Murambi"},
		"Gisozi":     {"Akabuga", "Duhozanye", "Gahanga", "Gisozi", "Kinyange"},
		"Jabana":     {"Gasave", "Jabana", "Nyagasambu", "Rugengabari", "Rusoro"},
		"Jali":       {"Bugarama", "Cyeru", "Jali", "Musenyi", "Nyamirambo"},
		"Kacyiru":    {"Kamatamu", "Kacyiru", "Kabutare", "Kiyovu", "Rugenge"},
		"Kimihurura": {"Biryogo", "Gitega", "Kimihurura", "Nyakabanda", "Rwezamenyo"},
		"Kimisagara": {"Cyahafi", "Kimisagara", "Nyabugogo", "Rugenge", "Rwampara"},
		"Kinyinya":   {"Gahanga", "Kagugu", "Kinyinya", "Mulindi", "Runda"},
		"Ndera":      {"Gahanga", "Kagugu", "Ndera", "Rusororo", "Shyorongi"},
		"Nduba":      {"Gasogi", "Nduba", "Rusororo", "Shyorongi", "Zivu"},
		"Remera":     {"Gisozi", "Remera", "Rukiri", "Rwandex", "Urugwiro"},
		"Rusororo":   {"Gasogi", "Rusororo", "Shyorongi", "Zivu"},
		"Rutunga":    {"Gasave", "Rugengabari", "Rutunga", "Rusoro"},
	},
	"Kicukiro": {
		"Gahanga":    {"Buye", "Gahanga", "Gitega", "Ruhanga", "Shyogwe"},
		"Gatenga":    {"Gatenga", "Kagarama", "Kanombe", "Kinyinya"},
		"Gikondo":    {"Gikondo", "Nyarugunga", "Rebero", "Rugenge"},
		"Kagarama":   {"Kagarama", "Kanombe", "Kinyinya", "Niboye"},
		"Kanombe":    {"Busoro", "Kagarama", "Kanombe", "Nyarugunga"},
		"Kicukiro":   {"Gahanga", "Kagarama", "Kicukiro", "Niboye"},
		"Niboye":     {"Gatenga", "Kagarama", "Niboye", "Nyarugunga"},
		"Nyarugunga": {"Gikondo", "Nyarugunga", "Rebero", "Rugenge"},
	},
	"Nyarugenge": {
		"Gitega":     {"Gitega", "Rugenge", "Rwezamenyo", "Nyakabanda"},
		"Kanyinya":   {"Gasave", "Kanyinya", "Rugengabari", "Rusoro"},
		"Kigali":     {"Biryogo", "Nyabugogo", "Nyamirambo", "Rugenge"},
		"Kimisagara": {"Kimisagara", "Nyabugogo", "Rugenge", "Rwampara"},
		"Mageragere": {"Kamatamu", "Mageragere", "Nyarugunga", "Rugenge"},
		"Muhima":     {"Gitega", "Muhima", "Rugenge", "Rwezamenyo"},
		"Nyabugogo":  {"Cyahafi", "Nyabugogo", "Rugenge", "Rwampara"},
		"Nyakabanda": {"Gitega", "Nyakabanda", "Rugenge", "Rwezamenyo"},
		"Nyamirambo": {"Biryogo", "Nyamirambo", "Rugenge", "Rwampara"},
		"Nyarugenge": {"Gitega", "Nyarugenge", "Rugenge", "Rwezamenyo"},
		"Rwezamenyo": {"Gitega", "Rugenge", "Rwezamenyo", "Nyakabanda"},
	},
}

// Districts returns the district names in ascending order.
func Districts() []string {
	out := make([]string, 0, len(kigali))
	for d := range kigali {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Sectors returns the sector names of a district in ascending order,
// or an empty slice when the district is unknown.
func Sectors(district string) []string {
	sectors, ok := kigali[district]
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(sectors))
	for s := range sectors {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Cells returns the cell names of a district/sector pair, or an empty slice
// when either key is unknown.
func Cells(district, sector string) []string {
	sectors, ok := kigali[district]
	if !ok {
		return []string{}
	}
	cells, ok := sectors[sector]
	if !ok {
		return []string{}
	}
	out := make([]string, len(cells))
	copy(out, cells)
	return out
}

// All returns a copy of the whole hierarchy for the /geographic/all endpoint.
func All() map[string]map[string][]string {
	out := make(map[string]map[string][]string, len(kigali))
	for d, sectors := range kigali {
		ds := make(map[string][]string, len(sectors))
		for s, cells := range sectors {
			cs := make([]string, len(cells))
			copy(cs, cells)
			ds[s] = cs
		}
		out[d] = ds
	}
	return out
}

// Validate checks a district/sector/cell triple, short-circuiting at the
// first failure. An empty cell is accepted: the cell is optional.
func Validate(area, location, cell string) error {
	sectors, ok := kigali[area]
	if !ok {
		return &LocationError{Field: "area", Value: area, Valid: Districts()}
	}
	cells, ok := sectors[location]
	if !ok {
		return &LocationError{Field: "location", Value: location, Valid: Sectors(area)}
	}
	if cell == "" {
		return nil
	}
	for _, c := range cells {
		if c == cell {
			return nil
		}
	}
	return &LocationError{Field: "cell", Value: cell, Valid: Cells(area, location)}
}
