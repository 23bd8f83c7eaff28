package model

import (
	"math"

	"github.com/rotisserie/eris"
)

// MonsterSummary is a lightweight catalog reference to a monster.
type MonsterSummary struct {
	Index string `json:"index"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// CatalogResponse is the raw monster list payload. Count is reported by the
// server and is not validated against len(Results).
type CatalogResponse struct {
	Count   int              `json:"count"`
	Results []MonsterSummary `json:"results"`
}

// Action is a single monster action in the normalized schema.
type Action struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Monster is the normalized detail record. HitPoints and ArmorClass are nil
// when the source field was null or missing entirely; 0 is a real value and
// is preserved. Field order here fixes the serialized field order.
type Monster struct {
	Name       string   `json:"name"`
	HitPoints  *int     `json:"hit_points"`
	ArmorClass *int     `json:"armor_class"`
	Actions    []Action `json:"actions"`
}

// NormalizeMonster maps a raw detail payload into the normalized schema.
//
// name defaults to "" when absent. hit_points keeps the raw value, with both
// explicit null and a missing key collapsing to nil. armor_class accepts a
// non-empty list of objects (first entry's "value"), or a bare non-zero
// integer; anything else falls through to nil. actions entries map to
// {name, desc} with missing subfields defaulting to ""; an actions entry
// that is not an object is a normalization error.
func NormalizeMonster(raw map[string]any) (Monster, error) {
	m := Monster{
		Actions: []Action{},
	}

	if name, ok := raw["name"].(string); ok {
		m.Name = name
	}

	if hp, ok := raw["hit_points"]; ok {
		if n, ok := intValue(hp); ok {
			m.HitPoints = &n
		}
	}

	m.ArmorClass = normalizeArmorClass(raw["armor_class"])

	if rawActions, ok := raw["actions"].([]any); ok {
		for i, entry := range rawActions {
			obj, ok := entry.(map[string]any)
			if !ok {
				return Monster{}, eris.Errorf("normalize: actions[%d] is not an object", i)
			}
			var a Action
			if name, ok := obj["name"].(string); ok {
				a.Name = name
			}
			if desc, ok := obj["desc"].(string); ok {
				a.Desc = desc
			}
			m.Actions = append(m.Actions, a)
		}
	}

	return m, nil
}

// normalizeArmorClass handles the three accepted armor_class shapes.
func normalizeArmorClass(v any) *int {
	switch ac := v.(type) {
	case []any:
		if len(ac) == 0 {
			return nil
		}
		obj, ok := ac[0].(map[string]any)
		if !ok {
			return nil
		}
		if n, ok := intValue(obj["value"]); ok {
			return &n
		}
		return nil
	case float64:
		// A bare zero is falsy in the source schema and reads as absent;
		// zero inside the object-list shape stays a real value.
		if n, ok := intValue(ac); ok && n != 0 {
			return &n
		}
		return nil
	default:
		return nil
	}
}

// intValue extracts an integral JSON number. Non-integral or non-numeric
// values report false.
func intValue(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
