package config

import "slices"

// presetNames lists the view presets in display order.
var presetNames = []string{"full", "summary", "variance", "ownership"}

// Presets returns the known view preset names.
func Presets() []string { return slices.Clone(presetNames) }

// KnownPreset reports whether name is a view preset.
func KnownPreset(name string) bool { return slices.Contains(presetNames, name) }

// PresetColumns returns the column IDs shown by a view preset. A nil result
// means every configured column. Unknown names fall back to "full".
//
//	summary:   account department budget actual variance
//	variance:  account period variance variancePct status
//	ownership: account department owner status
func PresetColumns(name string) []string {
	switch name {
	case "summary":
		return []string{"account", "department", "budget", "actual", "variance"}
	case "variance":
		return []string{"account", "period", "variance", "variancePct", "status"}
	case "ownership":
		return []string{"account", "department", "owner", "status"}
	default:
		return nil
	}
}
