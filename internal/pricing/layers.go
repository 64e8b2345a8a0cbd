package pricing

// LayerField selects which per-layer value an absolute entry refers to.
type LayerField string

const (
	LayerCoverage    LayerField = "coverage"
	LayerDailyOutput LayerField = "dailyOutput"
)

// EffectiveLayer holds the compounded coverage and output of one layer.
type EffectiveLayer struct {
	Index       int     `json:"index"`
	Coverage    float64 `json:"coverage"`
	DailyOutput float64 `json:"dailyOutput"`
}

// ValidateLayers checks the storage contract: layer 0 carries absolute values
// only, later layers carry percentage deltas only.
func ValidateLayers(settings []LayerSetting) error {
	for i, s := range settings {
		if !finite(s.Coverage) || !finite(s.DailyOutput) || !finite(s.CoverageChangePercent) || !finite(s.OutputChangePercent) {
			return invalid("layerSettings", "values must be numeric")
		}
		if i == 0 {
			if s.CoverageChangePercent != 0 || s.OutputChangePercent != 0 {
				return invalid("layerSettings[0]", "base layer must not carry percentage deltas")
			}
			continue
		}
		if s.Coverage != 0 || s.DailyOutput != 0 {
			return invalid("layerSettings", "layers after the base layer must store percentage deltas, not absolute values")
		}
	}
	return nil
}

// EffectiveLayers compounds the stored deltas into effective values for the
// first n layers. effective(i) = effective(i-1) * (1 + delta_i/100). Layers
// past the end of settings inherit the previous effective values.
func EffectiveLayers(settings []LayerSetting, n int) []EffectiveLayer {
	if len(settings) == 0 || n <= 0 {
		return nil
	}

	out := make([]EffectiveLayer, n)
	coverage := settings[0].Coverage
	output := settings[0].DailyOutput
	out[0] = EffectiveLayer{Index: 0, Coverage: coverage, DailyOutput: output}
	for i := 1; i < n; i++ {
		if i < len(settings) {
			coverage *= 1 + settings[i].CoverageChangePercent/100
			output *= 1 + settings[i].OutputChangePercent/100
		}
		out[i] = EffectiveLayer{Index: i, Coverage: coverage, DailyOutput: output}
	}
	return out
}

// AbsoluteToDelta converts an absolute value typed for layer index >= 1 into the
// percentage delta that storage keeps, relative to the preceding layer's
// effective value. It is 0 when that value is not positive.
func AbsoluteToDelta(settings []LayerSetting, index int, field LayerField, absolute float64) (float64, error) {
	if index < 1 || index >= len(settings) {
		return 0, invalid("layerIndex", "must address a stored layer after the base layer")
	}
	if field != LayerCoverage && field != LayerDailyOutput {
		return 0, invalid("layerField", "must be coverage or dailyOutput")
	}
	if !finite(absolute) {
		return 0, invalid("layerValue", "must be numeric")
	}

	prev := EffectiveLayers(settings, index)[index-1]
	prevValue := prev.Coverage
	if field == LayerDailyOutput {
		prevValue = prev.DailyOutput
	}
	if prevValue <= 0 {
		return 0, nil
	}
	return (absolute/prevValue - 1) * 100, nil
}

// SetLayerAbsolute stores an absolute value typed for one layer and returns a
// copy of settings. The base layer keeps the value as is; later layers store it
// through AbsoluteToDelta.
func SetLayerAbsolute(settings []LayerSetting, index int, field LayerField, absolute float64) ([]LayerSetting, error) {
	if index == 0 && len(settings) > 0 {
		if field != LayerCoverage && field != LayerDailyOutput {
			return nil, invalid("layerField", "must be coverage or dailyOutput")
		}
		if !finite(absolute) {
			return nil, invalid("layerValue", "must be numeric")
		}
		out := append([]LayerSetting(nil), settings...)
		if field == LayerCoverage {
			out[0].Coverage = absolute
		} else {
			out[0].DailyOutput = absolute
		}
		return out, nil
	}

	delta, err := AbsoluteToDelta(settings, index, field, absolute)
	if err != nil {
		return nil, err
	}
	out := append([]LayerSetting(nil), settings...)
	if field == LayerCoverage {
		out[index].CoverageChangePercent = delta
	} else {
		out[index].OutputChangePercent = delta
	}
	return out, nil
}
