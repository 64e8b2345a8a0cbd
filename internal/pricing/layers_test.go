package pricing

import (
	"errors"
	"testing"
)

func sampleLayers() []LayerSetting {
	return []LayerSetting{
		{Coverage: 10, DailyOutput: 20},
		{CoverageChangePercent: 20, OutputChangePercent: 20},
		{CoverageChangePercent: -10},
	}
}

func TestEffectiveLayers_Compounds(t *testing.T) {
	settings := sampleLayers()
	eff := EffectiveLayers(settings, 4)
	if len(eff) != 4 {
		t.Fatalf("len = %d, want 4", len(eff))
	}

	nearlyEqual(t, "coverage[0]", eff[0].Coverage, settings[0].Coverage)
	nearlyEqual(t, "output[0]", eff[0].DailyOutput, settings[0].DailyOutput)
	for i := 1; i < len(settings); i++ {
		nearlyEqual(t, "coverage invariant", eff[i].Coverage, eff[i-1].Coverage*(1+settings[i].CoverageChangePercent/100))
		nearlyEqual(t, "output invariant", eff[i].DailyOutput, eff[i-1].DailyOutput*(1+settings[i].OutputChangePercent/100))
	}

	nearlyEqual(t, "coverage[1]", eff[1].Coverage, 12)
	nearlyEqual(t, "output[1]", eff[1].DailyOutput, 24)
	nearlyEqual(t, "coverage[2]", eff[2].Coverage, 10.8)
	nearlyEqual(t, "output[2]", eff[2].DailyOutput, 24)
	nearlyEqual(t, "coverage[3] inherits", eff[3].Coverage, 10.8)
}

func TestEffectiveLayers_Empty(t *testing.T) {
	if got := EffectiveLayers(nil, 3); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestAbsoluteToDelta(t *testing.T) {
	settings := sampleLayers()

	delta, err := AbsoluteToDelta(settings, 1, LayerCoverage, 15)
	if err != nil {
		t.Fatalf("AbsoluteToDelta: %v", err)
	}
	nearlyEqual(t, "coverage delta", delta, 50)

	delta, err = AbsoluteToDelta(settings, 2, LayerDailyOutput, 12)
	if err != nil {
		t.Fatalf("AbsoluteToDelta: %v", err)
	}
	nearlyEqual(t, "output delta", delta, -50)

	delta, err = AbsoluteToDelta([]LayerSetting{{DailyOutput: 20}, {}}, 1, LayerCoverage, 5)
	if err != nil {
		t.Fatalf("AbsoluteToDelta: %v", err)
	}
	nearlyEqual(t, "delta against zero base", delta, 0)

	if _, err := AbsoluteToDelta(settings, 0, LayerCoverage, 5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("base layer err = %v, want ErrInvalidInput", err)
	}
	if _, err := AbsoluteToDelta(settings, 1, LayerField("width"), 5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown field err = %v, want ErrInvalidInput", err)
	}
}

func TestSetLayerAbsolute_RoundTrips(t *testing.T) {
	settings := sampleLayers()

	out, err := SetLayerAbsolute(settings, 2, LayerCoverage, 9)
	if err != nil {
		t.Fatalf("SetLayerAbsolute: %v", err)
	}
	nearlyEqual(t, "effective coverage[2]", EffectiveLayers(out, 3)[2].Coverage, 9)
	nearlyEqual(t, "stored absolute stays zero", out[2].Coverage, 0)
	nearlyEqual(t, "input untouched", settings[2].CoverageChangePercent, -10)
	if err := ValidateLayers(out); err != nil {
		t.Fatalf("ValidateLayers: %v", err)
	}

	out, err = SetLayerAbsolute(settings, 0, LayerDailyOutput, 30)
	if err != nil {
		t.Fatalf("SetLayerAbsolute base: %v", err)
	}
	nearlyEqual(t, "base output", out[0].DailyOutput, 30)
	nearlyEqual(t, "layer 1 follows base", EffectiveLayers(out, 2)[1].DailyOutput, 36)
}

func TestValidateLayers(t *testing.T) {
	cases := []struct {
		name    string
		layers  []LayerSetting
		wantErr bool
	}{
		{"well formed", sampleLayers(), false},
		{"empty", nil, false},
		{"base carries delta", []LayerSetting{{Coverage: 10, DailyOutput: 20, CoverageChangePercent: 5}}, true},
		{"later layer carries absolute", []LayerSetting{{Coverage: 10, DailyOutput: 20}, {Coverage: 12}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLayers(tc.layers)
			if tc.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}
