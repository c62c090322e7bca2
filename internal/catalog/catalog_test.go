package catalog

import (
	"testing"

	"github.com/j-veylop/uranus/internal/models"
)

func TestDefault(t *testing.T) {
	c := Default()

	if c.Len() != 6 {
		t.Fatalf("Default() has %d models, want 6", c.Len())
	}

	ids := c.IDs()
	if ids[0] != "gemini-3-flash-preview" || ids[5] != "gemini-2.5-flash" {
		t.Errorf("IDs() order = %v", ids)
	}

	pro, ok := c.Lookup("gemini-2.5-pro")
	if !ok {
		t.Fatal("Lookup(gemini-2.5-pro) not found")
	}
	if pro.Label != "Gemini 2.5 Pro" {
		t.Errorf("Label = %q, want %q", pro.Label, "Gemini 2.5 Pro")
	}
	if pro.Type != models.ModelTypeText {
		t.Errorf("Type = %q, want text", pro.Type)
	}
	if pro.InputCostPerMillion != 1.25 || pro.OutputCostPerMillion != 10 {
		t.Errorf("costs = %v/%v, want 1.25/10", pro.InputCostPerMillion, pro.OutputCostPerMillion)
	}

	audio, ok := c.Lookup("gemini-3-pro-native-audio-preview")
	if !ok || audio.Type != models.ModelTypeNativeAudio {
		t.Errorf("native audio model = %+v, %v", audio, ok)
	}

	if _, ok := c.Lookup(DefaultModelID); !ok {
		t.Errorf("default model %q missing from catalog", DefaultModelID)
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, ok := Default().Lookup("gpt-unknown"); ok {
		t.Error("Lookup() should report unknown model as not found")
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Label = "mutated"

	d, _ := c.Lookup(all[0].ID)
	if d.Label == "mutated" {
		t.Error("All() should not expose internal storage")
	}
	if c.All()[0].Label == "mutated" {
		t.Error("All() should return a fresh copy")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "models: [::"},
		{"duplicate id", `
models:
  - {id: a, label: A, type: text}
  - {id: a, label: B, type: text}
`},
		{"unknown type", `
models:
  - {id: a, label: A, type: video}
`},
		{"negative price", `
models:
  - {id: a, label: A, type: text, input_cost_per_1m: -1}
`},
		{"empty id", `
models:
  - {label: A, type: text}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() should fail")
			}
		})
	}
}

func TestNew_DefaultsLabelToID(t *testing.T) {
	c, err := New([]models.ModelDescriptor{{ID: "m1", Type: models.ModelTypeText}})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	d, _ := c.Lookup("m1")
	if d.Label != "m1" {
		t.Errorf("Label = %q, want m1", d.Label)
	}
}
