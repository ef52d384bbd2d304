package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/opd-ai/go-orrery/pkg/engine"
)

func TestValidateBodyName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantErr     bool
		errContains string
	}{
		{name: "simple", input: "Earth", want: "Earth"},
		{name: "with space", input: "Alpha I", want: "Alpha I"},
		{name: "trimmed", input: "  Mars  ", want: "Mars"},
		{name: "empty", input: "", wantErr: true, errContains: "cannot be empty"},
		{name: "only whitespace", input: "   ", wantErr: true, errContains: "cannot be empty"},
		{name: "too long", input: strings.Repeat("a", MaxBodyNameLen+1), wantErr: true, errContains: "too long"},
		{name: "markup", input: "<script>", wantErr: true, errContains: "invalid characters"},
		{name: "control character", input: "Ea\x00rth", wantErr: true, errContains: "invalid characters"},
		{name: "invalid utf8", input: "\xff", wantErr: true, errContains: "UTF-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateBodyName(tt.input)
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("ValidateBodyName(%q) error = %v, want containing %q", tt.input, err, tt.errContains)
				}
				if !errors.Is(err, engine.ErrInvalidCommand) {
					t.Errorf("error %v should wrap ErrInvalidCommand", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ValidateBodyName(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestValidateScaleAndSpeed(t *testing.T) {
	tests := []struct {
		name    string
		check   func(float64) error
		value   float64
		wantErr bool
	}{
		{"scale one", ValidateScale, 1, false},
		{"scale max", ValidateScale, MaxScale, false},
		{"scale zero", ValidateScale, 0, true},
		{"scale above max", ValidateScale, MaxScale + 1, true},
		{"scale NaN", ValidateScale, math.NaN(), true},
		{"speed zero", ValidateSpeed, 0, false},
		{"speed max", ValidateSpeed, MaxSpeed, false},
		{"speed negative", ValidateSpeed, -1, true},
		{"speed infinite", ValidateSpeed, math.Inf(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCommandValidator_Decode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  engine.Command
	}{
		{"visibility", `{"type":"set_visibility","group":"planets","enabled":false}`, engine.SetVisibility{Group: engine.GroupPlanets, Visible: false}},
		{"frozen", `{"type":"set_frozen","group":"star","enabled":true}`, engine.SetFrozen{Group: engine.GroupStar, Frozen: true}},
		{"labels", `{"type":"set_label_visibility","group":"satellites","enabled":true}`, engine.SetLabelVisibility{Group: engine.GroupSatellites, Visible: true}},
		{"orbit display", `{"type":"set_orbit_display","group":"planets","mode":"traces"}`, engine.SetOrbitDisplay{Group: engine.GroupPlanets, Mode: engine.OrbitTraces}},
		{"scale", `{"type":"set_scale","group":"planets","value":2.5}`, engine.SetScale{Group: engine.GroupPlanets, Scale: 2.5}},
		{"start", `{"type":"set_starting_body","body":" Earth "}`, engine.SetStartingBody{Body: "Earth"}},
		{"destination", `{"type":"set_destination_body","body":"Mars"}`, engine.SetDestinationBody{Body: "Mars"}},
		{"journey", `{"type":"begin_journey"}`, engine.BeginJourney{}},
		{"belts visible", `{"type":"set_belts_visible","enabled":true}`, engine.SetBeltsVisible{Visible: true}},
		{"belts static", `{"type":"set_belts_static","enabled":true}`, engine.SetBeltsStatic{Static: true}},
		{"simulating", `{"type":"set_simulating","enabled":false}`, engine.SetSimulating{Running: false}},
		{"cycle", `{"type":"cycle_target","enabled":true}`, engine.CycleTarget{Forward: true}},
		{"speed", `{"type":"set_simulation_speed","value":3600}`, engine.SetSimulationSpeed{Speed: 3600}},
	}

	v := NewCommandValidator(1000, 1000, 0)
	defer v.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Decode([]byte(tt.input), "client")
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCommandValidator_DecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{type`},
		{"unknown field", `{"type":"begin_journey","extra":1}`},
		{"unknown type", `{"type":"self_destruct"}`},
		{"missing enabled", `{"type":"set_visibility","group":"planets"}`},
		{"bad group", `{"type":"set_frozen","group":"comets","enabled":true}`},
		{"bad mode", `{"type":"set_orbit_display","group":"planets","mode":"dotted"}`},
		{"missing value", `{"type":"set_scale","group":"planets"}`},
		{"scale range", `{"type":"set_scale","group":"planets","value":500}`},
		{"speed range", `{"type":"set_simulation_speed","value":-5}`},
		{"bad body", `{"type":"set_starting_body","body":"<b>"}`},
		{"too large", `{"type":"begin_journey","body":"` + strings.Repeat("a", MaxMessageSize) + `"}`},
	}

	v := NewCommandValidator(1000, 1000, 0)
	defer v.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Decode([]byte(tt.input), "client")
			if !errors.Is(err, engine.ErrInvalidCommand) {
				t.Errorf("Decode() error = %v, want ErrInvalidCommand", err)
			}
		})
	}
}

func TestCommandValidator_RateLimit(t *testing.T) {
	v := NewCommandValidator(0.001, 2, 0)
	defer v.Close()

	msg := []byte(`{"type":"begin_journey"}`)
	for i := 0; i < 2; i++ {
		if _, err := v.Decode(msg, "a"); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
	if _, err := v.Decode(msg, "a"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("third request error = %v, want ErrRateLimited", err)
	}
	if _, err := v.Decode(msg, "b"); err != nil {
		t.Errorf("other client should not be limited: %v", err)
	}
}

func TestRateLimiter_RemovesIdleClients(t *testing.T) {
	rl := NewRateLimiter(10, 10, time.Minute)
	defer rl.Close()

	rl.Allow("a")
	rl.Allow("b")
	if rl.Clients() != 2 {
		t.Fatalf("Clients() = %d, want 2", rl.Clients())
	}

	rl.removeInactiveClients(time.Now().Add(2 * time.Minute))
	if rl.Clients() != 0 {
		t.Errorf("Clients() = %d after cleanup, want 0", rl.Clients())
	}
}

func TestRateLimiter_CloseTwice(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Second)
	rl.Close()
	rl.Close()
}
