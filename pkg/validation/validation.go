// Package validation checks control requests before they reach the
// simulation.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/opd-ai/go-orrery/pkg/engine"
)

// Request limits
const (
	MaxMessageSize = 4 * 1024
	MaxBodyNameLen = 32
	MaxScale       = 100.0
	MaxSpeed       = 1e9
)

// ErrRateLimited is returned when a client sends commands too quickly.
var ErrRateLimited = errors.New("rate limit exceeded")

// Body names may hold letters, digits, spaces and a little punctuation.
var validBodyNameChars = regexp.MustCompile(`^[a-zA-Z0-9 \-_.']+$`)

// CommandRequest is the wire form of a control command.
type CommandRequest struct {
	Type    string   `json:"type"`
	Group   string   `json:"group,omitempty"`
	Body    string   `json:"body,omitempty"`
	Mode    string   `json:"mode,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
	Value   *float64 `json:"value,omitempty"`
}

// CommandValidator decodes, checks and rate-limits command requests.
type CommandValidator struct {
	rateLimiter *RateLimiter
	maxSize     int64
}

// NewCommandValidator allows perSecond commands per client with the given
// burst. Requests larger than maxSize bytes are refused; zero means
// MaxMessageSize.
func NewCommandValidator(perSecond float64, burst int, maxSize int64) *CommandValidator {
	if maxSize <= 0 {
		maxSize = MaxMessageSize
	}
	return &CommandValidator{
		rateLimiter: NewRateLimiter(perSecond, burst, time.Minute),
		maxSize:     maxSize,
	}
}

// Close releases resources used by the validator
func (v *CommandValidator) Close() {
	if v.rateLimiter != nil {
		v.rateLimiter.Close()
	}
}

// Decode validates a raw request from clientID and turns it into a command.
func (v *CommandValidator) Decode(data []byte, clientID string) (engine.Command, error) {
	if int64(len(data)) > v.maxSize {
		return nil, fmt.Errorf("%w: message too large: %d bytes (max %d)", engine.ErrInvalidCommand, len(data), v.maxSize)
	}

	if !v.rateLimiter.Allow(clientID) {
		return nil, ErrRateLimited
	}

	var req CommandRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON format: %v", engine.ErrInvalidCommand, err)
	}

	return req.Command()
}

// Command checks the request fields and builds the matching command.
func (r CommandRequest) Command() (engine.Command, error) {
	switch r.Type {
	case "set_visibility", "set_frozen", "set_label_visibility":
		g, on, err := r.groupAndFlag()
		if err != nil {
			return nil, err
		}
		switch r.Type {
		case "set_visibility":
			return engine.SetVisibility{Group: g, Visible: on}, nil
		case "set_frozen":
			return engine.SetFrozen{Group: g, Frozen: on}, nil
		default:
			return engine.SetLabelVisibility{Group: g, Visible: on}, nil
		}

	case "set_orbit_display":
		g, err := engine.ParseGroup(r.Group)
		if err != nil {
			return nil, err
		}
		m, err := engine.ParseOrbitMode(r.Mode)
		if err != nil {
			return nil, err
		}
		return engine.SetOrbitDisplay{Group: g, Mode: m}, nil

	case "set_scale":
		g, err := engine.ParseGroup(r.Group)
		if err != nil {
			return nil, err
		}
		scale, err := r.value()
		if err != nil {
			return nil, err
		}
		if err := ValidateScale(scale); err != nil {
			return nil, err
		}
		return engine.SetScale{Group: g, Scale: scale}, nil

	case "set_starting_body", "set_destination_body":
		name, err := ValidateBodyName(r.Body)
		if err != nil {
			return nil, err
		}
		if r.Type == "set_starting_body" {
			return engine.SetStartingBody{Body: name}, nil
		}
		return engine.SetDestinationBody{Body: name}, nil

	case "begin_journey":
		return engine.BeginJourney{}, nil

	case "set_belts_visible", "set_belts_static", "set_simulating", "cycle_target":
		on, err := r.flag()
		if err != nil {
			return nil, err
		}
		switch r.Type {
		case "set_belts_visible":
			return engine.SetBeltsVisible{Visible: on}, nil
		case "set_belts_static":
			return engine.SetBeltsStatic{Static: on}, nil
		case "set_simulating":
			return engine.SetSimulating{Running: on}, nil
		default:
			return engine.CycleTarget{Forward: on}, nil
		}

	case "set_simulation_speed":
		speed, err := r.value()
		if err != nil {
			return nil, err
		}
		if err := ValidateSpeed(speed); err != nil {
			return nil, err
		}
		return engine.SetSimulationSpeed{Speed: speed}, nil
	}

	return nil, fmt.Errorf("%w: unknown command type %q", engine.ErrInvalidCommand, r.Type)
}

func (r CommandRequest) groupAndFlag() (engine.Group, bool, error) {
	g, err := engine.ParseGroup(r.Group)
	if err != nil {
		return 0, false, err
	}
	on, err := r.flag()
	return g, on, err
}

func (r CommandRequest) flag() (bool, error) {
	if r.Enabled == nil {
		return false, fmt.Errorf("%w: %s requires enabled", engine.ErrInvalidCommand, r.Type)
	}
	return *r.Enabled, nil
}

func (r CommandRequest) value() (float64, error) {
	if r.Value == nil {
		return 0, fmt.Errorf("%w: %s requires value", engine.ErrInvalidCommand, r.Type)
	}
	return *r.Value, nil
}

// ValidateBodyName checks and trims a body name.
func ValidateBodyName(name string) (string, error) {
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: body name contains invalid UTF-8 characters", engine.ErrInvalidCommand)
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: body name cannot be empty", engine.ErrInvalidCommand)
	}

	if len(trimmed) > MaxBodyNameLen {
		return "", fmt.Errorf("%w: body name too long: %d characters (max %d)", engine.ErrInvalidCommand, len(trimmed), MaxBodyNameLen)
	}

	if !validBodyNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("%w: body name contains invalid characters", engine.ErrInvalidCommand)
	}

	return trimmed, nil
}

// ValidateScale accepts scales in (0, MaxScale].
func ValidateScale(scale float64) error {
	if !(scale > 0 && scale <= MaxScale) {
		return fmt.Errorf("%w: scale %v out of range (0, %v]", engine.ErrInvalidCommand, scale, MaxScale)
	}
	return nil
}

// ValidateSpeed accepts simulation speeds in [0, MaxSpeed].
func ValidateSpeed(speed float64) error {
	if !(speed >= 0 && speed <= MaxSpeed) {
		return fmt.Errorf("%w: speed %v out of range [0, %v]", engine.ErrInvalidCommand, speed, MaxSpeed)
	}
	return nil
}
