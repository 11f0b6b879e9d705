package input

import (
	"sort"
	"strings"
	"time"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceTerminal
)

// Action represents a high‑level intent of the person curating maps.
type Action int

const (
	ActionNone Action = iota

	ActionQuit
	ActionRegenerate
	ActionFastForward
	ActionSelectBetter // move the selection toward the fittest map
	ActionSelectWorse
	ActionScreenshot
	ActionHelp
)

// Intent is the 4th‑layer, high‑level description of what the user wants to do.
type Intent struct {
	Action Action
}

// RawInput is the 1st‑layer event emitted directly from an input device.
// Code is a device‑specific identifier (e.g. "space", "arrow_up", "f9").
type RawInput struct {
	Device    Device
	Code      string
	Timestamp time.Time
}

// DebouncedInput is the 2nd‑layer representation after debouncing/deduplication.
// Both hosts already report each key press once (Ebiten's just-pressed
// state, terminal raw mode), so this stays a distinct but thin type.
type DebouncedInput struct {
	Device Device
	Code   string
}

// NewDebouncedInput converts a raw event to a debounced event.
func NewDebouncedInput(raw RawInput) DebouncedInput {
	return DebouncedInput{
		Device: raw.Device,
		Code:   raw.Code,
	}
}

// bindings maps raw codes to actions (3rd-layer bindings).
// Multiple codes may point to the same Action.
var bindings = map[string]Action{
	"q":      ActionQuit,
	"escape": ActionQuit,
	"ctrl_c": ActionQuit,

	"space": ActionRegenerate,
	"r":     ActionRegenerate,

	"f": ActionFastForward,

	"arrow_up":   ActionSelectBetter,
	"k":          ActionSelectBetter,
	"arrow_down": ActionSelectWorse,
	"j":          ActionSelectWorse,

	"f9": ActionScreenshot,
	"s":  ActionScreenshot,

	"?": ActionHelp,
	"h": ActionHelp,
}

// MapToIntent is the 3rd+4th layer: it applies the bindings to a
// debounced input and returns a high‑level Intent.
func MapToIntent(ev DebouncedInput) Intent {
	if act, ok := bindings[ev.Code]; ok {
		return Intent{Action: act}
	}
	return Intent{Action: ActionNone}
}

// Resolve runs a raw code through every layer
func Resolve(device Device, code string) Action {
	raw := RawInput{Device: device, Code: code, Timestamp: time.Now()}
	return MapToIntent(NewDebouncedInput(raw)).Action
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionQuit:
		return "Quit"
	case ActionRegenerate:
		return "Regenerate"
	case ActionFastForward:
		return "Fast-forward"
	case ActionSelectBetter:
		return "Select better"
	case ActionSelectWorse:
		return "Select worse"
	case ActionScreenshot:
		return "Screenshot"
	case ActionHelp:
		return "Help"
	default:
		return "None"
	}
}

// GetBindingsByAction returns the bindings grouped by action.
func GetBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Ensure stable ordering of codes within each action so help text doesn't shuffle.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}

// HelpText lists every bound action with its codes, in action order
func HelpText() string {
	byAction := GetBindingsByAction()
	var parts []string
	for act := ActionQuit; act <= ActionHelp; act++ {
		codes, ok := byAction[act]
		if !ok {
			continue
		}
		parts = append(parts, ActionName(act)+": "+strings.Join(codes, "/"))
	}
	return strings.Join(parts, "  ")
}
