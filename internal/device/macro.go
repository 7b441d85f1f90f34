package device

// MacroEventType identifies one step in a button macro.
type MacroEventType uint32

const (
	MacroEventNone MacroEventType = iota
	MacroEventKeyPressed
	MacroEventKeyReleased
	MacroEventWait
)

// MaxMacroEvents is the event capacity of a macro. Longer sequences are
// truncated on assignment rather than rejected.
const MaxMacroEvents = 256

// MacroEvent is a single macro step. Value holds a keycode for press
// and release events, or a duration in milliseconds for waits.
type MacroEvent struct {
	Type  MacroEventType
	Value uint32
}

// Macro is a key event sequence assignable to a button.
type Macro struct {
	Name   string
	events []MacroEvent
}

// NewMacro creates a macro from the given events, truncating the
// sequence at MaxMacroEvents. The events are copied.
func NewMacro(name string, events []MacroEvent) *Macro {
	if len(events) > MaxMacroEvents {
		events = events[:MaxMacroEvents]
	}
	m := &Macro{Name: name}
	m.events = make([]MacroEvent, len(events))
	copy(m.events, events)
	return m
}

// Events returns the macro's event sequence. The slice is shared;
// callers must not modify it.
func (m *Macro) Events() []MacroEvent {
	return m.events
}

// Len returns the number of events in the macro.
func (m *Macro) Len() int {
	return len(m.events)
}

// MacroFromKeycode builds the canonical macro for a key press with held
// modifiers: modifier presses in canonical order, the key press and
// release, then the modifier releases in the same order.
func MacroFromKeycode(key uint32, mods Modifiers) *Macro {
	events := make([]MacroEvent, 0, 2+2*len(modifierKeys))
	for _, mk := range modifierKeys {
		if mods&mk.mod != 0 {
			events = append(events, MacroEvent{MacroEventKeyPressed, mk.key})
		}
	}
	events = append(events,
		MacroEvent{MacroEventKeyPressed, key},
		MacroEvent{MacroEventKeyReleased, key},
	)
	for _, mk := range modifierKeys {
		if mods&mk.mod != 0 {
			events = append(events, MacroEvent{MacroEventKeyReleased, mk.key})
		}
	}
	return NewMacro("", events)
}

// KeycodeFromMacro reduces a macro back to a (keycode, modifiers) pair.
// It accepts any macro of the shape produced by MacroFromKeycode, with
// wait events tolerated anywhere in the sequence.
//
// A macro that presses and releases a single modifier key and nothing
// else decodes to that modifier's keycode with no modifier bits set, so
// binding a bare modifier to a button survives the round trip.
//
// Returns ErrValue for any sequence that does not reduce to a single
// key press.
func KeycodeFromMacro(m *Macro) (uint32, Modifiers, error) {
	var (
		mods     Modifiers
		key      uint32
		released bool
	)

	for _, ev := range m.events {
		switch ev.Type {
		case MacroEventWait:
			continue

		case MacroEventKeyPressed:
			if key != 0 {
				return 0, 0, ErrValue
			}
			if bit, ok := modifierBit(ev.Value); ok {
				if mods&bit != 0 {
					return 0, 0, ErrValue
				}
				mods |= bit
				continue
			}
			key = ev.Value

		case MacroEventKeyReleased:
			switch {
			case key != 0 && ev.Value == key && !released:
				released = true
			case key != 0 && released:
				// Trailing modifier release
				bit, ok := modifierBit(ev.Value)
				if !ok || mods&bit == 0 {
					return 0, 0, ErrValue
				}
			case key == 0:
				// Release before the main key: only valid as the
				// lone-modifier shape, press X / release X.
				bit, ok := modifierBit(ev.Value)
				if !ok || mods != bit {
					return 0, 0, ErrValue
				}
				key = ev.Value
				mods = 0
				released = true
			default:
				return 0, 0, ErrValue
			}

		default:
			return 0, 0, ErrValue
		}
	}

	if key == 0 {
		// A macro that only presses one modifier is still a valid
		// binding: the modifier itself is the key. The release is
		// optional, matching firmware that records presses only.
		for _, mk := range modifierKeys {
			if mods == mk.mod {
				return mk.key, 0, nil
			}
		}
		return 0, 0, ErrValue
	}
	if !released {
		return 0, 0, ErrValue
	}
	return key, mods, nil
}
