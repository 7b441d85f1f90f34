package device

// Action is a button's assigned behaviour. Exactly one of the value
// fields is meaningful, selected by Type.
type Action struct {
	Type ActionType

	// Button is a 1-based logical button number for ActionTypeButton.
	Button uint32

	// Special is the device function for ActionTypeSpecial.
	Special SpecialAction

	// Key and Mods describe a key combination for ActionTypeKey.
	Key  uint32
	Mods Modifiers

	// Macro is the event sequence for ActionTypeMacro.
	Macro *Macro
}

// Button is one physical button within a profile.
type Button struct {
	profile *Profile
	index   uint

	actionTypes map[ActionType]bool
	action      Action

	// macro persists across action type changes so that switching a
	// button away from its macro and back restores the sequence.
	macro *Macro

	dirty bool
}

func newButton(p *Profile, index uint) *Button {
	return &Button{
		profile:     p,
		index:       index,
		actionTypes: make(map[ActionType]bool),
		action:      Action{Type: ActionTypeNone},
	}
}

// Index returns the button's position within its profile.
func (b *Button) Index() uint { return b.index }

// Profile returns the owning profile.
func (b *Button) Profile() *Profile { return b.profile }

// Dirty reports whether the button has uncommitted changes.
func (b *Button) Dirty() bool { return b.dirty }

// EnableActionType marks an action type as supported. Drivers call this
// during probe; the set is immutable afterwards.
func (b *Button) EnableActionType(t ActionType) {
	b.actionTypes[t] = true
}

// ActionTypes returns the supported action types in declaration order.
func (b *Button) ActionTypes() []ActionType {
	order := []ActionType{ActionTypeNone, ActionTypeButton, ActionTypeSpecial, ActionTypeKey, ActionTypeMacro}
	types := make([]ActionType, 0, len(b.actionTypes))
	for _, t := range order {
		if b.actionTypes[t] {
			types = append(types, t)
		}
	}
	return types
}

// Action returns the currently assigned action.
func (b *Button) Action() Action { return b.action }

// SetAction assigns a raw action without validation. Drivers use it
// during probe to reflect hardware state; bus-facing writes go through
// the typed setters below.
func (b *Button) SetAction(a Action) {
	b.action = a
	if a.Type == ActionTypeMacro && a.Macro != nil {
		b.macro = a.Macro
	}
}

// SetButton maps the button to a logical button number.
func (b *Button) SetButton(n uint32) error {
	if !b.actionTypes[ActionTypeButton] {
		return ErrCapability
	}
	if n == 0 {
		return ErrValue
	}
	if b.action.Type == ActionTypeButton && b.action.Button == n {
		return nil
	}
	b.action = Action{Type: ActionTypeButton, Button: n, Macro: b.action.Macro}
	b.markDirty()
	return nil
}

// SetSpecial maps the button to a device-internal function.
func (b *Button) SetSpecial(s SpecialAction) error {
	if !b.actionTypes[ActionTypeSpecial] {
		return ErrCapability
	}
	if s < SpecialUnknown || s > SpecialBatteryLevel {
		return ErrValue
	}
	if b.action.Type == ActionTypeSpecial && b.action.Special == s {
		return nil
	}
	b.action = Action{Type: ActionTypeSpecial, Special: s, Macro: b.action.Macro}
	b.markDirty()
	return nil
}

// SetKey maps the button to a key combination.
func (b *Button) SetKey(key uint32, mods Modifiers) error {
	if !b.actionTypes[ActionTypeKey] {
		return ErrCapability
	}
	if key == 0 {
		return ErrValue
	}
	if b.action.Type == ActionTypeKey && b.action.Key == key && b.action.Mods == mods {
		return nil
	}
	b.action = Action{Type: ActionTypeKey, Key: key, Mods: mods, Macro: b.action.Macro}
	b.markDirty()
	return nil
}

// SetMacro assigns an event sequence to the button. The sequence is
// truncated at MaxMacroEvents.
func (b *Button) SetMacro(name string, events []MacroEvent) error {
	if !b.actionTypes[ActionTypeMacro] {
		return ErrCapability
	}
	b.macro = NewMacro(name, events)
	b.action = Action{Type: ActionTypeMacro, Macro: b.macro}
	b.markDirty()
	return nil
}

// Disable clears the button's assignment.
func (b *Button) Disable() error {
	if b.action.Type == ActionTypeNone {
		return nil
	}
	b.action = Action{Type: ActionTypeNone, Macro: b.action.Macro}
	b.markDirty()
	return nil
}

func (b *Button) markDirty() {
	b.dirty = true
	b.profile.dirty = true
}
