package device

// Linux input event keycodes for the modifier keys, from
// linux/input-event-codes.h. Only the modifiers are needed here; all
// other keycodes pass through the macro transcoder untouched.
const (
	KeyLeftCtrl   uint32 = 29
	KeyLeftShift  uint32 = 42
	KeyRightShift uint32 = 54
	KeyLeftAlt    uint32 = 56
	KeyRightCtrl  uint32 = 97
	KeyRightAlt   uint32 = 100
	KeyLeftMeta   uint32 = 125
	KeyRightMeta  uint32 = 126
)

// Modifiers is a bitmask of held modifier keys accompanying a key
// action. The bit order is part of the bus API.
type Modifiers uint32

const (
	ModifierLeftCtrl Modifiers = 1 << iota
	ModifierLeftShift
	ModifierLeftAlt
	ModifierLeftMeta
	ModifierRightCtrl
	ModifierRightShift
	ModifierRightAlt
	ModifierRightMeta
)

// modifierKeys maps modifier bits to keycodes in canonical press order.
// Encoding walks this slice front to back for presses and releases, so
// generated macros are byte-for-byte reproducible.
var modifierKeys = []struct {
	mod Modifiers
	key uint32
}{
	{ModifierLeftCtrl, KeyLeftCtrl},
	{ModifierLeftShift, KeyLeftShift},
	{ModifierLeftAlt, KeyLeftAlt},
	{ModifierLeftMeta, KeyLeftMeta},
	{ModifierRightCtrl, KeyRightCtrl},
	{ModifierRightShift, KeyRightShift},
	{ModifierRightAlt, KeyRightAlt},
	{ModifierRightMeta, KeyRightMeta},
}

// modifierBit returns the modifier bit for a keycode, or false when the
// keycode is not a modifier.
func modifierBit(key uint32) (Modifiers, bool) {
	for _, mk := range modifierKeys {
		if mk.key == key {
			return mk.mod, true
		}
	}
	return 0, false
}
