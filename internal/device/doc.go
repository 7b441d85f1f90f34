// Package device provides the device object model for ferretd.
//
// A Device is the in-memory representation of one configurable HID
// peripheral: a tree of profiles, each holding resolutions, buttons and
// LEDs. Drivers populate the tree during probe; the bus layer mutates it
// through setters; Commit hands the accumulated changes back to the
// driver in one transaction.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Object Model                            │
//	│                                                                 │
//	│  ┌──────────────┐    ┌──────────────┐    ┌───────────────────┐  │
//	│  │   Registry   │    │    Device    │    │      Driver       │  │
//	│  │ (registry.go)│───▶│ (device.go)  │───▶│   (driver.go)     │  │
//	│  │              │    │              │    │                   │  │
//	│  │ • by sysname │    │ • Profiles   │    │ • Probe           │  │
//	│  │ • ordered    │    │ • dirty walk │    │ • Commit          │  │
//	│  └──────────────┘    └──────┬───────┘    │ • optional hooks  │  │
//	│                            │            └───────────────────┘  │
//	│            ┌───────────────┼───────────────┐                   │
//	│            ▼               ▼               ▼                   │
//	│     ┌────────────┐  ┌────────────┐  ┌────────────┐             │
//	│     │ Resolution │  │   Button   │  │    Led     │             │
//	│     └────────────┘  └────────────┘  └────────────┘             │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Key Types
//
//   - Device: one peripheral, identified by its hidraw sysname
//   - Profile: a switchable configuration bank on the hardware
//   - Resolution: a DPI slot within a profile
//   - Button: a physical button and its assigned action
//   - Led: a configurable light zone
//   - Macro: a key event sequence assignable to a button
//   - Driver: the hardware access contract implemented per vendor
//
// # Mutation Contract
//
// Every setter follows the same sequence: capability check, value
// check, no-op when the value is unchanged, then write plus dirty
// marking on the field's owner and its profile. Setters never touch
// hardware; dirty state is flushed by Device.Commit.
//
// # Thread Safety
//
// The object graph is NOT internally synchronised. All access must
// happen on the daemon's reactor goroutine; the bus layer funnels every
// read and write through it. This keeps setters, the commit walk and
// the poll loop serialisable without locks.
package device
