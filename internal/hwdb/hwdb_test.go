package hwdb

import (
	"testing"

	"github.com/ferretd/ferret-core/internal/device"
)

func TestLoad_Embedded(t *testing.T) {
	db, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if db.Len() == 0 {
		t.Fatal("embedded database is empty")
	}
}

func TestLookup(t *testing.T) {
	db, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		info     device.Info
		wantHit  bool
		wantName string
	}{
		{
			name:     "known usb device",
			info:     device.Info{Bustype: 0x03, Vendor: 0x3344, Product: 0x1201},
			wantHit:  true,
			wantName: "SteelFang Viper 8K",
		},
		{
			name:     "bluetooth variant",
			info:     device.Info{Bustype: 0x05, Vendor: 0x3344, Product: 0x1202},
			wantHit:  true,
			wantName: "SteelFang Viper 8K Wireless",
		},
		{
			name:    "unknown product",
			info:    device.Info{Bustype: 0x03, Vendor: 0x3344, Product: 0x9999},
			wantHit: false,
		},
		{
			name:    "wrong bustype",
			info:    device.Info{Bustype: 0x05, Vendor: 0x3344, Product: 0x1201},
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := db.Lookup(tt.info)
			if ok != tt.wantHit {
				t.Fatalf("Lookup() hit = %v, want %v", ok, tt.wantHit)
			}
			if ok && entry.Name != tt.wantName {
				t.Errorf("entry.Name = %q, want %q", entry.Name, tt.wantName)
			}
		})
	}
}

func TestParse_VersionPinning(t *testing.T) {
	db, err := parse([]byte(`
devices:
  - name: "Pinned"
    driver: "steelfang"
    device_type: "mouse"
    matches:
      - bustype: "usb"
        vendor: 0x0001
        product: 0x0002
        version: 3
`))
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	info := device.Info{Bustype: 0x03, Vendor: 1, Product: 2, Version: 3}
	if _, ok := db.Lookup(info); !ok {
		t.Error("matching version should hit")
	}
	info.Version = 4
	if _, ok := db.Lookup(info); ok {
		t.Error("mismatched version should miss")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing driver", `
devices:
  - name: "No Driver"
    device_type: "mouse"
    matches:
      - {bustype: "usb", vendor: 1, product: 2}
`},
		{"no matches", `
devices:
  - name: "No Matches"
    driver: "steelfang"
    device_type: "mouse"
`},
		{"bad bustype", `
devices:
  - name: "Bad Bus"
    driver: "steelfang"
    device_type: "mouse"
    matches:
      - {bustype: "firewire", vendor: 1, product: 2}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse([]byte(tt.yaml)); err == nil {
				t.Error("parse() should reject invalid database")
			}
		})
	}
}

func TestEntry_Type(t *testing.T) {
	tests := []struct {
		in   string
		want device.DeviceType
	}{
		{"mouse", device.DeviceTypeMouse},
		{"keyboard", device.DeviceTypeKeyboard},
		{"other", device.DeviceTypeOther},
		{"", device.DeviceTypeUnspecified},
	}
	for _, tt := range tests {
		e := Entry{DeviceType: tt.in}
		if got := e.Type(); got != tt.want {
			t.Errorf("Type(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
