package profiles

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/libhal-google/libhal-stm32f1/clock"
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/sim"
)

func TestBuiltinProfiles(t *testing.T) {
	want := []string{"bluepill-48mhz-usb", "bluepill-72mhz", "hse-8mhz-direct", "hsi-pll-64mhz", "reset"}
	names := Names()
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, names)
	}

	for _, p := range All() {
		if err := clock.Validate(p.Tree); err != nil {
			t.Errorf("%s: invalid tree: %v", p.Name, err)
		}

		c := clock.NewConfigurator(sim.New())
		c.Strict = true
		if err := c.Configure(p.Tree); err != nil {
			t.Errorf("%s: configure failed: %v", p.Name, err)
		}
		t.Logf("%s: %s", p.Name, c.Rates())
	}
}

func TestProfileRates(t *testing.T) {
	testCases := []struct {
		name   string
		system core.Hertz
		usb    bool
	}{
		{"reset", 8 * core.MHz, false},
		{"hsi-pll-64mhz", 64 * core.MHz, false},
		{"bluepill-72mhz", 72 * core.MHz, true},
		{"bluepill-48mhz-usb", 48 * core.MHz, true},
		{"hse-8mhz-direct", 8 * core.MHz, false},
	}

	for _, tc := range testCases {
		p, err := Load(tc.name)
		if err != nil {
			t.Fatalf("Load(%q): %v", tc.name, err)
		}
		r := clock.Derive(p.Tree)
		if r.System != tc.system {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.system, r.System)
		}
		if r.USBCapable() != tc.usb {
			t.Errorf("%s: expected USB capable %v, got USB at %s", tc.name, tc.usb, r.USB)
		}
	}
}

func TestBluePillTree(t *testing.T) {
	p, err := Load("bluepill-72mhz")
	if err != nil {
		t.Fatal(err)
	}
	tree := p.Tree
	if tree.HighSpeedExternal != 8*core.MHz || tree.LowSpeedExternal != 32768 {
		t.Errorf("Unexpected oscillators %s, %s", tree.HighSpeedExternal, tree.LowSpeedExternal)
	}
	if tree.PLL.Multiply != clock.MultiplyBy9 || tree.PLL.Source != clock.PLLSourceExternal {
		t.Errorf("Unexpected PLL %+v", tree.PLL)
	}
	if tree.AHB.APB2.ADC.Divider != clock.ADCDivideBy6 {
		t.Errorf("Unexpected ADC divider %s", tree.AHB.APB2.ADC.Divider)
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("nucleo"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("Expected ErrUnknownProfile, got %v", err)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	doc := "profiles:\n  - name: typo\n    tree:\n      system_clok: pll\n"
	if _, err := Decode(strings.NewReader(doc)); err == nil {
		t.Error("Expected an error for an unknown key")
	}

	bad := "profiles:\n  - name: bad\n    tree:\n      pll:\n        multiply: x17\n"
	if _, err := Decode(strings.NewReader(bad)); err == nil {
		t.Error("Expected an error for an invalid multiplier")
	}
}

func TestDecodeDefaults(t *testing.T) {
	doc := "profiles:\n  - name: bare\n    tree: {}\n"
	list, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Description != "bare" || list[0].Tree != (clock.Tree{}) {
		t.Errorf("Unexpected profiles %+v", list)
	}
}

func TestTreeFileRoundTrip(t *testing.T) {
	p, _ := Load("bluepill-72mhz")

	var buf bytes.Buffer
	if err := EncodeTree(&buf, p.Tree); err != nil {
		t.Fatalf("EncodeTree failed: %v", err)
	}
	if !strings.Contains(buf.String(), "multiply: x9") {
		t.Errorf("Expected enum names in output:\n%s", buf.String())
	}

	path := filepath.Join(t.TempDir(), "tree.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	tree, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if tree != p.Tree {
		t.Errorf("Tree changed through YAML:\n got %+v\nwant %+v", tree, p.Tree)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}

func TestDecodeEmptyTree(t *testing.T) {
	tree, err := DecodeTree(strings.NewReader(""))
	if err != nil || tree != (clock.Tree{}) {
		t.Errorf("Expected reset tree from empty input, got %+v, %v", tree, err)
	}
}
