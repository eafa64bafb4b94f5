package plan

import (
	"errors"
	"strings"

	"github.com/google/shlex"

	"github.com/libhal-google/libhal-stm32f1/clock"
	"github.com/libhal-google/libhal-stm32f1/core"
)

// ErrBadOverride is returned for a malformed key=value override.
var ErrBadOverride = errors.New("bad clock override")

// Override applies shell-quoted key=value settings to t, for example
// `hse=8MHz sysclk=pll pll.mul=x9 apb1=div2 "rtc=lse"`.
//
// Keys: hse, lse, sysclk, pll (on/off), pll.source, pll.mul, pll.usb, rtc
// (a source, or none), ahb, apb1, apb2, adc.
//
// t is only changed when every setting parses.
func Override(t *clock.Tree, settings string) error {
	words, err := shlex.Split(settings)
	if err != nil {
		return errors.Join(ErrBadOverride, err)
	}

	next := *t
	for _, w := range words {
		key, value, ok := strings.Cut(w, "=")
		if !ok || value == "" {
			return errors.Join(ErrBadOverride, errors.New(`expected key=value, got "`+w+`"`))
		}
		if err := apply(&next, strings.ToLower(key), value); err != nil {
			return errors.Join(ErrBadOverride, errors.New(key), err)
		}
	}
	*t = next
	return nil
}

func apply(t *clock.Tree, key, value string) (err error) {
	switch key {
	case "hse":
		return parseHertz(&t.HighSpeedExternal, value)
	case "lse":
		return parseHertz(&t.LowSpeedExternal, value)
	case "sysclk":
		t.SystemClock, err = clock.ParseSystemClockSource(value)
	case "pll":
		switch strings.ToLower(value) {
		case "on", "true", "1":
			t.PLL.Enable = true
		case "off", "false", "0":
			t.PLL.Enable = false
		default:
			return errors.New(`expected on or off, got "` + value + `"`)
		}
	case "pll.source":
		src, err := clock.ParsePLLSource(value)
		if err != nil {
			return err
		}
		t.PLL.Source, t.PLL.Enable = src, true
	case "pll.mul":
		mul, err := clock.ParsePLLMultiply(value)
		if err != nil {
			return err
		}
		t.PLL.Multiply, t.PLL.Enable = mul, true
	case "pll.usb":
		t.PLL.USB, err = clock.ParseUSBDivider(value)
	case "rtc":
		src, err := clock.ParseRTCSource(value)
		if err != nil {
			return err
		}
		t.RTC.Source, t.RTC.Enable = src, src != clock.RTCNoClock
	case "ahb":
		t.AHB.Divider, err = clock.ParseAHBDivider(value)
	case "apb1":
		t.AHB.APB1.Divider, err = clock.ParseAPBDivider(value)
	case "apb2":
		t.AHB.APB2.Divider, err = clock.ParseAPBDivider(value)
	case "adc":
		t.AHB.APB2.ADC.Divider, err = clock.ParseADCDivider(value)
	default:
		return errors.New("unknown key")
	}
	return err
}

func parseHertz(h *core.Hertz, value string) error {
	v, ok := core.ParseHertz(value)
	if !ok {
		return errors.New(`bad frequency "` + value + `"`)
	}
	*h = v
	return nil
}
