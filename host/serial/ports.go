package serial

import (
	"fmt"
	"sort"
	"strings"

	bugst "go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// PortInfo describes a serial port found on the host.
type PortInfo struct {
	Name   string
	USB    bool
	VID    string
	PID    string
	Serial string
}

// USB-UART bridges commonly fitted to STM32F1 boards, by VID
var knownBridges = map[string]string{
	"0403": "FTDI",
	"10C4": "CP210x",
	"1A86": "CH340",
	"0483": "ST-Link VCP",
}

// Bridge returns the name of a known USB-UART bridge, or "".
func (p PortInfo) Bridge() string {
	return knownBridges[strings.ToUpper(p.VID)]
}

// Ports lists the serial ports on the host, USB ports first. When detailed
// enumeration is unavailable it falls back to bare port names.
func Ports() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil || len(details) == 0 {
		names, err := bugst.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to list serial ports: %w", err)
		}
		out := make([]PortInfo, 0, len(names))
		for _, name := range names {
			out = append(out, PortInfo{Name: name})
		}
		sortPorts(out)
		return out, nil
	}

	out := make([]PortInfo, 0, len(details))
	for _, d := range details {
		out = append(out, PortInfo{
			Name:   d.Name,
			USB:    d.IsUSB,
			VID:    d.VID,
			PID:    d.PID,
			Serial: d.SerialNumber,
		})
	}
	sortPorts(out)
	return out, nil
}

func sortPorts(ports []PortInfo) {
	sort.SliceStable(ports, func(i, j int) bool {
		if ports[i].USB != ports[j].USB {
			return ports[i].USB
		}
		return ports[i].Name < ports[j].Name
	})
}
