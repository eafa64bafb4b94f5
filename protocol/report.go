package protocol

import (
	"github.com/libhal-google/libhal-stm32f1/clock"
	"github.com/libhal-google/libhal-stm32f1/core"
)

// Message is a payload that can be framed.
type Message interface {
	// ID returns the message id written at the start of the payload
	ID() uint32

	// AppendPayload appends the id and arguments to dst
	AppendPayload(dst []byte) []byte
}

// ClockReport carries every derived clock rate.
type ClockReport struct {
	Rates clock.Rates
}

// ID implements Message.
func (ClockReport) ID() uint32 { return MsgClockReport }

// rateFields lists the rates in wire order.
func rateFields(r *clock.Rates) []*core.Hertz {
	return []*core.Hertz{
		&r.System, &r.AHB, &r.APB1, &r.APB2, &r.APB1Timer,
		&r.APB2Timer, &r.ADC, &r.PLL, &r.USB, &r.RTC,
	}
}

// AppendPayload implements Message.
func (m ClockReport) AppendPayload(dst []byte) []byte {
	dst = AppendUVLQ(dst, MsgClockReport)
	for _, f := range rateFields(&m.Rates) {
		dst = AppendUVLQ(dst, uint32(*f))
	}
	return dst
}

// RegisterReport carries the value of one peripheral register, so the host
// can check what the clock configurator actually wrote.
type RegisterReport struct {
	Addr  uint32
	Value uint32
}

// ID implements Message.
func (RegisterReport) ID() uint32 { return MsgRegisterReport }

// AppendPayload implements Message.
func (m RegisterReport) AppendPayload(dst []byte) []byte {
	dst = AppendUVLQ(dst, MsgRegisterReport)
	dst = AppendUVLQ(dst, m.Addr)
	return AppendUVLQ(dst, m.Value)
}

// DecodeMessage parses a frame payload.
func DecodeMessage(payload []byte) (Message, error) {
	id, err := ReadUVLQ(&payload)
	if err != nil {
		return nil, err
	}

	switch id {
	case MsgClockReport:
		var m ClockReport
		for _, f := range rateFields(&m.Rates) {
			v, err := ReadUVLQ(&payload)
			if err != nil {
				return nil, err
			}
			*f = core.Hertz(v)
		}
		return m, nil

	case MsgRegisterReport:
		var m RegisterReport
		if m.Addr, err = ReadUVLQ(&payload); err != nil {
			return nil, err
		}
		if m.Value, err = ReadUVLQ(&payload); err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, ErrUnknownMessage
}
