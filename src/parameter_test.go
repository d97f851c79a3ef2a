package elitech

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringParameterDecodeStripsNul(t *testing.T) {
	p := NewStringParameter("serial-number", "", 0x02, 6, false)
	inst := p.Decode([]byte("AB\x00\x00\x00\x00"), DiscardDiagnostics)
	assert.Equal(t, "AB", inst.Value)
	assert.Equal(t, "AB", inst.Text())
}

func TestStringParameterEncodePads(t *testing.T) {
	p := NewStringParameter("serial-number", "", 0x02, 6, true)
	out := p.Encode("AB", nil, DiscardDiagnostics)
	assert.Equal(t, []byte{'A', 'B', 0, 0, 0, 0}, out)
}

func TestUnsignedIntegerParameterRoundTrip(t *testing.T) {
	p := NewWordParameter("model", "", 0x00, false)
	inst := p.Decode([]byte{0x01, 0x02}, DiscardDiagnostics)
	assert.Equal(t, uint64(0x0102), inst.Value)
	assert.Equal(t, "0x0102", inst.Text())
}

func TestUnsignedIntegerParameterParseRejectsOverflow(t *testing.T) {
	p := NewByteParameter("firmware-version", "", 0x1F, true)
	diag := NewCollectingDiagnostics()
	inst := p.Parse("256", diag)
	assert.Nil(t, inst.Value)
	assert.NotEmpty(t, diag.Messages)
}

func TestUnsignedIntegerParameterParseHexBinOctal(t *testing.T) {
	p := NewByteParameter("x", "", 0, true)
	inst := p.Parse("0x0F", DiscardDiagnostics)
	assert.Equal(t, uint64(0x0F), inst.Value)
	inst = p.Parse("0b101", DiscardDiagnostics)
	assert.Equal(t, uint64(5), inst.Value)
	inst = p.Parse("010", DiscardDiagnostics)
	assert.Equal(t, uint64(8), inst.Value)
}

func TestDateTimeParameterRoundTrip(t *testing.T) {
	p := NewDateTimeParameter("device-time", "", 0x88, false)
	data := []byte{24, 3, 0, 15, 10, 30, 45} // 2024-03-15 10:30:45
	inst := p.Decode(data, DiscardDiagnostics)
	want := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	assert.True(t, inst.Value.(time.Time).Equal(want))
	assert.Equal(t, "2024-03-15 10:30:45", inst.Text())
}

func TestDateTimeParameterParseInvalid(t *testing.T) {
	p := NewDateTimeParameter("configuration-time", "", 0x28, true)
	diag := NewCollectingDiagnostics()
	inst := p.Parse("not a date", diag)
	assert.Nil(t, inst.Value)
	assert.NotEmpty(t, diag.Messages)
}

func TestHalfByteParameterRMW(t *testing.T) {
	p := NewHalfByteParameter("light-intensity", "", 0x23, true, true)
	old := []byte{0b00000101} // lower nibble 5 belongs to a sibling parameter
	out := p.Encode(uint64(0x0A), old, DiscardDiagnostics)
	assert.Equal(t, byte(0b10100101), out[0])
}

func TestBitParameterRMW(t *testing.T) {
	p := NewBitParameter("light-on", "", 0x1E, 4, true)
	old := []byte{0b11000000}
	out := p.Encode(true, old, DiscardDiagnostics)
	assert.Equal(t, byte(0b11010000), out[0])
	inst := p.Decode(out, DiscardDiagnostics)
	assert.Equal(t, true, inst.Value)
}

func TestEnumParameterDecodeWarnsOnUnknownValue(t *testing.T) {
	p := NewEnumParameter("start-mode", "", 0x20, startModes, 0, true)
	diag := NewCollectingDiagnostics()
	inst := p.Decode([]byte{0b111}, diag) // 0b111 is the MAX sentinel, not a real member
	assert.Equal(t, uint64(0b111), inst.Value)
	assert.NotEmpty(t, diag.Messages)
}

func TestEnumParameterParseAndFormat(t *testing.T) {
	p := NewEnumParameter("start-mode", "", 0x20, startModes, 0, true)
	inst := p.Parse("Timer", DiscardDiagnostics)
	assert.Equal(t, uint64(0b010), inst.Value)
	assert.Equal(t, "Timer", inst.Text())
}

func TestEnumBitParameterRoundTrip(t *testing.T) {
	p := NewEnumBitParameter("temperature-sensor-location", "", 0x21, 1, sensorLocations, true)
	out := p.Encode(uint64(1), nil, DiscardDiagnostics)
	inst := p.Decode(out, DiscardDiagnostics)
	assert.Equal(t, "External", inst.Text())
}

func TestFloatParameterRoundTrip(t *testing.T) {
	p := NewFloatParameter("some-float", "", 0x00, true)
	out := p.Encode(-12.3, nil, DiscardDiagnostics)
	inst := p.Decode(out, DiscardDiagnostics)
	assert.InDelta(t, -12.3, inst.Value.(float64), 1e-9)
}

func TestFloatParameterUnsetSentinel(t *testing.T) {
	p := NewFloatParameter("some-float", "", 0x00, true)
	inst := p.Decode([]byte{0xFF, 0xFF}, DiscardDiagnostics)
	assert.Nil(t, inst.Value)
}

func TestTimeSpanParameterFormat(t *testing.T) {
	p := NewTimeSpanParameter("interval", "", 0x4C, true)
	inst := p.Decode([]byte{0x00, 0x0A}, DiscardDiagnostics) // 10 units * 10s = 100s
	assert.Equal(t, "1m40s", inst.Text())
}

func TestTimeSpanParameterParse(t *testing.T) {
	p := NewTimeSpanParameter("interval", "", 0x4C, true)
	inst := p.Parse("1j2h3m4s", DiscardDiagnostics)
	want := uint64(1*86400 + 2*3600 + 3*60 + 4)
	assert.Equal(t, want, inst.Value)
}

func TestTimeZoneParameterRoundTrip(t *testing.T) {
	p := NewTimeZoneParameter("timezone", "", 0x24, true)
	inst := p.Parse("+0530", DiscardDiagnostics)
	out := p.Encode(inst.Value, make([]byte, 12), DiscardDiagnostics)
	decoded := p.Decode(out, DiscardDiagnostics)
	assert.Equal(t, "+0530", decoded.Text())
}

func TestTimeZoneParameterDecodeNegativeWireFormat(t *testing.T) {
	p := NewTimeZoneParameter("timezone", "", 0x24, true)
	data := make([]byte, 12)
	data[0] = 0x0D // 13 -> negative offset of 24-13 = 11 hours
	data[11] = 0x00
	inst := p.Decode(data, DiscardDiagnostics)
	assert.Equal(t, "-1100", inst.Text())
}

func TestTimeZoneParameterNegative(t *testing.T) {
	p := NewTimeZoneParameter("timezone", "", 0x24, true)
	inst := p.Parse("-0800", DiscardDiagnostics)
	out := p.Encode(inst.Value, make([]byte, 12), DiscardDiagnostics)
	decoded := p.Decode(out, DiscardDiagnostics)
	assert.Equal(t, "-0800", decoded.Text())
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	p, err := reg.Lookup("model")
	assert.NoError(t, err)
	assert.Equal(t, "model", p.Name())

	_, err = reg.Lookup("no-such-parameter")
	assert.ErrorIs(t, err, ErrUnknownParameter)
}

func TestConfigurationTimeIsImmutable(t *testing.T) {
	reg := NewRegistry()
	p, err := reg.Lookup("configuration-time")
	assert.NoError(t, err)
	assert.True(t, p.Immutable())
	assert.True(t, p.Writable())
}
