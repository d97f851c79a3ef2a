package elitech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// packRecordWord builds the little-endian 8-byte record word from its
// fields, the inverse of DecodeRecord, for use as test fixtures.
func packRecordWord(humidity, minute, temperature, hour, day, month, year, second uint64, flags Flags) []byte {
	q := (humidity << 54) | (minute << 48) | (temperature << 37) | (hour << 32) |
		(day << 27) | (month << 23) | (year << 16) | (second << 10) | uint64(flags)
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = byte(q >> uint(8*i))
	}
	return out
}

func TestDecodeRecordTerminator(t *testing.T) {
	frame := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	rec, err := DecodeRecord(frame, 0x20, DiscardDiagnostics)
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDecodeRecordInvalidLength(t *testing.T) {
	_, err := DecodeRecord([]byte{0x01, 0x02}, 0x20, DiscardDiagnostics)
	assert.ErrorIs(t, err, ErrInvalidRecordLen)
}

func TestDecodeRecordBasic(t *testing.T) {
	// 2024-03-15 10:30:45, 21.5°C, 0% humidity, no flags.
	frame := packRecordWord(0, 30, 215, 10, 15, 3, 24, 45, FlagZero)
	rec, err := DecodeRecord(frame, 0x20, DiscardDiagnostics)
	assert.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Equal(t, 2024, rec.Time.Year())
	assert.InDelta(t, 21.5, rec.Temperature, 1e-9)
	assert.Nil(t, rec.Humidity)
}

func TestDecodeRecordWithHumidity(t *testing.T) {
	frame := packRecordWord(455, 0, 200, 12, 1, 1, 24, 0, FlagZero)
	rec, err := DecodeRecord(frame, 0x20, DiscardDiagnostics)
	assert.NoError(t, err)
	assert.NotNil(t, rec.Humidity)
	assert.InDelta(t, 45.5, *rec.Humidity, 1e-9)
}

func TestDecodeRecordNegativeTemperature(t *testing.T) {
	frame := packRecordWord(0, 0, 50, 0, 1, 1, 24, 0, FlagSign1)
	rec, err := DecodeRecord(frame, 0x20, DiscardDiagnostics)
	assert.NoError(t, err)
	assert.InDelta(t, -5.0, rec.Temperature, 1e-9)
}

func TestDecodeRecordExtendedTemperatureBit(t *testing.T) {
	// Set bit 9 of q directly: it only contributes to the temperature
	// magnitude when protocolVersion >= 0x23.
	frame := packRecordWord(0, 0, 0, 0, 1, 1, 24, 0, FlagZero)
	frame[1] |= 0x02 // bit 9 of q is bit 1 of byte index 1

	oldRec, err := DecodeRecord(frame, 0x20, NewCollectingDiagnostics())
	assert.NoError(t, err)
	assert.InDelta(t, 0.0, oldRec.Temperature, 1e-9, "bit 9 is ignored before protocol 0x23")

	newRec, err := DecodeRecord(frame, 0x23, DiscardDiagnostics)
	assert.NoError(t, err)
	assert.InDelta(t, 204.8, newRec.Temperature, 1e-9, "bit 9 becomes bit 11 of the magnitude at protocol 0x23")
}

func TestDecodeRecordWarnsOnIgnoredBits(t *testing.T) {
	frame := packRecordWord(0, 0, 0, 0, 1, 1, 24, 0, FlagZero)
	frame[1] |= 0x02 // bit 9
	diag := NewCollectingDiagnostics()
	_, err := DecodeRecord(frame, 0x20, diag)
	assert.NoError(t, err)
	assert.NotEmpty(t, diag.Messages)
}
