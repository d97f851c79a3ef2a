package elitech

/*------------------------------------------------------------------
 *
 * Purpose:	Named value sets used by EnumParameter and
 *		EnumBitParameter, replacing the original's Python Enum
 *		classes.
 *
 *------------------------------------------------------------------*/

import "math/bits"

// EnumMember is one named value of an EnumClass.
type EnumMember struct {
	Name  string
	Value uint64
}

// EnumClass is an ordered set of named values. Max is used to size the
// bit width an EnumParameter occupies; it need not itself be a valid
// member (the original source uses a dummy MAX sentinel for exactly
// this purpose).
type EnumClass struct {
	Members []EnumMember
	Max     uint64
}

// BitWidth returns ceil(log2(1+Max)), the number of bits needed to
// represent every value from 0 to Max.
func (c EnumClass) BitWidth() int {
	return bits.Len64(c.Max)
}

// ByValue finds the member with the given value.
func (c EnumClass) ByValue(v uint64) (EnumMember, bool) {
	for _, m := range c.Members {
		if m.Value == v {
			return m, true
		}
	}
	return EnumMember{}, false
}

// ByName finds the member with the given name.
func (c EnumClass) ByName(name string) (EnumMember, bool) {
	for _, m := range c.Members {
		if m.Name == name {
			return m, true
		}
	}
	return EnumMember{}, false
}

var pdfLanguages = EnumClass{Members: []EnumMember{
	{"en", 0x00},
	{"zh", 0x01},
	{"es", 0x02},
}, Max: 0xFF}

var startModes = EnumClass{Members: []EnumMember{
	{"Immediate", 0b000},
	{"Manual", 0b001},
	{"Timer", 0b010},
}, Max: 0b111}

var sensorTypes = EnumClass{Members: []EnumMember{
	{"NoInformation", 0b00},
	{"GlycolBottle", 0b01},
}, Max: 0b11}

var deviceStates = EnumClass{Members: nil, Max: 0b1111111}

var stopModes = EnumClass{Members: []EnumMember{
	{"Manual", 0b000},
	{"Temporary", 0b011},
}, Max: 0b111}

var temperatureUnits = EnumClass{Members: []EnumMember{
	{"Celsius", 0},
	{"Farenheit", 1},
}, Max: 1}

var sensorLocations = EnumClass{Members: []EnumMember{
	{"Internal", 0},
	{"External", 1},
}, Max: 1}
