package elitech

/*------------------------------------------------------------------
 *
 * Purpose:	Sub-byte parameter variants that share a physical byte
 *		with one or more sibling parameters: nibbles, single
 *		bits, and named two-member bit flags.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"strconv"
	"strings"
)

// HalfByteParameter is a 4-bit nibble, either the upper or lower half
// of its byte. high selects the upper nibble.
type HalfByteParameter struct {
	baseParameter
	high bool
}

func NewHalfByteParameter(name, description string, offset int, high, writable bool) *HalfByteParameter {
	return &HalfByteParameter{
		baseParameter: baseParameter{name: name, description: description, offset: offset, writable: writable},
		high:          high,
	}
}

func (p *HalfByteParameter) Len() int     { return 1 }
func (p *HalfByteParameter) Range() Range { return parameterRange(p) }

func (p *HalfByteParameter) shift() uint {
	if p.high {
		return 4
	}
	return 0
}

func (p *HalfByteParameter) Decode(data []byte, diag Diagnostics) Instance {
	v := (data[0] >> p.shift()) & 0x0F
	return Instance{Param: p, Value: uint64(v)}
}

func (p *HalfByteParameter) Parse(text string, diag Diagnostics) Instance {
	n, err := strconv.ParseUint(strings.TrimPrefix(text, "0x"), 16, 8)
	if err != nil || n > 0x0F {
		diag.Warn("invalid value for nibble: %s", text)
		return Instance{Param: p, Value: nil}
	}
	return Instance{Param: p, Value: n}
}

func (p *HalfByteParameter) Encode(v any, old []byte, diag Diagnostics) []byte {
	out := make([]byte, 1)
	if old != nil {
		out[0] = old[0]
	}
	if v == nil {
		return out
	}
	mask := byte(0x0F) << p.shift()
	out[0] = (out[0] &^ mask) | (byte(v.(uint64)&0x0F) << p.shift())
	return out
}

func (p *HalfByteParameter) Format(v any) string {
	return fmt.Sprintf("0x%X", v.(uint64))
}

// BitParameter is a single bit within its byte, read and written as a
// boolean.
type BitParameter struct {
	baseParameter
	bit int
}

func NewBitParameter(name, description string, offset, bit int, writable bool) *BitParameter {
	return &BitParameter{
		baseParameter: baseParameter{name: name, description: description, offset: offset, writable: writable},
		bit:           bit,
	}
}

func (p *BitParameter) Len() int     { return 1 }
func (p *BitParameter) Range() Range { return parameterRange(p) }

func (p *BitParameter) Decode(data []byte, diag Diagnostics) Instance {
	v := (data[0]>>uint(p.bit))&0x01 != 0
	return Instance{Param: p, Value: v}
}

func (p *BitParameter) Parse(text string, diag Diagnostics) Instance {
	switch strings.ToLower(text) {
	case "true", "1":
		return Instance{Param: p, Value: true}
	case "false", "0":
		return Instance{Param: p, Value: false}
	default:
		diag.Warn("invalid value for bit: %s (accepted values: True, False)", text)
		return Instance{Param: p, Value: nil}
	}
}

func (p *BitParameter) Encode(v any, old []byte, diag Diagnostics) []byte {
	out := make([]byte, 1)
	if old != nil {
		out[0] = old[0]
	}
	if v == nil {
		return out
	}
	mask := byte(1) << uint(p.bit)
	if v.(bool) {
		out[0] |= mask
	} else {
		out[0] &^= mask
	}
	return out
}

func (p *BitParameter) Format(v any) string {
	if v.(bool) {
		return "True"
	}
	return "False"
}

// EnumBitParameter is a BitParameter whose two states have names other
// than True/False.
type EnumBitParameter struct {
	BitParameter
	class EnumClass
}

func NewEnumBitParameter(name, description string, offset, bit int, class EnumClass, writable bool) *EnumBitParameter {
	return &EnumBitParameter{
		BitParameter: BitParameter{
			baseParameter: baseParameter{name: name, description: description, offset: offset, writable: writable},
			bit:           bit,
		},
		class: class,
	}
}

func (p *EnumBitParameter) Decode(data []byte, diag Diagnostics) Instance {
	inst := p.BitParameter.Decode(data, diag)
	return Instance{Param: p, Value: boolToEnumValue(inst.Value.(bool))}
}

func (p *EnumBitParameter) Parse(text string, diag Diagnostics) Instance {
	m, ok := p.class.ByName(text)
	if !ok {
		diag.Warn("invalid value: %s (accepted values: %s)", text, enumMemberNames(p.class))
		return Instance{Param: p, Value: nil}
	}
	return Instance{Param: p, Value: m.Value}
}

func (p *EnumBitParameter) Encode(v any, old []byte, diag Diagnostics) []byte {
	if v == nil {
		return p.BitParameter.Encode(nil, old, diag)
	}
	return p.BitParameter.Encode(v.(uint64) != 0, old, diag)
}

func (p *EnumBitParameter) Format(v any) string {
	n := v.(uint64)
	if m, ok := p.class.ByValue(n); ok {
		return m.Name
	}
	return fmt.Sprintf("0x%X", n)
}

func boolToEnumValue(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
