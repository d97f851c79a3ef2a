package elitech

/*------------------------------------------------------------------
 *
 * Purpose:	Multi-bit named-value fields, possibly packed across
 *		more than one byte and/or sharing a byte with other
 *		parameters.
 *
 *------------------------------------------------------------------*/

import "fmt"

// EnumParameter is a named value stored in BitWidth(class) bits of the
// field read as a big-endian integer, starting bitOffset bits above the
// least-significant bit of the parameter's last byte.
type EnumParameter struct {
	baseParameter
	class     EnumClass
	bitWidth  int
	bitOffset int
}

func NewEnumParameter(name, description string, offset int, class EnumClass, bitOffset int, writable bool) *EnumParameter {
	return &EnumParameter{
		baseParameter: baseParameter{name: name, description: description, offset: offset, writable: writable},
		class:         class,
		bitWidth:      class.BitWidth(),
		bitOffset:     bitOffset,
	}
}

func (p *EnumParameter) Len() int     { return (p.bitWidth + p.bitOffset + 7) / 8 }
func (p *EnumParameter) Range() Range { return parameterRange(p) }

// enumByteMask returns the mask of bits within byte index i (0 =
// first/most-significant byte of the field) that belong to the value.
func enumByteMask(i, totalLen, bitWidth, bitOffset int) byte {
	switch {
	case i == 0 && i == totalLen-1:
		return byte(((1 << bitWidth) - 1) << bitOffset)
	case i == 0:
		shift := ((bitWidth+bitOffset-1)%8 + 1)
		return byte((1 << shift) - 1)
	case i == totalLen-1:
		return byte((0xFF << bitOffset) & 0xFF)
	default:
		return 0xFF
	}
}

func (p *EnumParameter) Decode(data []byte, diag Diagnostics) Instance {
	v := uint64(0)
	for i := 0; i < p.Len(); i++ {
		m := enumByteMask(i, p.Len(), p.bitWidth, p.bitOffset)
		v = (v << 8) | uint64(data[i]&m)
	}
	v >>= uint(p.bitOffset)
	if _, ok := p.class.ByValue(v); !ok && len(p.class.Members) > 0 {
		diag.Warn("%s: unrecognized value 0x%X (accepted values: %s)", p.name, v, enumMemberNames(p.class))
	}
	return Instance{Param: p, Value: v}
}

func (p *EnumParameter) Parse(text string, diag Diagnostics) Instance {
	m, ok := p.class.ByName(text)
	if !ok {
		diag.Warn("invalid value: %s (accepted values: %s)", text, enumMemberNames(p.class))
		return Instance{Param: p, Value: nil}
	}
	return Instance{Param: p, Value: m.Value}
}

func (p *EnumParameter) Encode(v any, old []byte, diag Diagnostics) []byte {
	out := make([]byte, p.Len())
	if old != nil {
		copy(out, old)
	}
	if v == nil {
		return out
	}
	n := v.(uint64) << uint(p.bitOffset)
	for i := p.Len() - 1; i >= 0; i-- {
		m := enumByteMask(i, p.Len(), p.bitWidth, p.bitOffset)
		out[i] = byte(n&uint64(m)) | (out[i] &^ m)
		n >>= 8
	}
	return out
}

func (p *EnumParameter) Format(v any) string {
	n := v.(uint64)
	if m, ok := p.class.ByValue(n); ok {
		return m.Name
	}
	return fmt.Sprintf("0x%0*X", (p.bitWidth+7)/8*2, n)
}

func enumMemberNames(c EnumClass) string {
	out := ""
	for i, m := range c.Members {
		if i > 0 {
			out += ", "
		}
		out += m.Name
	}
	return out
}
