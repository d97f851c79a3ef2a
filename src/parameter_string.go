package elitech

import "strings"

// StringParameter is a fixed-length, NUL-padded UTF-8 string field.
type StringParameter struct {
	baseParameter
	length int
}

func NewStringParameter(name, description string, offset, length int, writable bool) *StringParameter {
	return &StringParameter{
		baseParameter: baseParameter{name: name, description: description, offset: offset, writable: writable},
		length:        length,
	}
}

func (p *StringParameter) Len() int     { return p.length }
func (p *StringParameter) Range() Range { return parameterRange(p) }

func (p *StringParameter) Decode(data []byte, diag Diagnostics) Instance {
	return Instance{Param: p, Value: strings.ReplaceAll(string(data), "\x00", "")}
}

func (p *StringParameter) Parse(text string, diag Diagnostics) Instance {
	return Instance{Param: p, Value: text}
}

func (p *StringParameter) Encode(v any, old []byte, diag Diagnostics) []byte {
	out := make([]byte, p.length)
	if v == nil {
		return out
	}
	s := v.(string)
	copy(out, s)
	return out
}

func (p *StringParameter) Format(v any) string {
	return v.(string)
}
