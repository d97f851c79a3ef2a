package elitech

/*------------------------------------------------------------------
 *
 * Purpose:	An address-keyed slice of device memory bytes, as
 *		returned by a single frame.
 *
 * Description:	Responses are merged together by the planner as
 *		answers to several requests come back, and indexed by
 *		parameters and address-write commands to pull out their
 *		piece of the data.
 *
 *------------------------------------------------------------------*/

import "fmt"

// Response pairs a Range with exactly Range.Len bytes of data.
type Response struct {
	Range Range
	Data  []byte
}

// NewResponse validates that len(data) == r.Len before returning.
func NewResponse(r Range, data []byte) (*Response, error) {
	if len(data) != r.Len {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(data), r.Len)
	}
	return &Response{Range: r, Data: data}, nil
}

// Slice returns the bytes of resp covering the absolute sub-range r.
// r must be contained in resp.Range.
func (resp *Response) Slice(r Range) ([]byte, error) {
	if !resp.Range.Contains(r) {
		return nil, fmt.Errorf("%w: required range %v is not in available range %v", ErrOutOfRange, r, resp.Range)
	}
	start := r.Start - resp.Range.Start
	return resp.Data[start : start+r.Len], nil
}

// SetSlice overwrites the bytes of resp covering the absolute
// sub-range r in place. r must be contained in resp.Range and data
// must be exactly r.Len bytes.
func (resp *Response) SetSlice(r Range, data []byte) error {
	if len(data) != r.Len {
		return fmt.Errorf("%w: length of %v does not match data length: %d", ErrLengthMismatch, r, len(data))
	}
	if !resp.Range.Contains(r) {
		return fmt.Errorf("%w: required range %v is not in available range %v", ErrOutOfRange, r, resp.Range)
	}
	start := r.Start - resp.Range.Start
	copy(resp.Data[start:start+r.Len], data)
	return nil
}

// Union merges other into resp in place. The two ranges must be
// mergeable (adjacent or overlapping). If they overlap and the
// overlapping bytes disagree, diag records an advisory and resp's
// bytes win for the overlap.
func (resp *Response) Union(other *Response, diag Diagnostics) error {
	u, err := resp.Range.Union(other.Range)
	if err != nil {
		return err
	}

	overlap := resp.Range.Intersection(other.Range)
	if !overlap.Empty() {
		mine, _ := resp.Slice(overlap)
		theirs, _ := other.Slice(overlap)
		if !bytesEqual(mine, theirs) {
			diag.Warn("data mismatch, new overlapping data will be ignored")
		}
	}

	switch {
	case resp.Range.Contains(other.Range):
		// resp already covers all of other; nothing to splice in.
	case other.Range.Contains(resp.Range):
		// resp is wholly inside other; take other's data and overlay resp's.
		headLen := resp.Range.Start - other.Range.Start
		tailStart := resp.Range.End() + 1 - other.Range.Start
		resp.Data = concatBytes(other.Data[:headLen], resp.Data, other.Data[tailStart:])
	case resp.Range.Start < other.Range.Start:
		tailStart := resp.Range.End() + 1 - other.Range.Start
		resp.Data = concatBytes(resp.Data, other.Data[tailStart:])
	case resp.Range.End() > other.Range.End():
		headLen := resp.Range.Start - other.Range.Start
		resp.Data = concatBytes(other.Data[:headLen], resp.Data)
	default:
		return fmt.Errorf("could not merge %v and %v", resp.Range, other.Range)
	}

	resp.Range = u
	return nil
}

// MergeResponses sorts answers by Range.Start and repeatedly unions
// adjacent pairs that are mergeable. The result is sorted by Start and
// pairwise non-mergeable (disjoint groups are left separate).
func MergeResponses(answers []*Response, diag Diagnostics) []*Response {
	if len(answers) == 0 {
		return nil
	}
	sorted := make([]*Response, len(answers))
	copy(sorted, answers)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Range.Start < sorted[j-1].Range.Start; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	merged := []*Response{sorted[0]}
	for _, r := range sorted[1:] {
		last := merged[len(merged)-1]
		if last.Range.Mergeable(r.Range) {
			if err := last.Union(r, diag); err == nil {
				continue
			}
		}
		merged = append(merged, r)
	}
	return merged
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func concatBytes(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
