package elitech

/*------------------------------------------------------------------
 *
 * Purpose:	The I/O planner: coalesces targets into the fewest
 *		requests, issues them through a transport, merges the
 *		answers, and applies read-modify-write semantics for
 *		writes, splitting around immutable sub-ranges.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"
)

const maxFrameData = maxFrameDataLen

// Planner drives a transport through the coalesce/issue/merge
// choreography common to every command. It never holds a transport
// open across requests: open opens a fresh one for each request/
// response pair, matching spec.md §5's resource discipline, so a
// partial failure can never leak device-open state across operations.
type Planner struct {
	open func() (Transport, error)
	diag Diagnostics
}

// NewPlanner builds a Planner that opens a new transport via open for
// every individual request/response exchange and closes it immediately
// after.
func NewPlanner(open func() (Transport, error), diag Diagnostics) *Planner {
	if diag == nil {
		diag = DiscardDiagnostics
	}
	return &Planner{open: open, diag: diag}
}

// ReadRanges executes the read algorithm over targets (spec.md §4.6):
// coalesce, issue one GetParameter per coalesced range, merge the
// answers, and return them sorted by start for the caller to slice.
func (p *Planner) ReadRanges(ctx context.Context, targets []Range) ([]*Response, error) {
	ranges := CoalesceRanges(targets)
	var answers []*Response
	for _, r := range ranges {
		resp, err := p.issueRead(ctx, r)
		if err != nil {
			p.diag.Warn("read %s: %v", r, err)
			continue
		}
		answers = append(answers, resp)
	}
	return MergeResponses(answers, p.diag), nil
}

// issueRead splits r into at-most-maxFrameData chunks (a physical
// frame can carry only so many payload bytes), issues one
// GetParameter per chunk, and merges the pieces back into one
// Response covering all of r.
func (p *Planner) issueRead(ctx context.Context, r Range) (*Response, error) {
	var merged *Response
	for _, chunk := range splitByMax(r, maxFrameData) {
		frame, err := NewReadFrame(OpGetParameter, chunk.Start, chunk.Len)
		if err != nil {
			return nil, err
		}
		answer, err := p.exchange(ctx, frame)
		if err != nil {
			return nil, err
		}
		parsed, err := frame.Parse(answer, p.diag)
		if err != nil {
			return nil, err
		}
		resp, ok := parsed.(*Response)
		if !ok {
			return nil, fmt.Errorf("unexpected ack for read frame at %s", chunk)
		}
		if merged == nil {
			merged = resp
		} else if err := merged.Union(resp, p.diag); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// exchange opens a transport for exactly this one request/response
// pair and closes it before returning, whether or not the exchange
// succeeded.
func (p *Planner) exchange(ctx context.Context, frame *Frame) ([]byte, error) {
	transport, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("open transport: %w", err)
	}
	defer transport.Close()

	if err := transport.Write(ctx, frame.Bytes()); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}
	answer, err := transport.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return answer, nil
}

func splitByMax(r Range, max int) []Range {
	if r.Len <= max {
		return []Range{r}
	}
	var out []Range
	for start := r.Start; start < r.End()+1; start += max {
		length := max
		if start+length > r.End()+1 {
			length = r.End() + 1 - start
		}
		out = append(out, Range{Start: start, Len: length})
	}
	return out
}

// sliceAnswers finds, within answers (assumed sorted by start), the
// first one containing r, and returns its bytes for r.
func sliceAnswers(answers []*Response, r Range) ([]byte, error) {
	for _, resp := range answers {
		if resp.Range.Contains(r) {
			return resp.Slice(r)
		}
	}
	return nil, fmt.Errorf("%w: no answer covers %s", ErrOutOfRange, r)
}

// ReadParameters reads and decodes a set of named parameters.
func (p *Planner) ReadParameters(ctx context.Context, params []Parameter) ([]Instance, error) {
	ranges := make([]Range, len(params))
	for i, pr := range params {
		ranges[i] = pr.Range()
	}
	answers, err := p.ReadRanges(ctx, ranges)
	if err != nil {
		return nil, err
	}
	out := make([]Instance, 0, len(params))
	for _, pr := range params {
		data, err := sliceAnswers(answers, pr.Range())
		if err != nil {
			p.diag.Warn("parameter %s: %v", pr.Name(), err)
			continue
		}
		out = append(out, pr.Decode(data, p.diag))
	}
	return out, nil
}

// WriteParameters performs the write algorithm (spec.md §4.6) for a
// set of desired parameter instances: read current bytes, encode each
// instance's value in place with a read-modify-write, split the
// merged ranges around immutable sub-ranges unless explicitly
// targeted, and issue SetParameter frames of at most maxFrameData bytes
// for each resulting chunk.
func (p *Planner) WriteParameters(ctx context.Context, instances []Instance) error {
	params := make([]Parameter, len(instances))
	for i, inst := range instances {
		params[i] = inst.Param
	}
	ranges := make([]Range, len(params))
	for i, pr := range params {
		ranges[i] = pr.Range()
	}
	coalesced := CoalesceRanges(ranges)

	answers, err := p.ReadRanges(ctx, coalesced)
	if err != nil {
		return err
	}

	for _, inst := range instances {
		old, err := sliceAnswers(answers, inst.Param.Range())
		if err != nil {
			p.diag.Warn("parameter %s: %v", inst.Param.Name(), err)
			continue
		}
		encoded := inst.Param.Encode(inst.Value, old, p.diag)
		if err := applyToAnswers(answers, inst.Param.Range(), encoded); err != nil {
			return err
		}
	}

	targeted := make(map[Range]bool, len(params))
	for _, r := range ranges {
		targeted[r] = true
	}

	for _, merged := range coalesced {
		for _, chunk := range splitAroundImmutable(merged, targeted) {
			data, err := sliceAnswers(answers, chunk)
			if err != nil {
				p.diag.Warn("write %s: %v", chunk, err)
				continue
			}
			if err := p.issueWrite(ctx, chunk, data); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyToAnswers(answers []*Response, r Range, data []byte) error {
	for _, resp := range answers {
		if resp.Range.Contains(r) {
			return resp.SetSlice(r, data)
		}
	}
	return fmt.Errorf("%w: no answer covers %s", ErrOutOfRange, r)
}

// splitAroundImmutable returns the physical write chunks for merged:
// the whole range, unless it contains an immutable sub-range not
// explicitly targeted, in which case that sub-range is subtracted out
// (spec.md §4.6 step 4).
func splitAroundImmutable(merged Range, targeted map[Range]bool) []Range {
	chunks := []Range{merged}
	for _, p := range catalog {
		if !p.Immutable() {
			continue
		}
		imm := p.Range()
		if !merged.Contains(imm) || targeted[imm] {
			continue
		}
		var next []Range
		for _, c := range chunks {
			if c.Contains(imm) {
				next = append(next, c.Subtract(imm)...)
			} else {
				next = append(next, c)
			}
		}
		chunks = next
	}
	return chunks
}

func (p *Planner) issueWrite(ctx context.Context, r Range, data []byte) error {
	for _, chunk := range splitByMax(r, maxFrameData) {
		offset := chunk.Start - r.Start
		frame, err := NewWriteFrame(chunk.Start, data[offset:offset+chunk.Len])
		if err != nil {
			return err
		}
		answer, err := p.exchange(ctx, frame)
		if err != nil {
			return err
		}
		parsed, err := frame.Parse(answer, p.diag)
		if err != nil {
			p.diag.Warn("write %s: %v", chunk, err)
			continue
		}
		ack, ok := parsed.(bool)
		if !ok {
			return fmt.Errorf("unexpected response shape for write frame at %s", chunk)
		}
		if !ack {
			return fmt.Errorf("device rejected write at %s", chunk)
		}
	}
	return nil
}

// WriteRanges issues raw byte writes at explicit addresses (the
// "address set" command), bypassing the immutable-range splitting
// used for named parameters: an address write always writes exactly
// what was asked.
func (p *Planner) WriteRanges(ctx context.Context, ranges []Range, data [][]byte) error {
	coalesced := CoalesceRanges(ranges)
	answers, err := p.ReadRanges(ctx, coalesced)
	if err != nil {
		return err
	}
	for i, r := range ranges {
		if err := applyToAnswers(answers, r, data[i]); err != nil {
			return err
		}
	}
	for _, r := range coalesced {
		chunkData, err := sliceAnswers(answers, r)
		if err != nil {
			p.diag.Warn("write %s: %v", r, err)
			continue
		}
		if err := p.issueWrite(ctx, r, chunkData); err != nil {
			return err
		}
	}
	return nil
}

// ReadRecords reads decoded records from [start, stop) in step
// increments (spec.md §4.6 "Record read"). stop < 0 means "until
// terminator".
func (p *Planner) ReadRecords(ctx context.Context, protocolVersion byte, start, stop, step int) ([]*Record, error) {
	if step <= 0 {
		step = 1
	}
	const recordsPerFrame = maxFrameData / RecordLen // 51 / 8 = 6

	var out []*Record
	r := start
	for stop < 0 || r < stop {
		n := recordsPerFrame
		if stop >= 0 && r+n > stop {
			n = stop - r
		}
		if n <= 0 {
			break
		}
		fetchUnits := ceilDiv(n, step) * step
		fetchLen := fetchUnits + 1 - step

		frame, err := NewReadFrame(OpGetRecord, r, fetchLen)
		if err != nil {
			return nil, err
		}
		answer, err := p.exchange(ctx, frame)
		if err != nil {
			return nil, err
		}
		parsed, err := frame.Parse(answer, p.diag)
		if err != nil {
			p.diag.Warn("record read at %d: %v", r, err)
			break
		}
		resp, ok := parsed.(*Response)
		if !ok {
			return nil, fmt.Errorf("unexpected ack for record read at %d", r)
		}

		data := resp.Data
		if stop < 0 && allFF(data[:n*RecordLen]) {
			break
		}

		for i := 0; i < n; i += step {
			rec, err := DecodeRecord(data[i*RecordLen:(i+1)*RecordLen], protocolVersion, p.diag)
			if err != nil {
				return nil, err
			}
			if rec == nil {
				if stop < 0 {
					// Open-ended read: the terminator ends the data.
					return out, nil
				}
				// Explicit range: a terminator mid-range is a gap, not an end.
				out = append(out, nil)
				continue
			}
			out = append(out, rec)
		}

		r += fetchUnits
	}
	return out, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func allFF(data []byte) bool {
	for _, b := range data {
		if b != 0xFF {
			return false
		}
	}
	return true
}
