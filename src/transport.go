package elitech

/*------------------------------------------------------------------
 *
 * Purpose:	Byte-channel transport to a hidraw device node. The
 *		report-descriptor parser that would give an authoritative
 *		report size lives outside this module; a best-effort
 *		sysfs read stands in until one is wired up.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/sys/unix"
)

const defaultReportSize = 64

// Transport is an opaque byte channel to a device: one Write of a
// request frame, one Read of the answer. Implementations pad/truncate
// to their own report size; callers never see that detail.
type Transport interface {
	OutReportSize() int
	InReportSize() int
	Write(ctx context.Context, frame []byte) error
	Read(ctx context.Context) ([]byte, error)
	Close() error
}

var reportSizeGroup singleflight.Group

// HidrawTransport talks to a /dev/hidrawN node.
type HidrawTransport struct {
	path   string
	file   *os.File
	outLen int
	inLen  int
}

// OpenHidraw opens path for a single write/read exchange. Callers
// should Close it immediately after use rather than holding it open
// across commands.
func OpenHidraw(path string) (*HidrawTransport, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	size := resolveReportSize(path)
	return &HidrawTransport{path: path, file: f, outLen: size, inLen: size}, nil
}

func (t *HidrawTransport) OutReportSize() int { return t.outLen }
func (t *HidrawTransport) InReportSize() int  { return t.inLen }

func (t *HidrawTransport) Close() error {
	return t.file.Close()
}

// Write pads frame to OutReportSize with zeros and issues it as a
// single write.
func (t *HidrawTransport) Write(ctx context.Context, frame []byte) error {
	request := make([]byte, t.outLen)
	copy(request, frame)
	_, err := t.file.Write(request)
	return err
}

// Read reads exactly InReportSize bytes. An interrupted read or a
// cancelled context yields a zero-filled buffer instead of an error,
// matching the device's best-effort read semantics.
func (t *HidrawTransport) Read(ctx context.Context) ([]byte, error) {
	buf := make([]byte, t.inLen)
	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := t.file.Read(buf)
		done <- result{n, err}
	}()

	select {
	case <-ctx.Done():
		return make([]byte, t.inLen), nil
	case r := <-done:
		if r.err != nil {
			if r.err == unix.EINTR {
				return make([]byte, t.inLen), nil
			}
			return nil, fmt.Errorf("read %s: %w", t.path, r.err)
		}
		return buf, nil
	}
}

var reportSizeCache sync.Map // path -> int

// resolveReportSize derives a report byte count from the length of the
// hidraw node's report_descriptor sysfs attribute, memoized per path
// via singleflight so concurrent opens of the same device don't
// re-stat sysfs redundantly. It is not a descriptor parse: it is a
// coarse stand-in used only when nothing more authoritative is wired
// in, and falls back to 64 bytes, the size this family of loggers uses
// in practice.
func resolveReportSize(path string) int {
	if v, ok := reportSizeCache.Load(path); ok {
		return v.(int)
	}
	v, _, _ := reportSizeGroup.Do(path, func() (any, error) {
		size := defaultReportSize
		if n, err := descriptorLength(path); err == nil && n > 0 {
			size = n
		}
		reportSizeCache.Store(path, size)
		return size, nil
	})
	return v.(int)
}

func descriptorLength(devPath string) (int, error) {
	name := filepath.Base(devPath)
	info, err := os.Stat(filepath.Join("/sys/class/hidraw", name, "device", "report_descriptor"))
	if err != nil {
		return 0, err
	}
	return int(info.Size()), nil
}

func readSysfsHex(path string) (uint16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	s := string(data)
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}
