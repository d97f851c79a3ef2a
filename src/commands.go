package elitech

/*------------------------------------------------------------------
 *
 * Purpose:	Business logic behind each CLI subcommand, independent of
 *		flag parsing and device opening (the CLI front-end wires
 *		these to a Transport and an output writer).
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// RecordTimeFormat is an optional strftime format string (set via the
// CLI's -T/--time-format flag) used to print record timestamps in
// "record get" output. Empty means the default "2006-01-02 15:04:05"
// layout.
var RecordTimeFormat string

func formatRecordTime(t time.Time) string {
	if RecordTimeFormat == "" {
		return t.Format("2006-01-02 15:04:05")
	}
	s, err := strftime.Format(RecordTimeFormat, t)
	if err != nil {
		return t.Format("2006-01-02 15:04:05")
	}
	return s
}

// RunHelp prints the available commands, or details on one of them.
func RunHelp(w io.Writer, topic string) {
	if topic == "" {
		fmt.Fprintln(w, "Available commands:")
		for _, c := range helpTopics {
			fmt.Fprintf(w, "  - %s %s (%s)\n", c.name, c.args, c.summary)
		}
		return
	}
	for _, c := range helpTopics {
		if c.name == topic {
			fmt.Fprintf(w, "%s %s\n    %s\n", c.name, c.args, c.summary)
			return
		}
	}
	fmt.Fprintf(w, "no command named %q\n", topic)
}

type helpTopic struct {
	name, args, summary string
}

var helpTopics = []helpTopic{
	{"help", "[command]", "give help on a command"},
	{"device list", "", "list available devices"},
	{"parameter list", "", "list available parameters and their meanings"},
	{"parameter get", "name...", "read configuration parameters"},
	{"parameter set", "(name=value | name value)...", "modify configuration parameters"},
	{"address get", "range...", "read data by address"},
	{"address set", "(range byte...)...", "write data by address"},
	{"record get", "[[first]:[step]:[last]]", "read and interpret stored records"},
}

// RunDeviceList enumerates attached devices and prints the ones
// matching catalog.
func RunDeviceList(w io.Writer, catalog []DeviceDescriptor) error {
	devices, err := Enumerate(catalog)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Available devices:")
	for _, d := range devices {
		fmt.Fprintf(w, "%s: %s (%04x:%04x)\n", d.Path, d.Descriptor.Name, d.VendorID, d.ProductID)
	}
	return nil
}

// RunParameterList prints every parameter's name and description.
func RunParameterList(w io.Writer, reg *Registry) {
	fmt.Fprintln(w, "Available parameters:")
	for _, p := range reg.All() {
		fmt.Fprintf(w, "  - %s: %s\n", p.Name(), p.Description())
	}
}

// RunParameterGet reads and prints named parameters.
func RunParameterGet(ctx context.Context, w io.Writer, planner *Planner, reg *Registry, diag Diagnostics, names []string) error {
	var params []Parameter
	for _, name := range names {
		p, err := reg.Lookup(name)
		if err != nil {
			diag.Warn("ignoring unknown parameter: %s", name)
			continue
		}
		params = append(params, p)
	}
	if len(params) == 0 && len(names) != 0 {
		return fmt.Errorf("all parameters have been ignored")
	}
	if len(params) == 0 {
		params = reg.All()
	}

	instances, err := planner.ReadParameters(ctx, params)
	if err != nil {
		return err
	}
	for _, inst := range instances {
		fmt.Fprintf(w, "%s: %s\n", inst.Param.Name(), inst.Text())
	}
	return nil
}

// ParameterAssignment is one "name=value" or "name value" pair for
// "parameter set".
type ParameterAssignment struct {
	Name, Value string
}

// ParseParameterAssignments splits a flat argument list into
// assignments, accepting both "name=value" tokens and "name value"
// pairs.
func ParseParameterAssignments(args []string) []ParameterAssignment {
	var out []ParameterAssignment
	i := 0
	for i < len(args) {
		if name, value, ok := strings.Cut(args[i], "="); ok {
			out = append(out, ParameterAssignment{name, value})
			i++
			continue
		}
		if i < len(args)-1 {
			out = append(out, ParameterAssignment{args[i], args[i+1]})
			i += 2
			continue
		}
		i++ // trailing name with no value: dropped
	}
	return out
}

// RunParameterSet parses and writes a set of named parameters.
func RunParameterSet(ctx context.Context, planner *Planner, reg *Registry, diag Diagnostics, assignments []ParameterAssignment) error {
	var instances []Instance
	for _, a := range assignments {
		p, err := reg.Lookup(a.Name)
		if err != nil {
			diag.Warn("ignoring unknown parameter: %s", a.Name)
			continue
		}
		if !p.Writable() {
			diag.Warn("read-only parameter: %s", p.Name())
			continue
		}
		inst := p.Parse(a.Value, diag)
		if inst.Value == nil {
			diag.Warn("invalid value for parameter: %s", p.Name())
			continue
		}
		instances = append(instances, inst)
	}
	if len(instances) == 0 {
		return fmt.Errorf("all parameters have been ignored")
	}
	return planner.WriteParameters(ctx, instances)
}

// RunAddressGet reads raw bytes for explicit ranges.
func RunAddressGet(ctx context.Context, w io.Writer, planner *Planner, ranges []Range) error {
	answers, err := planner.ReadRanges(ctx, ranges)
	if err != nil {
		return err
	}
	for _, r := range ranges {
		data, err := sliceAnswers(answers, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s\n", r, formatHexBytes(data))
	}
	return nil
}

func formatHexBytes(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}

// RunAddressSet writes raw bytes at explicit ranges.
func RunAddressSet(ctx context.Context, planner *Planner, ranges []Range, data [][]byte) error {
	return planner.WriteRanges(ctx, ranges, data)
}

// ParseByteLiteral parses one byte in decimal, "0x", "0b", or
// leading-zero octal form, matching "address set"'s data syntax.
func ParseByteLiteral(s string) (byte, error) {
	n, err := parseIntLiteral(s)
	if err != nil || n > 0xFF {
		return 0, fmt.Errorf("invalid byte value: %s", s)
	}
	return byte(n), nil
}

// ParseRecordRange parses a "record get" selection of the form
// "[first]:[step]:[last]" (1-based, inclusive). Omitted fields default
// to "begin" (1), step 1, and "until terminator". The returned start
// and stop are 0-based and half-open; stop is -1 for "until
// terminator".
func ParseRecordRange(s string) (start, stop, step int, err error) {
	step = 1
	stop = -1
	if s == "" {
		return 0, -1, 1, nil
	}
	fields := strings.Split(s, ":")
	if len(fields) > 3 {
		return 0, 0, 0, fmt.Errorf("invalid record range: %s", s)
	}
	if len(fields) > 0 && fields[0] != "" {
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 1 {
			return 0, 0, 0, fmt.Errorf("invalid first record: %s", fields[0])
		}
		start = n - 1
	}
	if len(fields) > 1 && fields[1] != "" {
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return 0, 0, 0, fmt.Errorf("invalid step: %s", fields[1])
		}
		step = n
	}
	if len(fields) > 2 && fields[2] != "" {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 1 {
			return 0, 0, 0, fmt.Errorf("invalid last record: %s", fields[2])
		}
		stop = n
	}
	return start, stop, step, nil
}

// RunRecordGet reads and prints records in [start, stop) by step.
func RunRecordGet(ctx context.Context, w io.Writer, planner *Planner, protocolVersion byte, start, stop, step int) error {
	records, err := planner.ReadRecords(ctx, protocolVersion, start, stop, step)
	if err != nil {
		return err
	}
	index := start
	for _, rec := range records {
		switch {
		case rec == nil:
			fmt.Fprintf(w, "%4d\t----------\tNo data\n", index+1)
		case rec.Flags.Has(FlagPause):
			fmt.Fprintf(w, "%4d\t%s\tPause\n", index+1, formatRecordTime(rec.Time))
		case rec.Humidity == nil:
			fmt.Fprintf(w, "%4d\t%s\t%.1f°C\n", index+1, formatRecordTime(rec.Time), rec.Temperature)
		default:
			fmt.Fprintf(w, "%4d\t%s\t%.1f°C\t%.1f%%\n", index+1, formatRecordTime(rec.Time), rec.Temperature, *rec.Humidity)
		}
		index += step
	}
	return nil
}
