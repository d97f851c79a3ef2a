/*------------------------------------------------------------------
 *
 * Purpose:	Command-line front-end for the Elitech USB-HID data
 *		logger driver.
 *
 * Description:	Parses global flags and a positional command line,
 *		dispatches to the library in package elitech, and prints
 *		results to stdout. Runtime warnings go to the diagnostic
 *		sink and never change the process exit code.
 *
 *------------------------------------------------------------------*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	elitech "github.com/elitech-go/elitech/src"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("elitech", pflag.ContinueOnError)
	devPath := flags.StringP("dev", "d", "", "path to the device's hidraw node")
	showVersion := flags.BoolP("version", "v", false, "print the version and exit")
	timeFormat := flags.StringP("time-format", "T", "", "'strftime' format string for record timestamps")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: elitech [-d PATH] command [args...]\n\n")
		elitech.RunHelp(os.Stderr, "")
		fmt.Fprintln(os.Stderr)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Println(version)
		return 0
	}
	elitech.RecordTimeFormat = *timeFormat

	cmds := flags.Args()
	if len(cmds) == 0 {
		flags.Usage()
		return 2
	}

	diag := elitech.NewDiagnostics(log.Default())
	reg := elitech.NewRegistry()
	ctx := context.Background()

	if err := dispatch(ctx, cmds, *devPath, reg, diag); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func dispatch(ctx context.Context, cmds []string, devPath string, reg *elitech.Registry, diag elitech.Diagnostics) error {
	switch {
	case matches(cmds, "help"):
		topic := ""
		if len(cmds) > 1 {
			topic = joinRest(cmds, 1)
		}
		elitech.RunHelp(os.Stdout, topic)
		return nil

	case matches(cmds, "device", "list"):
		return elitech.RunDeviceList(os.Stdout, elitech.DefaultDeviceCatalog())

	case matches(cmds, "parameter", "list"):
		elitech.RunParameterList(os.Stdout, reg)
		return nil

	case matches(cmds, "parameter", "get"):
		planner, err := openPlanner(devPath, diag)
		if err != nil {
			return err
		}
		return elitech.RunParameterGet(ctx, os.Stdout, planner, reg, diag, cmds[2:])

	case matches(cmds, "parameter", "set"):
		planner, err := openPlanner(devPath, diag)
		if err != nil {
			return err
		}
		assignments := elitech.ParseParameterAssignments(cmds[2:])
		return elitech.RunParameterSet(ctx, planner, reg, diag, assignments)

	case matches(cmds, "address", "get"):
		ranges, err := parseRanges(cmds[2:])
		if err != nil {
			return err
		}
		planner, err := openPlanner(devPath, diag)
		if err != nil {
			return err
		}
		return elitech.RunAddressGet(ctx, os.Stdout, planner, ranges)

	case matches(cmds, "address", "set"):
		ranges, data, err := parseAddressWrites(cmds[2:])
		if err != nil {
			return err
		}
		planner, err := openPlanner(devPath, diag)
		if err != nil {
			return err
		}
		return elitech.RunAddressSet(ctx, planner, ranges, data)

	case matches(cmds, "record", "get"):
		selector := ""
		if len(cmds) > 2 {
			selector = cmds[2]
		}
		start, stop, step, err := elitech.ParseRecordRange(selector)
		if err != nil {
			return err
		}
		planner, err := openPlanner(devPath, diag)
		if err != nil {
			return err
		}
		protocolVersion, err := readProtocolVersion(ctx, planner, reg, diag)
		if err != nil {
			return err
		}
		return elitech.RunRecordGet(ctx, os.Stdout, planner, protocolVersion, start, stop, step)

	default:
		return fmt.Errorf("%w: %s", elitech.ErrUnknownCommand, joinRest(cmds, 0))
	}
}

func readProtocolVersion(ctx context.Context, planner *elitech.Planner, reg *elitech.Registry, diag elitech.Diagnostics) (byte, error) {
	p, err := reg.Lookup("protocol-version")
	if err != nil {
		return 0, err
	}
	instances, err := planner.ReadParameters(ctx, []elitech.Parameter{p})
	if err != nil {
		return 0, err
	}
	if len(instances) == 0 {
		diag.Warn("could not read protocol-version, assuming 0x20")
		return 0x20, nil
	}
	return byte(instances[0].Value.(uint64)), nil
}

// openPlanner builds a Planner that opens devPath's hidraw node anew
// for every request/response pair it issues, rather than holding one
// file descriptor open across a whole command.
func openPlanner(devPath string, diag elitech.Diagnostics) (*elitech.Planner, error) {
	if devPath == "" {
		return nil, fmt.Errorf("no device path given (use -d/--dev)")
	}
	open := func() (elitech.Transport, error) {
		return elitech.OpenHidraw(devPath)
	}
	return elitech.NewPlanner(open, diag), nil
}

func matches(cmds []string, prefix ...string) bool {
	if len(cmds) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if cmds[i] != p {
			return false
		}
	}
	return true
}

func joinRest(cmds []string, from int) string {
	out := ""
	for i := from; i < len(cmds); i++ {
		if i > from {
			out += " "
		}
		out += cmds[i]
	}
	return out
}

func parseRanges(tokens []string) ([]elitech.Range, error) {
	ranges := make([]elitech.Range, 0, len(tokens))
	for _, t := range tokens {
		r, err := elitech.RangeFromString(t)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func parseAddressWrites(tokens []string) ([]elitech.Range, [][]byte, error) {
	var ranges []elitech.Range
	var data [][]byte
	i := 0
	for i < len(tokens) {
		r, err := elitech.RangeFromString(tokens[i])
		if err != nil {
			return nil, nil, err
		}
		i++
		if i+r.Len > len(tokens) {
			return nil, nil, fmt.Errorf("not enough data for range: %s", r)
		}
		bytesOut := make([]byte, r.Len)
		for j := 0; j < r.Len; j++ {
			b, err := elitech.ParseByteLiteral(tokens[i+j])
			if err != nil {
				return nil, nil, err
			}
			bytesOut[j] = b
		}
		ranges = append(ranges, r)
		data = append(data, bytesOut)
		i += r.Len
	}
	return ranges, data, nil
}
