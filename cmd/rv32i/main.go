// Command rv32i is the simulator's CLI entrypoint: load a raw program
// image into memory, optionally disassemble it, run it to completion (or
// to an instruction budget), and optionally dump the final state.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/capatsch/rv32i/internal/config"
	"github.com/capatsch/rv32i/internal/decode"
	"github.com/capatsch/rv32i/internal/driver"
	"github.com/capatsch/rv32i/internal/hart"
	"github.com/capatsch/rv32i/internal/loader"
	"github.com/capatsch/rv32i/internal/memory"
	"github.com/capatsch/rv32i/internal/tui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("rv32i", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		showDisasm  = fs.Bool("d", false, "print full disassembly of memory before execution")
		showTrace   = fs.Bool("i", false, "enable per-instruction execution trace")
		execLimit   = fs.String("l", "", "hex max instruction count; 0 = unlimited")
		memSize     = fs.String("m", "", "hex memory size in bytes (default 0x100)")
		showRegs    = fs.Bool("r", false, "dump registers before each tick")
		dumpAtEnd   = fs.Bool("z", false, "dump registers and memory after execution")
		configPath  = fs.String("c", "", "path to TOML config file (default ./rv32i.toml)")
		debugMode   = fs.Bool("debug", false, "start the interactive TUI debugger instead of running to completion")
	)
	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		printUsage(stderr)
		return 1
	}
	infile := fs.Arg(0)

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	memSizeVal, err := resolveHex(*memSize, cfg.Execution.DefaultMemSize)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -m value: %v\n", err)
		return 1
	}
	execLimitVal, err := resolveHex(*execLimit, cfg.Execution.DefaultExecLimit)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -l value: %v\n", err)
		return 1
	}

	mem := memory.New(memSizeVal, stderr)
	if err := loader.LoadFile(infile, mem); err != nil {
		fmt.Fprintln(stderr, err)
		printUsage(stderr)
		return 1
	}

	h := hart.New(mem)
	h.ShowInstructions = *showTrace
	h.ShowRegisters = *showRegs
	h.MHartID = cfg.Execution.MHartID
	h.Out = stdout

	if *showDisasm {
		fmt.Fprint(stdout, decode.DisassembleRange(mem.Get32, 0, mem.Size()))
	}

	if *debugMode {
		d := tui.New(h, mem)
		if err := d.Run(); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	result := driver.Run(h, uint64(execLimitVal), "")
	fmt.Fprint(stdout, result.Report())

	if *dumpAtEnd {
		fmt.Fprint(stdout, h.Dump(""))
		fmt.Fprint(stdout, mem.Dump())
	}

	return 0
}

// resolveHex parses a hex flag value, falling back to a config-supplied
// hex string (itself defaulting to the hardcoded spec default) when the
// flag wasn't given on the command line.
func resolveHex(flagVal, configVal string) (uint32, error) {
	s := flagVal
	if s == "" {
		s = configVal
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "usage: rv32i [-d] [-i] [-l exec-limit-hex] [-m mem-size-hex] [-r] [-z] [-c config-path] [-debug] infile")
}
