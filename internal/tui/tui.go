// Package tui implements an interactive step/continue/breakpoint debugger
// over a hart, built on the same tcell/tview stack the teacher's debugger
// package uses for its full-screen interface, scaled down to the commands
// this simulator's spec calls for: step, continue, break, delete,
// breakpoints, regs, mem, quit.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/capatsch/rv32i/internal/decode"
	"github.com/capatsch/rv32i/internal/driver"
	"github.com/capatsch/rv32i/internal/hart"
	"github.com/capatsch/rv32i/internal/memory"
)

// TUI is the full-screen interactive debugger: a disassembly view, a
// register view, a memory view, a scrolling output log, and a command line.
type TUI struct {
	Hart        *hart.Hart
	Mem         *memory.Memory
	Breakpoints *BreakpointManager

	App          *tview.Application
	MainLayout   *tview.Flex
	DisasmView   *tview.TextView
	RegisterView *tview.TextView
	MemoryView   *tview.TextView
	OutputView   *tview.TextView
	CommandInput *tview.InputField

	memAddr uint32
}

// New builds a TUI bound to h and mem, ready to run.
func New(h *hart.Hart, mem *memory.Memory) *TUI {
	driver.SeedStackPointer(h.Regs, mem.Size())
	t := &TUI{
		Hart:        h,
		Mem:         mem,
		Breakpoints: NewBreakpointManager(),
		App:         tview.NewApplication(),
	}
	t.initViews()
	t.buildLayout()
	t.setupKeyBindings()
	t.refresh()
	return t
}

func (t *TUI) initViews() {
	t.DisasmView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.DisasmView.SetBorder(true).SetTitle(" Disassembly ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true).SetScrollable(false)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.DisasmView, 0, 2, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(t.RegisterView, 10, 0, false).
			AddItem(t.MemoryView, 0, 1, false), 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.run("continue")
			return nil
		case tcell.KeyF11:
			t.run("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd != "" {
		t.run(cmd)
		t.CommandInput.SetText("")
	}
}

// Run starts the tview event loop. It blocks until the user quits.
func (t *TUI) Run() error {
	return t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
}

func (t *TUI) writeOutput(format string, args ...any) {
	fmt.Fprintf(t.OutputView, format, args...)
	t.OutputView.ScrollToEnd()
}

// run executes one command line and refreshes every panel.
func (t *TUI) run(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "step", "s":
		t.Hart.Tick("")
		t.writeOutput("stepped to pc=0x%08x\n", t.Hart.PC)

	case "continue", "c":
		t.cmdContinue()

	case "break", "b":
		t.cmdBreak(fields)

	case "delete", "d":
		t.cmdDelete(fields)

	case "breakpoints", "bl":
		t.cmdListBreakpoints()

	case "regs", "r":
		t.writeOutput("%s", t.Hart.Dump(""))

	case "mem", "m":
		t.cmdMem(fields)

	case "quit", "q":
		t.App.Stop()

	default:
		t.writeOutput("unknown command: %s\n", fields[0])
	}
	t.refresh()
}

func (t *TUI) cmdContinue() {
	for !t.Hart.Halted {
		t.Hart.Tick("")
		if t.Breakpoints.Has(t.Hart.PC) {
			t.writeOutput("breakpoint hit at 0x%08x\n", t.Hart.PC)
			return
		}
	}
	t.writeOutput("halted: %s\n", t.Hart.HaltReason)
}

func (t *TUI) cmdBreak(fields []string) {
	if len(fields) < 2 {
		t.writeOutput("usage: break <hex-address>\n")
		return
	}
	addr, err := parseHex(fields[1])
	if err != nil {
		t.writeOutput("bad address %q: %v\n", fields[1], err)
		return
	}
	bp := t.Breakpoints.Add(addr)
	t.writeOutput("breakpoint %d at 0x%08x\n", bp.ID, bp.Address)
}

func (t *TUI) cmdDelete(fields []string) {
	if len(fields) < 2 {
		t.writeOutput("usage: delete <hex-address>\n")
		return
	}
	addr, err := parseHex(fields[1])
	if err != nil {
		t.writeOutput("bad address %q: %v\n", fields[1], err)
		return
	}
	if err := t.Breakpoints.DeleteAt(addr); err != nil {
		t.writeOutput("%v\n", err)
	}
}

func (t *TUI) cmdListBreakpoints() {
	bps := t.Breakpoints.List()
	if len(bps) == 0 {
		t.writeOutput("no breakpoints\n")
		return
	}
	for _, bp := range bps {
		t.writeOutput("%d: 0x%08x\n", bp.ID, bp.Address)
	}
}

func (t *TUI) cmdMem(fields []string) {
	if len(fields) >= 2 {
		addr, err := parseHex(fields[1])
		if err != nil {
			t.writeOutput("bad address %q: %v\n", fields[1], err)
			return
		}
		t.memAddr = addr
	}
}

func parseHex(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	return uint32(v), err
}

// refresh re-renders the disassembly, register, and memory panels from
// current hart/memory state.
func (t *TUI) refresh() {
	t.DisasmView.Clear()
	pc := t.Hart.PC
	start := pc
	if start > 16 {
		start -= 16
	} else {
		start = 0
	}
	for addr := start; addr < start+64 && addr < t.Mem.Size(); addr += 4 {
		insn := t.Mem.Get32(addr)
		marker := "  "
		if addr == pc {
			marker = "=>"
		}
		fmt.Fprintf(t.DisasmView, "%s %08x: %s\n", marker, addr, decode.Disassemble(addr, insn))
	}

	t.RegisterView.Clear()
	fmt.Fprint(t.RegisterView, t.Hart.Dump(""))

	t.MemoryView.Clear()
	end := t.memAddr + 128
	if end > t.Mem.Size() {
		end = t.Mem.Size()
	}
	for addr := t.memAddr; addr < end; addr += 16 {
		fmt.Fprintf(t.MemoryView, "%08x:", addr)
		for j := uint32(0); j < 16 && addr+j < end; j++ {
			fmt.Fprintf(t.MemoryView, " %02x", t.Mem.Get8(addr+j))
		}
		fmt.Fprintln(t.MemoryView)
	}
}
