package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/thirdlang/thirdvm/internal/logio"
)

func main() {
	var (
		memLimit  uint
		timeout   time.Duration
		trace     int
		dump      bool
		raw       bool
		bounds    bool
		selfcheck bool
	)
	flag.UintVar(&memLimit, "mem-limit", 0, "enable a cell store address limit")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.IntVar(&trace, "trace", 0, "enable trace logging (0-2)")
	flag.BoolVar(&dump, "dump", false, "print a dictionary/stack dump after execution")
	flag.BoolVar(&raw, "raw", false, "put the terminal in raw mode when stdin is a tty")
	flag.BoolVar(&bounds, "bounds", false, "enable bounds-checked @/! access")
	flag.BoolVar(&selfcheck, "selfcheck", false, "run internal self-checks and exit")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	opts := []VMOption{
		withMemLimit(memLimit),
		withTrace(trace),
		withBounds(bounds),
		withOutput(os.Stdout),
	}
	for _, name := range flag.Args() {
		f, err := os.Open(name)
		if err != nil {
			log.Errorf("opening %v: %v", name, err)
			return
		}
		opts = append(opts, withInput(f))
	}
	opts = append(opts, withInput(os.Stdin))

	vm, err := newVM(opts...)
	if err != nil {
		log.Errorf("initializing vm: %v", err)
		return
	}
	defer vm.Close()
	vm.rawTermFd = os.Stdin.Fd()
	vm.log.SetOutput(os.Stderr)

	if selfcheck {
		if err := runSelfCheck(vm); err != nil {
			log.Errorf("selfcheck: %v", err)
			return
		}
		fmt.Println("selfcheck ok")
		return
	}

	if raw && isatty.IsTerminal(os.Stdin.Fd()) {
		if err := vm.term().On(); err == nil {
			defer vm.term().Off()
		}
	}

	if dump {
		lw := &logio.Writer{Logf: log.Leveledf("DUMP")}
		defer lw.Close()
		defer vmDumper{vm: vm, out: lw}.dump()
	}

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log.ErrorIf(vm.Run(ctx))
}

// runSelfCheck exercises a handful of core invariants concurrently for
// the -selfcheck flag; main reports the result and exits without
// starting the REPL.
func runSelfCheck(vm *VM) error {
	var g errgroup.Group

	g.Go(func() error {
		if _, found := vm.find("dup"); !found {
			return fmt.Errorf("builtin %q missing from dictionary", "dup")
		}
		return nil
	})
	g.Go(func() error {
		addr, err := vm.strs.AppendString("selfcheck")
		if err != nil {
			return fmt.Errorf("string store: %v", err)
		}
		if got := vm.strs.String(addr); got != "selfcheck" {
			return fmt.Errorf("string store round-trip: got %q", got)
		}
		return nil
	})
	g.Go(func() error {
		scratch := vm.here() + 4096
		if err := vm.cells.Stor(scratch, 42); err != nil {
			return fmt.Errorf("cell store: %v", err)
		}
		if v, _ := vm.cells.Load(scratch); v != 42 {
			return fmt.Errorf("cell store round-trip: got %v", v)
		}
		return nil
	})

	return g.Wait()
}
