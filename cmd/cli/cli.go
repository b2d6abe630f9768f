/*
 *   Copyright (c) 2024 Gustavo Lopez <git.gustavolopez.xyz@gmail.com>
 *   All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/guslan/vip8"
	"github.com/guslan/vip8/console"
)

var level = new(slog.LevelVar)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	debug := flag.Bool("debug", false, "Log every executed instruction (defaults = false).")
	noTerm := flag.Bool("noterm", false, "turn off the terminal display of the emulator")
	disasm := flag.Bool("disasm", false, "print the disassembly of the rom and exit")
	quirks := flag.String("quirks", "", "comma separated quirks: shift, vfreset, memory, jump or vip")
	stepsPerFrame := flag.Uint("xframes", console.DefaultStepsPerFrame, fmt.Sprintf("The number of steps that run between each frame (defaults = %d).", console.DefaultStepsPerFrame))

	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalln("must provide the path to a rom as an argument")
	}
	if *debug {
		level.Set(slog.LevelDebug)
	}

	program, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}

	if *disasm {
		printListing(program)
		return
	}

	q, err := vip8.ParseQuirks(*quirks)
	if err != nil {
		log.Fatalln(err)
	}

	m := vip8.NewMachine(func(config *vip8.MachineConfig) {
		config.Quirks = q
	})

	var d console.Display
	var b console.Buzzer
	if *noTerm || !term.IsTerminal(int(os.Stdout.Fd())) {
		d = console.NewDummyDisplay()
		b = console.NewDummyBuzzer()
	} else {
		d = console.NewTerminalDisplay()
		b = console.NewTerminalBuzzer()
	}

	runner := console.NewRunner(m, d, b, func(config *console.RunnerConfig) {
		config.StepsPerFrame = *stepsPerFrame
	})
	if err := runner.Load(program); err != nil {
		log.Fatalln(err)
	}
	if err := runner.Boot(); err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kb := console.NewTerminalKeyboard(runner, console.DefaultKeyboardLayout)
	kb.OnQuit = stop
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if err := kb.Boot(); err != nil {
			log.Fatalln(err)
		}
	}

	err = runner.Run(ctx)
	kb.Close()
	if err != nil {
		log.Fatalln(err)
	}
}

func printListing(program []byte) {
	addr := color.New(color.FgCyan).SprintFunc()
	word := color.New(color.Faint).SprintFunc()
	data := color.New(color.FgRed).SprintFunc()

	for _, line := range vip8.DisassembleProgram(program) {
		text := line.Text
		if strings.HasPrefix(text, "DW") || strings.HasPrefix(text, "DB") {
			text = data(text)
		}
		fmt.Fprintf(color.Output, "%s: %s  %s\n", addr(fmt.Sprintf("%03X", line.Addr)), word(fmt.Sprintf("%04X", line.OpCode)), text)
	}
}
