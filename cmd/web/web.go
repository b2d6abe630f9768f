/*
 *   Copyright (c) 2024 Gustavo Lopez <git.gustavolopez.xyz@gmail.com>
 *   All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/guslan/vip8"
	"github.com/guslan/vip8/console"
	"github.com/guslan/vip8/web"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
}

func main() {
	port := flag.Int("port", 9999, "The port of the server (default = 9999)")
	stepsPerFrame := flag.Uint("xframes", console.DefaultStepsPerFrame, "Steps per frame")
	quirks := flag.String("quirks", "", "comma separated quirks: shift, vfreset, memory, jump or vip")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalln("must provide the path to a rom as an argument")
	}

	program, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}

	q, err := vip8.ParseQuirks(*quirks)
	if err != nil {
		log.Fatalln(err)
	}

	m := vip8.NewMachine(func(config *vip8.MachineConfig) {
		config.Quirks = q
	})
	server := web.NewServer(m, func(config *web.ServerConfig) {
		config.UseDebugger = true
		config.StepsPerFrame = *stepsPerFrame
	})

	if err := server.LoadProgram(program); err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := server.Listen(ctx, *port); err != nil {
		log.Fatalln(err)
	}
}
