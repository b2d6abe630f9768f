package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/guslan/vip8"
	"github.com/guslan/vip8/console"
	"github.com/guslan/vip8/gui"
)

var level = new(slog.LevelVar)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func main() {
	autostart := flag.Bool("start", false, "Starts the console automatically if there is a program loaded (defaults = false).")
	debug := flag.Bool("debug", false, "Log every executed instruction (defaults = false).")
	quirks := flag.String("quirks", "", "comma separated quirks: shift, vfreset, memory, jump or vip")
	stepsPerFrame := flag.Uint("xframes", console.DefaultStepsPerFrame, fmt.Sprintf("The number of steps that run between each frame. It has to be in the range [%d, %d] (defaults = %d).", console.MinStepsPerFrame, console.MaxStepsPerFrame, console.DefaultStepsPerFrame))

	flag.Parse()

	if *debug {
		level.Set(slog.LevelDebug)
	}

	q, err := vip8.ParseQuirks(*quirks)
	if err != nil {
		log.Fatalln(err)
	}

	app := gui.NewApp(func(config *gui.AppConfig) {
		config.StepsPerFrame = *stepsPerFrame
		config.Quirks = q
	})

	if flag.NArg() > 0 {
		app.Load(flag.Arg(0))
	}

	app.Run(*autostart)
}
