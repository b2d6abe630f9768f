package gui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"unicode"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/vip8"
	"github.com/guslan/vip8/console"
)

const (
	ToolbarGap       = 5
	ToolbarBtnWidth  = 80
	ToolbarBtnHeight = 40
	ToolbarHeight    = 50
	ToolbarBtnOffset = ToolbarBtnWidth + ToolbarGap

	ScreenPixelSize = 15
	ScreenPositionX = 0
	ScreenPositionY = ToolbarHeight + 1

	MessageBarGap   = 5
	MessageBarHeigh = 30
)

var MessageBarBgColor = rl.DarkGray
var MessageBarInfoColor = rl.SkyBlue
var MessageBarSuccessColor = rl.Lime
var MessageBarWarningColor = rl.Gold
var MessageBarErrorColor = rl.Red

type MessageType byte

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

type AppConfig struct {
	StepsPerFrame  uint
	KeyboardLayout console.KeyboardLayout
	Quirks         vip8.Quirks
	Logger         *slog.Logger
}
type AppConfigCb func(config *AppConfig)

type App struct {
	*console.DummyBuzzer

	runner *console.Runner
	logger *slog.Logger

	// Steps per frame, as a float for the slider
	stepsPerFrame float32

	screenMu sync.Mutex
	screen   vip8.Screen

	// raylib key code to console key
	keyboardLookupMap map[int32]byte
	keysDown          vip8.KeyboardState

	// Window width and height
	winW, winH int

	// Toolbar
	startBtn, stopBtn, stepBtn, restBtn bool

	loadedProgramPath string

	messageMu        sync.Mutex
	lastMessage      string
	lastMessageColor rl.Color
}

func NewApp(configs ...AppConfigCb) *App {
	config := &AppConfig{
		StepsPerFrame:  console.DefaultStepsPerFrame,
		KeyboardLayout: console.DefaultKeyboardLayout,
		Logger:         slog.Default(),
	}
	for _, cb := range configs {
		cb(config)
	}

	app := &App{
		DummyBuzzer:       console.NewDummyBuzzer(),
		logger:            config.Logger,
		keyboardLookupMap: map[int32]byte{},
	}

	m := vip8.NewMachine(func(mc *vip8.MachineConfig) {
		mc.Quirks = config.Quirks
		mc.Logger = config.Logger
	})
	app.runner = console.NewRunner(m, app, app.DummyBuzzer, func(rc *console.RunnerConfig) {
		rc.StepsPerFrame = config.StepsPerFrame
		rc.Logger = config.Logger
	})
	app.stepsPerFrame = float32(app.runner.StepsPerFrame())

	app.updateKeyboardLookupMap(config.KeyboardLayout)
	app.updateWindowSize()

	return app
}

// Run starts the console paused and runs the UI loop until the window closes
func (app *App) Run(autostart bool) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.runner.Boot(); err != nil {
		app.logger.Error("Error booting the console", slog.Any("error", err))
		return
	}
	if !(autostart && app.hasProgramLoaded()) {
		app.runner.Stop()
	}

	go app.runConsole(ctx)

	rl.InitWindow(int32(app.winW), int32(app.winH), "vip8")
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)
	for !rl.WindowShouldClose() {
		rl.BeginDrawing()

		rl.ClearBackground(rl.Black)

		app.handleFileLoad()
		app.handleActions()
		app.handleKeyPress()
		app.updateStepsPerFrame()

		app.drawMessageBar()
		app.drawScreen()
		app.drawToolbar()

		rl.EndDrawing()
	}
}

// runConsole keeps the runner going: a fault pauses it and the loop waits for a reset
func (app *App) runConsole(ctx context.Context) {
	for {
		err := app.runner.Run(ctx)
		if err == nil {
			return
		}

		app.showMessage(err.Error(), MessageError)
		app.logger.Error("Console halted", slog.Any("error", err))
	}
}

// Load reads the program from path and loads it
func (app *App) Load(path string) {
	program, err := os.ReadFile(path)
	if err != nil {
		app.logger.Error("Error loading program", slog.String("path", path), slog.Any("error", err))
		app.showMessage(err.Error(), MessageError)
		return
	}

	if err = app.runner.Load(program); err != nil {
		app.logger.Error("Error loading program", slog.String("path", path), slog.Any("error", err))
		app.showMessage(err.Error(), MessageError)
		return
	}

	app.loadedProgramPath = path
	app.logger.Info("Program loaded", slog.String("path", path))
	app.showMessage(fmt.Sprintf("Program '%s' loaded", app.loadedProgramPath), MessageInfo)
}

func (app *App) updateWindowSize() {
	app.winW = vip8.ScreenWidth * ScreenPixelSize
	app.winH = vip8.ScreenHeight*ScreenPixelSize + ToolbarHeight + MessageBarHeigh
	app.logger.Info("Updating window size", slog.Int("width", app.winW), slog.Int("height", app.winH))
}

// raylib key codes of letters and digits are their upper case ASCII values
func (app *App) updateKeyboardLookupMap(layout console.KeyboardLayout) {
	for r, k := range layout.LookupMap() {
		app.keyboardLookupMap[int32(unicode.ToUpper(r))] = k
	}
}

func (app *App) handleFileLoad() {
	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		defer rl.UnloadDroppedFiles()

		app.logger.Info("Files were dropped", "files", strings.Join(files, ","))

		if len(files) > 0 {
			app.Load(files[0])
		}
	}
}

func (app *App) hasProgramLoaded() bool {
	return len(app.loadedProgramPath) > 0
}

func (app *App) handleActions() {
	if app.startBtn {
		if app.hasProgramLoaded() {
			app.runner.Start()
			app.logger.Info("Starting the console")
		} else {
			app.showMessage(vip8.ErrNoProgram.Error(), MessageError)
		}
	}
	if app.stopBtn {
		app.runner.Stop()
		app.logger.Info("Stopping the console")
	}
	if app.restBtn {
		if err := app.runner.Reset(); err != nil {
			app.showMessage(err.Error(), MessageError)
		} else {
			app.showMessage("Program reset", MessageInfo)
		}
		app.logger.Info("Resetting the program to the beginning")
	}
	if app.stepBtn {
		if err := app.runner.Step(); err != nil {
			app.showMessage(err.Error(), MessageError)
		}
		app.logger.Info("Running a single step")
	}
}

// handleKeyPress forwards only the keys whose state changed
func (app *App) handleKeyPress() {
	for keyCode, key := range app.keyboardLookupMap {
		down := rl.IsKeyDown(keyCode)
		if down == app.keysDown[key] {
			continue
		}
		app.keysDown[key] = down

		if down {
			app.runner.KeyDown(key)
		} else {
			app.runner.KeyUp(key)
		}
	}
}

func (app *App) updateStepsPerFrame() {
	app.runner.SetStepsPerFrame(uint(app.stepsPerFrame))
}

const (
	MinStepsPerFrame = float32(console.MinStepsPerFrame)
	MaxStepsPerFrame = float32(console.MaxStepsPerFrame)
)

func (app *App) drawToolbar() {
	rl.DrawRectangle(0, 0, int32(rl.GetScreenWidth()), ToolbarHeight, rl.Gray)

	app.startBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*0, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_PLAY, "Start"),
	)
	app.stopBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*1, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_STOP, "Stop"),
	)
	app.stepBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*2, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_NEXT, "Step"),
	)
	app.restBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*3, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_ROTATE, "Reset"),
	)

	status := "Stopped"
	if app.runner.IsRunning() {
		status = "Running"
	}
	gui.Label(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*4, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		status,
	)

	gui.Label(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150, 26, 60, 20),
		fmt.Sprintf("%d/frame", uint(app.stepsPerFrame)),
	)

	if gui.Button(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150+60, 26, 40, 20),
		gui.IconText(gui.ICON_ROTATE, ""),
	) {
		app.stepsPerFrame = float32(console.DefaultStepsPerFrame)
	}

	app.stepsPerFrame = gui.Slider(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150, ToolbarGap, 100, 20),
		"1", "100",
		app.stepsPerFrame,
		MinStepsPerFrame,
		MaxStepsPerFrame,
	)
}

func (app *App) showMessage(msg string, mType MessageType) {
	app.messageMu.Lock()
	defer app.messageMu.Unlock()

	app.lastMessage = msg
	switch mType {
	case MessageInfo:
		app.lastMessageColor = MessageBarInfoColor

	case MessageSuccess:
		app.lastMessageColor = MessageBarSuccessColor

	case MessageWarning:
		app.lastMessageColor = MessageBarWarningColor

	case MessageError:
		app.lastMessageColor = MessageBarErrorColor
	}
}

func (app *App) drawMessageBar() {
	app.messageMu.Lock()
	msg, c := app.lastMessage, app.lastMessageColor
	app.messageMu.Unlock()

	rl.DrawRectangle(
		0,
		int32(app.winH)-MessageBarHeigh,
		int32(app.winW),
		MessageBarHeigh,
		MessageBarBgColor,
	)

	rl.DrawText(
		msg,
		MessageBarGap,
		int32(app.winH)-MessageBarHeigh+MessageBarGap,
		16,
		c,
	)
}
