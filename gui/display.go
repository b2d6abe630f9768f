package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/vip8"
)

var ScreenBgColor = rl.Gold
var ScreenPixelColor = rl.Yellow

// Boot implements console.Display.
func (app *App) Boot() error {
	return nil
}

// Render implements console.Display.
// It runs on the console goroutine, drawing happens on the window goroutine.
func (app *App) Render(screen vip8.Screen) error {
	app.screenMu.Lock()
	app.screen = screen
	app.screenMu.Unlock()

	return nil
}

func (app *App) drawScreen() {
	app.screenMu.Lock()
	screen := app.screen
	app.screenMu.Unlock()

	for y := 0; y < vip8.ScreenHeight; y++ {
		for x := 0; x < vip8.ScreenWidth; x++ {
			c := ScreenBgColor
			if screen.At(x, y) {
				c = ScreenPixelColor
			}

			rl.DrawRectangle(
				ScreenPositionX+ScreenPixelSize*int32(x),
				ScreenPositionY+ScreenPixelSize*int32(y),
				ScreenPixelSize,
				ScreenPixelSize,
				c)
		}
	}
}
