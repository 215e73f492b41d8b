// Package app wires configuration, the emulation core, and the presenter
// together into a runnable application.
package app

import (
	"errors"
	"fmt"
	"log"
	"os"

	"nesgo/internal/bus"
	"nesgo/internal/cartridge"
	"nesgo/internal/graphics"
)

// logger is the ambient diagnostic sink for cartridge load failures and
// decode diagnostics, matching the donor's plain-log style.
var logger = log.New(os.Stderr, "gones: ", log.LstdFlags)

// ApplicationError wraps a failure in one of the application's setup
// steps with the component and operation it occurred during.
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("application %s error during %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// Application owns the emulation core and the presenter it drives, and
// runs the step loop until the presenter reports closed.
type Application struct {
	config  *Config
	machine *bus.Machine

	presenter       graphics.Presenter
	ebitenPresenter *graphics.EbitenPresenter

	romPath string
}

// NewApplication builds an Application from config (NewConfig defaults are
// used if config is nil) and selects a headless or Ebitengine presenter.
func NewApplication(config *Config, headless bool) *Application {
	if config == nil {
		config = NewConfig()
	}

	app := &Application{config: config}
	if headless {
		app.presenter = graphics.NewHeadlessPresenter()
	} else {
		ep := graphics.NewEbitenPresenter("gones - Go NES Emulator", config.WindowScale, config.VSync)
		app.presenter = ep
		app.ebitenPresenter = ep
	}
	return app
}

// LoadROM loads a cartridge file and wires a fresh Machine around it,
// applying the configured strict-decode policy.
func (app *Application) LoadROM(romPath string) error {
	cart, err := cartridge.Load(romPath)
	if err != nil {
		logger.Printf("failed to load cartridge %s: %v", romPath, err)
		return &ApplicationError{Component: "cartridge", Operation: "load ROM", Err: err}
	}

	app.romPath = romPath
	app.config.ROMPath = romPath

	app.machine = bus.New(cart)
	app.machine.SetStrictDecode(app.config.StrictDecode)
	app.machine.SetUnrecognizedOpcodeHandler(func(opcode uint8, pc uint16) {
		logger.Printf("unrecognized opcode %#02x at %#04x", opcode, pc)
	})

	return nil
}

// Run drives the step loop until the presenter closes. With an Ebitengine
// presenter this hands the OS event loop to Ebitengine and blocks there;
// with a headless presenter it drives an explicit frame loop.
func (app *Application) Run() error {
	if app.machine == nil {
		return errors.New("application: no ROM loaded")
	}

	step := func() *[256 * 240]uint8 {
		app.machine.RunFrame()
		return app.machine.FrameBuffer()
	}

	if app.ebitenPresenter != nil {
		app.ebitenPresenter.SetStepFunc(step)
		return app.ebitenPresenter.Run()
	}

	for app.presenter.IsOpen() {
		app.presenter.Present(step())
	}
	return nil
}

// RunFrames drives up to n frames through the headless presenter, for
// automation and scripted runs, stopping early once the presenter reports
// closed. It does not apply to the Ebitengine path.
func (app *Application) RunFrames(n int) error {
	if app.machine == nil {
		return errors.New("application: no ROM loaded")
	}
	for i := 0; i < n && app.presenter.IsOpen(); i++ {
		app.machine.RunFrame()
		app.presenter.Present(app.machine.FrameBuffer())
	}
	return nil
}

// Stop closes a headless presenter, ending any loop driven by IsOpen. It has
// no effect on the Ebitengine presenter, which closes from its own window.
func (app *Application) Stop() {
	if hp, ok := app.presenter.(*graphics.HeadlessPresenter); ok {
		hp.Close()
	}
}

// Reset reinitializes the loaded machine to power-on state.
func (app *Application) Reset() {
	if app.machine != nil {
		app.machine.Reset()
	}
}

// GetConfig returns the application's configuration.
func (app *Application) GetConfig() *Config { return app.config }

// GetMachine returns the loaded Machine, or nil if no ROM has been loaded.
func (app *Application) GetMachine() *bus.Machine { return app.machine }

// GetROMPath returns the currently loaded ROM path.
func (app *Application) GetROMPath() string { return app.romPath }

// GetPresenter returns the application's presenter, for tests that need to
// inspect presented frames directly.
func (app *Application) GetPresenter() graphics.Presenter { return app.presenter }
