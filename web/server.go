package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guslan/vip8"
	"github.com/guslan/vip8/console"
)

const writeWait = time.Second

type Server struct {
	*console.DummyBuzzer

	runner *console.Runner
	config ServerConfig
	logger *slog.Logger

	// wsMutex guards the sockets and serializes writes to them
	wsMutex   sync.Mutex
	displays  map[*websocket.Conn]struct{}
	debuggers map[*websocket.Conn]struct{}
	last      vip8.Screen
}

type ServerConfig struct {
	StepsPerFrame uint
	UseDebugger   bool
	// StaticDir is served at /
	StaticDir string
	Logger    *slog.Logger
}
type ServerConfigCb func(config *ServerConfig)

func NewServer(m *vip8.Machine, configs ...ServerConfigCb) *Server {
	config := &ServerConfig{
		StepsPerFrame: console.DefaultStepsPerFrame,
		UseDebugger:   false,
		StaticDir:     "./static",
		Logger:        slog.Default(),
	}
	for _, cb := range configs {
		cb(config)
	}

	s := &Server{
		DummyBuzzer: console.NewDummyBuzzer(),

		config: *config,
		logger: config.Logger,

		displays:  map[*websocket.Conn]struct{}{},
		debuggers: map[*websocket.Conn]struct{}{},
	}

	s.runner = console.NewRunner(m, s, s.DummyBuzzer, func(rc *console.RunnerConfig) {
		rc.StepsPerFrame = config.StepsPerFrame
		rc.Logger = config.Logger
	})
	if config.UseDebugger {
		s.runner.AddAfterFrameHook(s.publishSnapshot)
	}

	return s
}

func (server *Server) Runner() *console.Runner {
	return server.runner
}

// LoadProgram loads the program into memory and sets the PC to the start-of-program address
func (server *Server) LoadProgram(program []byte) error {
	return server.runner.Load(program)
}

// Handler returns the routes of the console
func (server *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/", http.FileServer(http.Dir(server.config.StaticDir)))

	mux.HandleFunc("/start", server.control("Starting", func() error {
		server.runner.Start()
		return nil
	}))
	mux.HandleFunc("/stop", server.control("Stopping", func() error {
		server.runner.Stop()
		return nil
	}))
	mux.HandleFunc("/reset", server.control("Stopping and resetting", func() error {
		server.runner.Stop()
		return server.runner.Reset()
	}))
	mux.HandleFunc("/step", server.control("Single step", func() error {
		if err := server.runner.Step(); err != nil {
			return err
		}
		server.runner.Inspect(server.publishSnapshot)
		return nil
	}))
	mux.HandleFunc("/frame", server.control("Single frame", func() error {
		return server.runner.FrameOnce()
	}))
	mux.HandleFunc("/state", server.handleState)
	mux.HandleFunc("/display", server.handleDisplay)
	mux.HandleFunc("/keypad", server.handleKeypad)
	mux.HandleFunc("/debugger", server.handleDebugger)

	return mux
}

// Listen boots the console paused and serves until the context is done
func (server *Server) Listen(ctx context.Context, port int) error {
	if err := server.runner.Boot(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server.runner.Stop()
	go func() {
		if err := server.runner.Run(ctx); err != nil {
			server.logger.Error("Console halted", slog.Any("error", err))
		}
	}()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: server.Handler(),
	}
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	server.logger.Info("Listening on port", slog.Int("port", port))
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func setHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Expose-Headers", "Content-Type")

	w.Header().Set("Cache-Control", "no-cache")
}

func (server *Server) control(msg string, fn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w)

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		server.logger.Info(msg)
		if err := fn(); err != nil {
			server.logger.Error(msg, slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
