package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kbolino/go-coco/coco/acia"
	"github.com/kbolino/go-coco/coco/audio"
	"github.com/kbolino/go-coco/coco/backend"
	"github.com/kbolino/go-coco/coco/config"
	"github.com/kbolino/go-coco/coco/cpu"
	"github.com/kbolino/go-coco/coco/devmgr"
	"github.com/kbolino/go-coco/coco/loader"
	"github.com/kbolino/go-coco/coco/memory"
	"github.com/kbolino/go-coco/coco/pia"
	"github.com/kbolino/go-coco/coco/timing"
	"github.com/kbolino/go-coco/coco/video"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "coco"
	app.Description = "A TRS-80 Color Computer emulator"
	app.Usage = "coco [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "load", Usage: "Path to an Intel HEX program to load"},
		cli.StringFlag{Name: "cart", Usage: "Path to a raw ROM image to load before --load"},
		cli.StringFlag{Name: "ram-top", Usage: "Top of writable RAM, 0x-prefixed hex", Value: "0x7FFF"},
		cli.StringFlag{Name: "reset-vector", Usage: "Override the address loaded from 0xFFFE on reset, 0x-prefixed hex"},
		cli.Float64Flag{Name: "mhz", Usage: "Target clock rate in MHz (0 disables throttling)", Value: 0.89},
		cli.Float64Flag{Name: "time", Usage: "Stop after this many seconds of simulated run time (0 = unbounded)"},
		cli.BoolFlag{Name: "trace", Usage: "Log every executed instruction"},
		cli.BoolFlag{Name: "debug", Usage: "Enable debug-level logging"},
		cli.BoolFlag{Name: "break-start", Usage: "Halt before the first instruction (for a future debugger front-end)"},
		cli.IntFlag{Name: "history", Usage: "Number of past instructions to retain for a debugger front-end"},
		cli.BoolFlag{Name: "perf", Usage: "Log instruction/cycle throughput on exit"},
		cli.BoolFlag{Name: "acia-enable", Usage: "Enable the TCP-backed ACIA serial adapter"},
		cli.StringFlag{Name: "acia-addr", Usage: "ACIA bus address, 0x-prefixed hex", Value: "0xFFD0"},
		cli.IntFlag{Name: "acia-port", Usage: "TCP port the ACIA listens on", Value: 6809},
		cli.BoolFlag{Name: "acia-debug", Usage: "Log every byte written to the ACIA"},
		cli.BoolFlag{Name: "acia-case", Usage: "Uppercase bytes received over the ACIA"},
		cli.BoolFlag{Name: "verbose", Usage: "Enable info-level logging (debug implies this)"},
		cli.BoolFlag{Name: "no-auto-sym", Usage: "Don't auto-load a <load-path>.sym symbol file alongside --load"},
		cli.BoolFlag{Name: "write-files", Usage: "Allow the guest to write files to the host (reserved for a future ACIA file-transfer protocol)"},
		cli.BoolFlag{Name: "list", Usage: "List loaded symbols and exit"},
		cli.StringFlag{Name: "config-file-path", Usage: "Path to an optional YAML config file"},
		cli.BoolFlag{Name: "headless", Usage: "Run without a graphical interface"},
		cli.IntFlag{Name: "frames", Usage: "Number of display frames to run in headless mode (0 = run by --time only)"},
		cli.BoolFlag{Name: "mute", Usage: "Disable audio output"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("coco: fatal error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	setupLogging(c.Bool("verbose"), c.Bool("debug"))

	cfg := config.New()
	if path := c.String("config-file-path"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return err
		}
	}

	ramTop, err := parseAddr(c.String("ram-top"))
	if err != nil {
		return fmt.Errorf("--ram-top: %w", err)
	}
	cfg.RAMTop = ramTop
	cfg.MHz = c.Float64("mhz")
	cfg.RunTime = c.Float64("time")
	cfg.Trace = c.Bool("trace")
	cfg.Debug = c.Bool("debug")
	cfg.BreakStart = c.Bool("break-start")
	cfg.History = c.Int("history")
	cfg.Perf = c.Bool("perf")
	cfg.Verbose = c.Bool("verbose")
	cfg.NoAutoSym = c.Bool("no-auto-sym")
	cfg.WriteFiles = c.Bool("write-files")
	cfg.List = c.Bool("list")
	cfg.ACIAEnable = c.Bool("acia-enable")
	cfg.ACIADebug = c.Bool("acia-debug")
	cfg.ACIACase = c.Bool("acia-case")
	cfg.ACIAPort = uint16(c.Int("acia-port"))
	cfg.CartPath = c.String("cart")
	cfg.LoadPath = c.String("load")
	cfg.Headless = c.Bool("headless")
	cfg.Frames = c.Int("frames")
	cfg.Mute = c.Bool("mute")

	if aciaAddr := c.String("acia-addr"); aciaAddr != "" {
		addr, err := parseAddr(aciaAddr)
		if err != nil {
			return fmt.Errorf("--acia-addr: %w", err)
		}
		cfg.ACIAAddr = addr
	}
	if rv := c.String("reset-vector"); rv != "" {
		addr, err := parseAddr(rv)
		if err != nil {
			return fmt.Errorf("--reset-vector: %w", err)
		}
		cfg.ResetVector = addr
		cfg.HasReset = true
	}

	var bus memory.ACIA
	if cfg.ACIAEnable {
		a, err := acia.New(cfg.ACIAAddr, cfg.ACIAPort, cfg.ACIADebug, cfg.ACIACase)
		if err != nil {
			return fmt.Errorf("acia: %w", err)
		}
		defer a.Close()
		bus = a
		slog.Info("ACIA listening", "addr", fmt.Sprintf("0x%04X", cfg.ACIAAddr), "port", cfg.ACIAPort)
	}

	var sound audio.Provider
	if !cfg.Headless && !cfg.Mute {
		dev, err := audio.NewDevice()
		if err != nil {
			slog.Warn("audio: disabled", "error", err)
		} else {
			defer dev.Close()
			sound = dev
		}
	}

	keyDirect, keyShift := pia.DefaultKeyMaps()
	mgr := devmgr.New(devmgr.Options{
		KeyDirect: keyDirect,
		KeyShift:  keyShift,
		ACIA:      bus,
		RAMTop:    cfg.RAMTop,
		Audio:     sound,
	})
	defer mgr.Close()

	core := cpu.New(mgr.Bus(), mgr.PIA0(), mgr.PIA1(), cfg.MHz, cfg.ThrottleFudge)
	if cfg.HasReset {
		core.SetResetVector(cfg.ResetVector)
	}
	if cfg.Trace {
		core.Trace = func(pc uint16, inst cpu.Instance) {
			slog.Info("trace", "pc", fmt.Sprintf("0x%04X", pc), "mnemonic", inst.Flavor.Name)
		}
	}

	symbols, err := loadProgram(mgr.Bus(), cfg)
	if err != nil {
		return err
	}
	if cfg.List {
		for name, addr := range symbols {
			fmt.Printf("%-32s 0x%04X\n", name, addr)
		}
		return nil
	}

	core.Reset()

	if cfg.Headless {
		return runHeadless(core, cfg)
	}
	return runInteractive(core, mgr, cfg)
}

func setupLogging(verbose, debug bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadProgram loads --cart first (a raw ROM image at ram_top+1), then the
// config file's load_rom images, then --load (an Intel HEX program) and its
// optional symbol sidecar, then the config file's load_code programs,
// matching §6's documented load order.
func loadProgram(bus *memory.Bus, cfg config.Config) (map[string]uint16, error) {
	if cfg.CartPath != "" {
		data, err := os.ReadFile(cfg.CartPath)
		if err != nil {
			return nil, fmt.Errorf("--cart: %w", err)
		}
		bus.LoadAt(cfg.RAMTop+1, data)
		slog.Info("loaded cartridge", "path", cfg.CartPath, "addr", fmt.Sprintf("0x%04X", cfg.RAMTop+1))
	}
	for _, rom := range cfg.File.LoadROM {
		data, err := os.ReadFile(rom.Path)
		if err != nil {
			return nil, fmt.Errorf("load_rom %s: %w", rom.Path, err)
		}
		bus.LoadAt(rom.Addr, data)
		slog.Info("loaded ROM", "path", rom.Path, "addr", fmt.Sprintf("0x%04X", rom.Addr))
	}

	var symbols map[string]uint16
	if cfg.LoadPath != "" {
		if err := loader.LoadHexFile(bus, cfg.LoadPath, cfg.RAMTop); err != nil {
			return nil, fmt.Errorf("--load: %w", err)
		}
		slog.Info("loaded program", "path", cfg.LoadPath)
		if !cfg.NoAutoSym {
			symPath := cfg.LoadPath + ".sym"
			if syms, err := loader.LoadSymbolFile(symPath); err == nil {
				symbols = syms
				slog.Info("loaded symbol table", "path", symPath, "count", len(syms))
			}
		}
	}
	for _, code := range cfg.File.LoadCode {
		if err := loader.LoadHexFile(bus, code.Path, cfg.RAMTop); err != nil {
			return nil, fmt.Errorf("load_code %s: %w", code.Path, err)
		}
		slog.Info("loaded program", "path", code.Path)
	}
	return symbols, nil
}

func runHeadless(core *cpu.CPU, cfg config.Config) error {
	deadline := time.Duration(cfg.RunTime * float64(time.Second))
	start := time.Now()
	instructionsBefore := core.InstructionCount()

	if cfg.Frames > 0 {
		frameDuration := time.Second / 60
		for i := 0; i < cfg.Frames; i++ {
			if err := core.Run(frameDuration); err != nil {
				return err
			}
		}
	} else {
		if err := core.Run(deadline); err != nil {
			return err
		}
	}

	if cfg.Perf {
		elapsed := time.Since(start)
		executed := core.InstructionCount() - instructionsBefore
		slog.Info("performance", "instructions", executed, "elapsed", elapsed,
			"instructions_per_sec", float64(executed)/elapsed.Seconds())
	}
	return nil
}

func runInteractive(core *cpu.CPU, mgr *devmgr.Manager, cfg config.Config) error {
	term := backend.NewTerminal()
	if err := term.Init(backend.Config{Title: "coco"}); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	defer term.Cleanup()

	frame := mgr.VDG()
	display := make([]uint32, 256*192)

	limiter := timing.NewTickerLimiter()
	defer limiter.Stop()
	frameInterval := timing.FrameDuration()
	deadline := time.Duration(cfg.RunTime * float64(time.Second))
	start := time.Now()

	for {
		limiter.WaitForNextFrame()
		if err := core.Run(frameInterval); err != nil {
			return err
		}
		if deadline > 0 && time.Since(start) >= deadline {
			return nil
		}

		pia1Bits := mgr.PIA1().VDGModeBits()
		if mode, ok := video.ModeFromBits(pia1Bits, mgr.SAM().VDGModeBits()); ok {
			frame.SetMode(mode)
		}
		frame.SetVRAMOffset(int(mgr.SAM().VRAMStart()))
		frame.Render(display, pia1Bits&0x01 != 0)

		pressed, shiftHeld, quit, err := term.Update(frameBufferView{display, 256, 192})
		if err != nil {
			return fmt.Errorf("backend: %w", err)
		}
		if quit {
			return nil
		}
		mgr.PIA0().SetKeys(pressed, shiftHeld)
	}
}

// frameBufferView adapts a plain []uint32 into backend.Framebuffer without
// depending on *video.FrameBuffer's full rendering machinery.
type frameBufferView struct {
	buf           []uint32
	width, height int
}

func (f frameBufferView) ToSlice() []uint32 { return f.buf }
func (f frameBufferView) Width() int        { return f.width }
func (f frameBufferView) Height() int       { return f.height }

// parseAddr accepts a 0x-prefixed hex or plain decimal 16-bit address.
func parseAddr(s string) (uint16, error) {
	base := 10
	trimmed := s
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		base = 16
		trimmed = s[2:]
	}
	v, err := strconv.ParseUint(trimmed, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint16(v), nil
}
