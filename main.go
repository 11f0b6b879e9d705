package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"mapcurator/pkg/engine/input"
	"mapcurator/pkg/engine/pathing"
	"mapcurator/pkg/engine/rng"
	"mapcurator/pkg/engine/terminal"
	"mapcurator/pkg/game/curator"
	"mapcurator/pkg/game/devtools"
	"mapcurator/pkg/game/generator"
	"mapcurator/pkg/game/i18n"
	"mapcurator/pkg/game/renderer"
	ebitenrenderer "mapcurator/pkg/game/renderer/ebiten"
	tcellrenderer "mapcurator/pkg/game/renderer/tcell"
	"mapcurator/pkg/game/renderer/tui"
	"mapcurator/pkg/game/server"
)

// options holds everything the command line controls
type options struct {
	kind          generator.Kind
	width, height int
	curator       curator.Config
	seed          int64
	ui            renderer.UI
	lang          string
	localeDir     string
	debug         bool
	devMap        bool
	dump          bool
	htmlPath      string
	once          bool
	serveAddr     string
	hostKey       string
}

func kindNames() string {
	names := make([]string, 0, len(generator.Kinds()))
	for _, k := range generator.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, "|")
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("mapcurator", flag.ContinueOnError)
	cfg := curator.DefaultConfig()

	gen := fs.String("gen", string(generator.DefaultKind), "generator kind ("+kindNames()+")")
	width := fs.Int("w", generator.DefaultWidth, "map width in cells")
	height := fs.Int("h", generator.DefaultHeight, "map height in cells")
	fs.IntVar(&cfg.Count, "count", cfg.Count, "number of maps in the population")
	seed := fs.Int64("seed", 0, "random seed (0 picks one from the clock)")
	fs.IntVar(&cfg.StepsPerTick, "steps", cfg.StepsPerTick, "work units per generator per tick")
	fs.BoolVar(&cfg.FastForward, "fast", false, "run every generator to completion in one tick")
	fs.Float64Var(&cfg.FitnessPercentile, "percentile", cfg.FitnessPercentile, "fitness rank to select, 0 = best, 1 = worst")
	fs.BoolVar(&cfg.FillInactiveTiles, "fill-inactive", false, "wall every cell unreachable from the start")
	noFitness := fs.Bool("no-fitness", false, "skip fitness measurement and ranking")
	ui := fs.String("ui", string(renderer.UITerminal), "presentation (tui|plain|ebiten|tcell)")
	lang := fs.String("lang", i18n.DefaultLanguage, "message language")
	localeDir := fs.String("locales", "", "read message catalogues from this directory instead of the built-in ones")
	debug := fs.Bool("debug", false, "log diagnostics to stderr")
	devMap := fs.Bool("devmap", false, "show the built-in developer map and its path length, then exit")
	dump := fs.Bool("dump", false, "print a plain-text debug dump of the population after the run")
	htmlPath := fs.String("html", "", "write the selected map to this HTML file")
	once := fs.Bool("once", false, "exit after the first population instead of waiting for keys")
	serveAddr := fs.String("serve", "", "serve a population per SSH session on this address, e.g. :2222")
	hostKey := fs.String("hostkey", "", "SSH host key file for -serve (a throwaway key when empty)")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	cfg.FitnessCheck = !*noFitness

	parsedUI, err := renderer.ParseUI(*ui)
	if err != nil {
		return options{}, err
	}
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}

	return options{
		kind:      generator.Kind(*gen),
		width:     *width,
		height:    *height,
		curator:   cfg,
		seed:      *seed,
		ui:        parsedUI,
		lang:      *lang,
		localeDir: *localeDir,
		debug:     *debug,
		devMap:    *devMap,
		dump:      *dump,
		htmlPath:  *htmlPath,
		once:      *once,
		serveAddr: *serveAddr,
		hostKey:   *hostKey,
	}, nil
}

// setupLogging sends log output to stderr in debug mode and discards it otherwise
func setupLogging(debug bool) {
	if !debug {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
}

// newHost picks the presentation backend. An interactive terminal host
// keeps serving keys after the first population.
func newHost(ui renderer.UI, cur *curator.Curator, interactive bool) renderer.Host {
	switch ui {
	case renderer.UIEbiten:
		return ebitenrenderer.New(cur)
	case renderer.UITcell:
		return tcellrenderer.New(cur)
	case renderer.UIPlain:
		return tui.NewHost(os.Stdout, cur, true)
	default:
		h := tui.NewHost(os.Stdout, cur, false)
		if interactive {
			h.SetKeys(input.NewTerminal(os.Stdin))
		}
		return h
	}
}

// showDevMap prints the developer map and its measured path length
func showDevMap(plain bool) {
	grid := devtools.DevMap()
	start, _ := grid.StartCell()
	finish, _ := grid.FinishCell()
	dist := pathing.New().Distance(grid, start, finish)

	r := tui.New(os.Stdout)
	r.Init(plain)
	r.RenderGrid(i18n.Get("DEV_MAP")+" - "+i18n.Get("FITNESS", dist), grid)
}

func run(opts options) error {
	setupLogging(opts.debug)
	i18n.Init(opts.localeDir, opts.lang)

	if opts.devMap {
		showDevMap(opts.ui == renderer.UIPlain)
		return nil
	}

	// build one up front so a bad kind or size fails before anything else
	if _, err := generator.New(opts.kind, opts.width, opts.height); err != nil {
		return err
	}
	factory := func() (generator.Generator, error) {
		return generator.New(opts.kind, opts.width, opts.height)
	}

	if opts.serveAddr != "" {
		return serve(opts, factory)
	}

	src := rng.New(opts.seed)
	cur, err := curator.New(opts.curator, factory, src)
	if err != nil {
		return err
	}
	cur.SetLogger(log.Printf)
	log.Printf("population: %d x %s (%dx%d), seed %d", opts.curator.Count, opts.kind, opts.width, opts.height, opts.seed)

	if opts.ui != renderer.UIEbiten && opts.ui != renderer.UITcell {
		fmt.Println(i18n.Get("GENERATING", opts.curator.Count, opts.kind))
	}
	interactive := !opts.once && input.IsTerminal(os.Stdin) && terminal.IsTerminal()
	host := newHost(opts.ui, cur, interactive)
	host.Init()
	if err := host.Run(); err != nil {
		return err
	}

	if opts.dump {
		if err := devtools.DumpPopulation(os.Stdout, cur); err != nil {
			return err
		}
	}
	if opts.htmlPath != "" {
		if err := writeHTML(opts.htmlPath, cur); err != nil {
			return err
		}
	}
	return nil
}

// serve hands every SSH session its own population. A fixed seed is offset
// by the session number so sessions differ but stay reproducible.
func serve(opts options, factory curator.Factory) error {
	var sessions atomic.Int64
	newCurator := func() (*curator.Curator, error) {
		n := sessions.Add(1)
		seed := opts.seed
		if seed != 0 {
			seed += n - 1
		}
		cur, err := curator.New(opts.curator, factory, rng.New(seed))
		if err != nil {
			return nil, err
		}
		cur.SetLogger(log.Printf)
		return cur, nil
	}
	return server.NewSSHServer(opts.serveAddr, opts.hostKey, newCurator).Start()
}

// writeHTML saves the selected map as an HTML page
func writeHTML(path string, cur *curator.Curator) error {
	best, ok := cur.Best()
	if !ok {
		return fmt.Errorf("no map selected, nothing to write to %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s #%d - %s", best.Generator.Name(), best.Index, i18n.Get("FITNESS", best.Fitness))
	if err := devtools.WriteHTML(f, title, best.Generator.Grid()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
