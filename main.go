// Command regen analyses the regenerative cooling circuit of a liquid
// rocket thrust chamber.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"regen/calculator"
	"regen/output"
	"regen/server"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const usage = `usage: regen [-config file] [command]

commands:
  run       march the configured case (default)
  sweep     march every method and channel count of [sweep]
  serve     stream marches over websocket
  injector  size the configured injector elements
  feed      size the pressure-fed supply
`

func main() {
	var path string
	flag.StringVar(&path, "config", calculator.DefaultConfigPath, "configuration file")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	cmd := "run"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	cfg, err := calculator.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.SetupLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch cmd {
	case "run":
		err = run(ctx, cfg)
	case "sweep":
		err = sweep(ctx, cfg)
	case "serve":
		err = serve(cfg)
	case "injector":
		err = injectors(cfg)
	case "feed":
		err = feedSystem(cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.WithError(err).Error(cmd + " failed")
		os.Exit(1)
	}
}

func openOutput(cfg *calculator.Config, cs calculator.Case) (*output.Multi, error) {
	out, err := output.New(cfg.Output.Formats, output.Settings{
		Dir:     cfg.Output.Dir,
		DBPath:  cfg.Output.DBPath,
		Run:     cs.Name,
		Method:  cs.Marcher.Conjugate.GasSide.Method.String(),
		Contour: cfg.Contour().Name,
	})
	if err != nil {
		return nil, err
	}
	cs.Marcher.Sink = out
	return out, nil
}

func run(ctx context.Context, cfg *calculator.Config) error {
	cs, err := cfg.Case()
	if err != nil {
		return err
	}
	out, err := openOutput(cfg, cs)
	if err != nil {
		return err
	}
	res, runErr := cs.Marcher.Run(ctx, cs.Inlet, cs.Nominal)
	if runErr != nil {
		res = nil
	}
	if err := out.Close(res, runErr); err != nil {
		log.WithError(err).Warn("closing output")
	}
	fmt.Println(output.Summary(cs.Name, res, runErr))
	return runErr
}

func sweep(ctx context.Context, cfg *calculator.Config) error {
	cases, err := cfg.Cases()
	if err != nil {
		return err
	}
	outs := make([]*output.Multi, len(cases))
	for i, cs := range cases {
		if outs[i], err = openOutput(cfg, cs); err != nil {
			for _, o := range outs[:i] {
				o.Close(nil, err)
			}
			return err
		}
	}

	results := calculator.Sweep(ctx, cases, cfg.Sweep.Workers)
	for i, r := range results {
		if err := outs[i].Close(r.Result, r.Err); err != nil {
			log.WithError(err).WithField("case", r.Name).Warn("closing output")
		}
	}
	fmt.Println(output.SweepSummary(results))
	return calculator.Errors(results)
}

func serve(cfg *calculator.Config) error {
	upgrader.CheckOrigin = func(r *http.Request) bool {
		return true
	}
	s := server.NewServer(cfg.Server.Addr, upgrader, cfg)
	return s.Serve()
}

func injectors(cfg *calculator.Config) error {
	sizers, err := cfg.InjectorSizers()
	if err != nil {
		return err
	}
	if len(sizers) == 0 {
		return fmt.Errorf("no [injector.*] sections in configuration")
	}
	var rows []output.InjectorRow
	for _, s := range sizers {
		r, err := s.Size()
		if err != nil {
			return fmt.Errorf("injector %s: %w", s.Name, err)
		}
		rows = append(rows, output.InjectorRow{Name: s.Name, Result: r})
	}
	fmt.Println(output.InjectorSummary(rows))
	return nil
}

func feedSystem(cfg *calculator.Config) error {
	if cfg.Feed == nil {
		return fmt.Errorf("no [feed] section in configuration")
	}
	sys, err := cfg.FeedSystem()
	if err != nil {
		return err
	}
	volume, err := sys.PropellantVolume(cfg.Feed.Ullage)
	if err != nil {
		return err
	}
	adiabatic, err := sys.PressurantMass(cfg.Feed.Margin)
	if err != nil {
		return err
	}
	sutton, err := sys.PressurantMassSutton(cfg.Feed.Margin)
	if err != nil {
		return err
	}
	tanks, err := sys.TankMasses(cfg.Feed.Ullage)
	if err != nil {
		return err
	}
	fmt.Println(output.FeedSummary(output.FeedReport{
		PropellantVolume: volume,
		Adiabatic:        adiabatic,
		Sutton:           sutton,
		Tanks:            tanks,
	}))
	return nil
}
