package main

import (
	"flag"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/ui"
)

func main() {
	cfg := config.Load()

	// Root flags (apply to every subcommand)
	apiURL := flag.String("api", cfg.APIURL, "todo service base URL")
	theme := flag.String("theme", cfg.Theme, "output theme: classic, neon or mono")
	forceColor := flag.Bool("color", false, "force colored output")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Usage = cli.PrintHelp
	flag.Parse()

	ui.SetColorForcing(*forceColor, *noColor)
	ui.SetTheme(*theme) // mono turns color off

	log, closeLog := newLogger(cfg.LogFile)

	client := api.NewClient(*apiURL, api.WithLogger(log))
	log.WithField("api", client.BaseURL()).Debug("starting")

	// Hand the remaining args to the CLI runner.
	code := cli.Run(flag.Args(), cli.Options{
		Service: client,
		BaseURL: client.BaseURL(),
		In:      os.Stdin,
	})
	closeLog()
	os.Exit(code)
}

// newLogger writes debug logs to path; with no path logs are dropped so they
// never land on the terminal page.
func newLogger(path string) (*logrus.Logger, func()) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	if path == "" {
		return log, func() {}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		ui.Fail("log file: " + err.Error())
		return log, func() {}
	}
	log.SetOutput(f)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, func() { f.Close() }
}
