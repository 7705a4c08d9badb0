// Command mget downloads a single file from one or more HTTP, HTTPS, or
// FTP mirrors at once, splitting the transfer into blocks raced across
// whichever mirrors answer fastest, and resumes automatically if
// interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/mget-project/mget/pkg/logger"
	"github.com/mget-project/mget/pkg/mgetlib"
)

var (
	blockSizeFlag string
	timeoutFlag   int
	outFileFlag   string
	urlsFileFlag  string
	quietFlag     bool
	yesFlag       bool

	appFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "block-size, b",
			Usage:       "bytes assigned to a mirror per task; accepts k/m suffixes",
			Value:       "4m",
			Destination: &blockSizeFlag,
		},
		cli.IntFlag{
			Name:        "timeout, T",
			Usage:       "seconds to wait for a single mirror round-trip",
			Value:       10,
			Destination: &timeoutFlag,
		},
		cli.StringFlag{
			Name:        "out-file, o",
			Usage:       "output path: a directory, a full file path, or empty for the server's name",
			Destination: &outFileFlag,
		},
		cli.StringFlag{
			Name:        "urls-file, u",
			Usage:       "file with one mirror URL per line, merged with any given on the command line",
			Destination: &urlsFileFlag,
		},
		cli.BoolFlag{
			Name:        "quiet, q",
			Usage:       "suppress the progress bar; still prints warnings and errors",
			Destination: &quietFlag,
		},
		cli.BoolFlag{
			Name:        "yes, y",
			Usage:       "assume yes to every confirmation prompt",
			Destination: &yesFlag,
		},
	}
)

func main() {
	app := cli.App{
		Name:                   "mget",
		HelpName:               "mget",
		Usage:                  "download a file from several mirrors at once over HTTP, HTTPS, or FTP",
		UsageText:              "mget [options] url [url...]",
		Version:                "1.0.0",
		Flags:                  appFlags,
		Action:                 run,
		UseShortOptionHandling: true,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "mget: %s\n", err.Error())
		os.Exit(exitCodeFor(err))
	}
}

func run(c *cli.Context) error {
	urls, err := collectURLs(c)
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	if len(urls) == 0 {
		cli.ShowAppHelp(c)
		return cli.NewExitError("no mirror URLs given", 2)
	}

	blockSize, err := parseBlockSize(blockSizeFlag)
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	cfg := mgetlib.DefaultConfig()
	cfg.BlockSize = blockSize
	cfg.Timeout = time.Duration(timeoutFlag) * time.Second
	cfg.UserPath = outFileFlag
	for _, raw := range urls {
		u, err := mgetlib.ParseURL(strings.TrimSpace(raw))
		if err != nil {
			fmt.Fprintf(os.Stderr, "mget: skipping %q: %s\n", raw, err)
			continue
		}
		cfg.URLs = append(cfg.URLs, u)
	}
	if len(cfg.URLs) == 0 {
		return cli.NewExitError("no usable mirror URLs", 2)
	}

	console := newTermConsole(quietFlag, yesFlag)
	diag := diagnosticLogger()
	defer diag.Close()

	manager, err := mgetlib.NewManager(cfg, console, diag)
	if err != nil {
		return exitErrFor(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := manager.Download(ctx); err != nil {
		return exitErrFor(err)
	}
	return nil
}

func collectURLs(c *cli.Context) ([]string, error) {
	var urls []string
	if urlsFileFlag != "" {
		fromFile, err := readURLsFile(urlsFileFlag)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}
	urls = append(urls, []string(c.Args())...)
	return urls, nil
}

// diagnosticLogger opens (or creates) mget.log in the working directory
// for ambient diagnostic logging, distinct from the user-facing progress
// console. Failure to open it degrades to discarding log output rather
// than aborting the download.
func diagnosticLogger() logger.Logger {
	f, err := os.OpenFile("mget.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, mgetlib.DefaultFileMode)
	if err != nil {
		return logger.NewNopLogger()
	}
	return logger.NewStandardLogger(log.New(f, "", log.LstdFlags))
}

func exitErrFor(err error) error {
	if errors.Is(err, mgetlib.ErrCancelled) {
		return nil
	}
	return cli.NewExitError(err.Error(), 1)
}

func exitCodeFor(err error) int {
	if ec, ok := err.(cli.ExitCoder); ok {
		return ec.ExitCode()
	}
	return 1
}
