package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/mget-project/mget/pkg/mgetlib"
)

// termConsole is the terminal-backed mgetlib.Console: a block-style mpb
// progress bar for status, and stdin prompts for confirmations, unless
// -y was given, in which case every prompt is answered automatically.
type termConsole struct {
	mu        sync.Mutex
	quiet     bool
	assumeYes bool
	reader    *bufio.Reader

	progress *mpb.Progress
	bar      *mpb.Bar
}

func newTermConsole(quiet, assumeYes bool) *termConsole {
	return &termConsole{quiet: quiet, assumeYes: assumeYes, reader: bufio.NewReader(os.Stdin)}
}

func (c *termConsole) Message(text, end string) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(os.Stdout, "%s%s", text, end)
}

func (c *termConsole) Warning(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(os.Stdout, "\nWarning: %s\n", text)
}

func (c *termConsole) Error(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(os.Stdout, "\nError: %s\n", text)
}

func (c *termConsole) Ask(text string, def bool) bool {
	if c.assumeYes {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(os.Stdout, "%s [%s] ", text, hint)
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return def
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}

func (c *termConsole) StartProgress(total mgetlib.ContentLength) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	t := int64(total)
	if t < 0 {
		t = 0
	}
	if c.bar != nil {
		c.bar.SetTotal(t, false)
		return
	}
	c.progress = mpb.New(mpb.WithWidth(60))
	barStyle := mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟")
	c.bar = c.progress.New(t,
		barStyle,
		mpb.PrependDecorators(
			decor.Name("Downloading", decor.WC{W: 12, C: decor.DindentRight}),
			decor.OnComplete(decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WC{W: 4}), "done"),
		),
		mpb.AppendDecorators(
			decor.EwmaSpeed(decor.SizeB1024(0), "% .2f", 30),
		),
	)
}

func (c *termConsole) Progress(current, sessionBytes mgetlib.ContentLength) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bar == nil {
		return
	}
	c.bar.SetCurrent(int64(current))
}

func (c *termConsole) StopProgress() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.progress == nil {
		return
	}
	if c.bar != nil {
		c.bar.SetTotal(-1, true)
	}
	c.progress.Wait()
	c.progress = nil
	c.bar = nil
}
