package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/achilleasa/polaris-gbuf/gbuffer"
	"github.com/achilleasa/polaris-gbuf/log"
	"github.com/achilleasa/polaris-gbuf/renderer"
	"github.com/achilleasa/polaris-gbuf/tracer"
)

type interruptCounter struct {
	interrupts int
}

func (r *interruptCounter) Render() error                       { return nil }
func (r *interruptCounter) Interrupt()                          { r.interrupts++ }
func (r *interruptCounter) Close()                              {}
func (r *interruptCounter) Framebuffers() *gbuffer.Framebuffers { return nil }
func (r *interruptCounter) Stats() renderer.FrameStats          { return renderer.FrameStats{} }

func TestWatchInterrupt(t *testing.T) {
	type spec struct {
		signal        bool
		expInterrupts int
	}
	specs := []spec{
		{true, 1},
		{false, 0},
	}

	for index, s := range specs {
		r := &interruptCounter{}
		sigChan := make(chan os.Signal, 1)
		doneChan := make(chan struct{})
		exitChan := make(chan struct{})

		go func() {
			watchInterrupt(r, sigChan, doneChan)
			close(exitChan)
		}()

		if s.signal {
			sigChan <- os.Interrupt
		} else {
			close(doneChan)
		}

		select {
		case <-exitChan:
		case <-time.After(time.Second):
			t.Fatalf("[spec %d] expected watcher to exit", index)
		}

		if r.interrupts != s.expInterrupts {
			t.Fatalf("[spec %d] expected %d interrupts; got %d", index, s.expInterrupts, r.interrupts)
		}
	}
}

func TestDisplayFrameStatsHonorsLogLevel(t *testing.T) {
	type spec struct {
		level    log.Level
		expTable bool
	}
	specs := []spec{
		{log.Notice, true},
		{log.Warning, false},
	}

	stats := renderer.FrameStats{
		Frame:      3,
		StageTimes: map[tracer.Stage]time.Duration{tracer.PrimaryStage: time.Millisecond},
	}

	var buf bytes.Buffer
	log.SetSink(&buf)
	defer func() {
		log.SetSink(os.Stdout)
		log.SetLevel(log.Notice)
	}()

	for index, s := range specs {
		buf.Reset()
		log.SetLevel(s.level)
		displayFrameStats(stats)

		if got := strings.Contains(buf.String(), "frame 3 statistics"); got != s.expTable {
			t.Fatalf("[spec %d] expected table output to be %t; got %q", index, s.expTable, buf.String())
		}
	}
}
