package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abyssdigger/catlog"
)

// Usage: catlog-demo [-file path] [-pattern p] [-golog] [-brace]
// Levels come from LOG_LEVEL, e.g.
//
//	LOG_LEVEL="loop:debug,FILE_:warning" catlog-demo -file /tmp/out.log
func main() {
	file := flag.String("file", "", "log file path (no file sink when empty)")
	pattern := flag.String("pattern", "", "output pattern, e.g. \"[source %s] [function %!] [line %#] %v\"")
	useGolog := flag.Bool("golog", false, "print the console through golog")
	brace := flag.Bool("brace", false, "use {} templates instead of printf verbs")
	flag.Parse()

	cfg := catlog.Config{
		FilePath: *file,
		Pattern:  *pattern,
		Color:    true,
	}
	if *useGolog {
		cfg.Console = catlog.CONSOLE_GOLOG
	}
	if *brace {
		cfg.Formatter = catlog.BraceFormatter
	}
	if err := catlog.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "log init:", err)
	}
	defer catlog.Close()

	loop := catlog.Category("loop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	if *brace {
		catlog.Debugf("hei {}", 4)
	} else {
		catlog.Debugf("hei %d", 3)
	}

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case s := <-sig:
			catlog.Infof("got signal %v", s)
			return
		case <-tick.C:
			loop.Debugf("loopityloop")
			loop.ErrorfOnce("loopityloop")
		}
	}
}
