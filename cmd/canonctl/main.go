// Command canonctl streams a .gcode/.nc program file to a downstream
// runtime over gcodeio's checksum-framed line transport, showing the line
// being sent on a yacspin spinner and reporting the final result with
// fatih/color: a green block count, or a red message for the first line
// that fails.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/theckman/yacspin"

	"github.com/nasa-jpl/canon-mc/comm"
	"github.com/nasa-jpl/canon-mc/gcodeio"
)

func usage() {
	fmt.Println(`canonctl streams a G-code program to a downstream runtime.

Usage:
	canonctl <addr> <path-to-program>

addr is the TCP address of the downstream runtime (host:port).`)
}

func main() {
	if len(os.Args) != 3 {
		usage()
		os.Exit(1)
	}
	addr := os.Args[1]
	path := os.Args[2]

	f, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	dev := comm.NewRemoteDevice(addr, false, nil, nil)
	if err := dev.Open(); err != nil {
		log.Fatal(err)
	}
	defer dev.Close()
	sender := gcodeio.NewLineSender(&dev)

	cfg := yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[9],
		Suffix:          " streaming " + path,
		SuffixAutoColon: true,
		Message:         "connecting",
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
	}
	spinner, err := yacspin.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := spinner.Start(); err != nil {
		log.Fatal(err)
	}

	reader := gcodeio.NewLineReader(f)
	sent := 0
	for {
		line, n, err := reader.Next()
		if err != nil {
			break
		}
		spinner.Message(fmt.Sprintf("line %d: %s", n, line))
		ack, err := sender.SendLine(line)
		if err != nil {
			spinner.StopFailMessage(color.RedString("line %d failed: %v", n, err))
			spinner.StopFail()
			os.Exit(1)
		}
		sent++
		_ = ack // the acknowledgement text is not displayed; only its error matters
	}

	spinner.StopMessage(color.GreenString("%d blocks streamed", sent))
	if err := spinner.Stop(); err != nil {
		log.Fatal(err)
	}
}
