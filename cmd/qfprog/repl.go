package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/peterh/liner"

	"github.com/tinkerator/loadstone/config"
	"github.com/tinkerator/loadstone/flash"
	"github.com/tinkerator/loadstone/image"
)

// runREPL starts an interactive shell over the same bank layout and
// verifier --layout/--check use, for poking at a flash file without
// re-invoking the binary per command. Grounded on calvinalkan/agent-task's
// cmd/sloty REPL: a liner.State prompt loop with a small command table and
// Ctrl-C/EOF as the exit signal.
func runREPL(dev flash.Device, cfg config.Configuration, verifier image.Verifier) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	fmt.Println("qfprog interactive shell. Commands: layout, check <bank>, help, exit")
	for {
		line, err := ln.Prompt("qfprog> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return
		}
		if err != nil {
			log.Error("reading input", "err", err)
			return
		}
		ln.AppendHistory(line)

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "layout":
			displayLayout(dev, cfg, verifier)
		case "check":
			if len(fields) != 2 {
				fmt.Println("usage: check <bank-index>")
				continue
			}
			if err := checkBank(dev, cfg, verifier, fields[1]); err != nil {
				fmt.Println("error:", err)
			}
		case "bank":
			if len(fields) != 2 {
				fmt.Println("usage: bank <bank-index>")
				continue
			}
			idx, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("not a number:", fields[1])
				continue
			}
			b, ok := bankByIndex(cfg, idx)
			if !ok {
				fmt.Println("no such bank")
				continue
			}
			fmt.Printf("bank %d: location=%s size=%d bootable=%t golden=%t\n", b.Index, b.Location, b.Size, b.Bootable, b.IsGolden)
		case "help":
			fmt.Println("layout           list all banks and their verification status")
			fmt.Println("check <bank>     verify the image in one bank")
			fmt.Println("bank <bank>      print one bank's descriptor")
			fmt.Println("exit             leave the shell")
		case "exit", "quit", "q":
			return
		default:
			fmt.Printf("unrecognised command %q; try 'help'\n", fields[0])
		}
	}
}
