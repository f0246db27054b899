package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tatianab/qi-duel/internal/config"
	"github.com/tatianab/qi-duel/internal/engine"
	"github.com/tatianab/qi-duel/internal/models"
	"github.com/tatianab/qi-duel/internal/tui"
)

func main() {
	list := flag.Bool("list", false, "list saved battles and exit")
	replay := flag.String("replay", "", "replay a saved battle and print its log")
	flag.Parse()

	if !*list && *replay == "" {
		if err := tui.Start(); err != nil {
			fmt.Printf("Error running TUI: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *list {
		names, err := models.ListRecords(cfg.SaveDir)
		if err != nil {
			fmt.Printf("Error listing battles: %v\n", err)
			os.Exit(1)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	battle, err := cfg.Battle()
	if err != nil {
		fmt.Printf("Error loading battle config: %v\n", err)
		os.Exit(1)
	}
	rec, err := models.LoadRecord(cfg.SaveDir, *replay)
	if err != nil {
		fmt.Printf("Error loading battle %s: %v\n", *replay, err)
		os.Exit(1)
	}
	eng, err := engine.Replay(battle, rec)
	if err != nil {
		fmt.Printf("Error replaying battle: %v\n", err)
		os.Exit(1)
	}
	for _, line := range eng.Log() {
		fmt.Println(line)
	}
	fmt.Printf("\nWinner: %s after %d rounds\n", eng.Winner(), eng.Round())
}
