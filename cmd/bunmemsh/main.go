package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/kartikbazzad/bunmem"
	"github.com/kartikbazzad/bunmem/cmd/bunmemsh/parser"
	"github.com/kartikbazzad/bunmem/cmd/bunmemsh/shell"
	"github.com/kartikbazzad/bunmem/internal/config"
	"github.com/kartikbazzad/bunmem/internal/logger"
)

const prompt = "bunmem> "

func main() {
	configPath := flag.String("config", "", "Optional config file path")
	flag.Parse()

	cfg := config.DefaultConfig()
	if err := config.Load(*configPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Default()
	log.SetLevel(logger.ParseLevel(cfg.LogLevel))

	store := bunmem.NewStore()
	sh := shell.NewShell(store)

	fmt.Printf("bunmem shell (in-memory document store)\n")
	fmt.Printf("Type '.help' for commands.\n\n")

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var out []string
		for _, name := range shell.Commands() {
			if strings.HasPrefix(name, prefix) {
				out = append(out, name)
			}
		}
		return out
	})

	historyPath := filepath.Join(os.TempDir(), ".bunmemsh_history")
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		} else {
			log.Warn("failed to save history: %v", err)
		}
	}()

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println()
				return
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		cmd, err := parser.Parse(input)
		if err != nil {
			fmt.Fprintln(os.Stdout, "ERROR")
			fmt.Fprintln(os.Stdout, err.Error())
			fmt.Println()
			continue
		}

		result := sh.Execute(cmd)
		if result.IsExit() {
			return
		}
		result.Print(os.Stdout)
		fmt.Println()
	}
}
