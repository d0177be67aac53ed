// Package tui is an interactive tuner for shape modes.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/shapewin/internal/config"
	"github.com/1broseidon/shapewin/internal/pixel"
)

// Run opens the tuner for the mask image at imagePath. Saving writes the
// chosen mode to configPath, or to the default location when it is empty.
func Run(imagePath, configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	s, err := pixel.Load(imagePath)
	if err != nil {
		return err
	}

	var res *config.LoadResult
	if configPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(configPath)
	}
	if err != nil {
		return err
	}

	save := func(cfg *config.Config) error {
		if configPath == "" {
			return cfg.Save()
		}
		return cfg.SaveTo(configPath)
	}

	m := newModel(imagePath, s, res.Config, save)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
