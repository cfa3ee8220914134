// Package cli implements the interactive command-line client for Carta-Selo.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/radarnarcisista/cartaselo/internal/client/api"
	"github.com/radarnarcisista/cartaselo/internal/client/config"
)

type App struct {
	config    *config.Config
	apiClient *api.Client
	reader    *bufio.Reader

	userName string
	// current holds the draft the user last opened or created; section
	// commands operate on it.
	current *api.Draft
}

func NewApp(c *config.Config) *App {
	apiClient := api.NewClient(c.ServerBaseURL, c.RequestTimeout)
	return &App{config: c, apiClient: apiClient, reader: bufio.NewReader(os.Stdin)}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.apiClient.LoggedIn()
}
