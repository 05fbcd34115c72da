package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/kracker/internal/client/client"
	"github.com/dmitrijs2005/kracker/internal/client/config"
)

// healthChecker is satisfied by client.HealthProbe.
type healthChecker interface {
	Check(ctx context.Context, service string) (string, error)
	Close() error
}

type App struct {
	config   *config.Config
	api      client.Client
	probe    healthChecker
	reader   *bufio.Reader
	out      io.Writer
	token    string
	userName string
}

func NewApp(c *config.Config) (*App, error) {
	probe, err := client.NewHealthProbe(c.GRPCHealthAddr)
	if err != nil {
		return nil, err
	}

	return &App{
		config: c,
		api:    client.NewHTTPClient(c.ServerURL, c.RequestTimeout),
		probe:  probe,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.probe.Close()

	fmt.Fprintf(a.out, "kracker client, server %s (type 'help' for commands)\n", a.config.ServerURL)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
