// Package cli implements the interactive messagely client: a small REPL on
// top of the HTTP API with prompts for credentials and message input.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/messagely/messagely/internal/client/api"
	"github.com/messagely/messagely/internal/client/config"
)

// apiClient is the slice of the API client the commands need. The real
// api.Client satisfies it; tests can provide a stub.
type apiClient interface {
	SetToken(token string)
	Register(ctx context.Context, p api.RegisterParams) (*api.User, string, error)
	Login(ctx context.Context, username, password string) (string, error)
	ListUsers(ctx context.Context) ([]api.Profile, error)
	GetUser(ctx context.Context, username string) (*api.User, error)
	Inbox(ctx context.Context, username string) ([]api.Message, error)
	Sent(ctx context.Context, username string) ([]api.Message, error)
	Send(ctx context.Context, toUsername, body string) (*api.Message, error)
	GetMessage(ctx context.Context, id int64) (*api.Message, error)
	MarkRead(ctx context.Context, id int64) (*api.Message, error)
}

type App struct {
	config   *config.Config
	api      apiClient
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerEndpointAddr, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return "(" + a.userName + ")"
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
