package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/searchdeck"
	"github.com/kailas-cloud/searchdeck/internal/config"
	logpkg "github.com/kailas-cloud/searchdeck/internal/logger"
	"github.com/kailas-cloud/searchdeck/internal/version"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

func main() {
	cmd := &cli.Command{
		Name:    "searchdeck",
		Usage:   "Command-line client for the document-search service",
		Version: fmt.Sprintf("%s (%s, %s)", version.Version, version.Commit, version.Date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config/local.yaml",
				Sources: cli.EnvVars("SEARCHDECK_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Document-search service address (overrides config)",
				Sources: cli.EnvVars("SEARCHDECK_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Authenticate before running the command",
				Sources: cli.EnvVars("SEARCHDECK_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Password for --username",
				Sources: cli.EnvVars("SEARCHDECK_PASSWORD"),
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			docsCommand(),
			historyCommand(),
			loginCommand(),
			logoutCommand(),
			statusCommand(),
			healthCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads the config file when it exists and falls back to
// defaults otherwise, so the CLI works without any setup.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	path := cmd.String("config")
	var cfg config.Config
	if _, err := os.Stat(path); err == nil {
		cfg, err = config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
	} else {
		cfg.Server.BaseURL = "http://localhost:8080"
		cfg.ApplyDefaults()
	}
	if u := cmd.String("base-url"); u != "" {
		cfg.Server.BaseURL = u
	}
	return cfg, nil
}

func newClient(ctx context.Context, cmd *cli.Command) (*searchdeck.Client, error) {
	client, err := newClientUnauthenticated(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if u := cmd.String("username"); u != "" {
		res := client.Login(ctx, u, cmd.String("password"))
		if !res.OK {
			client.Close()
			return nil, fmt.Errorf("login failed: %s", res.Reason)
		}
	}
	return client, nil
}

func newClientUnauthenticated(ctx context.Context, cmd *cli.Command) (*searchdeck.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logpkg.New(config.GetEnv(), cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	opts := []searchdeck.Option{
		searchdeck.WithBaseURL(cfg.Server.BaseURL),
		searchdeck.WithTimeout(time.Duration(cfg.Server.TimeoutSec) * time.Second),
		searchdeck.WithHistoryLimit(cfg.History.Limit),
		searchdeck.WithHistoryPolicy(searchdeck.DuplicatePolicy(cfg.History.DuplicatePolicy)),
		searchdeck.WithNotificationTTL(time.Duration(cfg.Notifications.TTLMillis) * time.Millisecond),
		searchdeck.WithLogger(logger),
	}
	switch cfg.State.Driver {
	case config.DriverSQLite:
		opts = append(opts, searchdeck.WithSQLiteState(cfg.State.Path))
	case config.DriverRedis:
		opts = append(opts, searchdeck.WithRedisState(cfg.State.Addrs[0], cfg.State.Password))
	case config.DriverMemory:
		opts = append(opts, searchdeck.WithMemoryState())
	}

	logger.Debug("client configured", zap.String("base_url", cfg.Server.BaseURL),
		zap.String("state_driver", cfg.State.Driver))
	return searchdeck.New(ctx, opts...)
}

// drainNotifications prints what the client surfaced during the command.
func drainNotifications(client *searchdeck.Client) {
	for _, n := range client.Notifications() {
		line := n.Message
		switch n.Kind {
		case searchdeck.NotifySuccess:
			line = successStyle.Render("✓ " + line)
		case searchdeck.NotifyWarning:
			line = warningStyle.Render("! " + line)
		case searchdeck.NotifyError:
			line = errorStyle.Render("✗ " + line)
		default:
			line = infoStyle.Render("· " + line)
		}
		fmt.Println(line)
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a semantic search",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Maximum results", Value: searchdeck.DefaultSearchLimit},
			&cli.FloatFlag{Name: "min-score", Usage: "Minimum similarity score", Value: searchdeck.DefaultMinScore},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			query := strings.Join(cmd.Args().Slice(), " ")
			client, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			results, err := client.Search(ctx, query, searchdeck.SearchParams{
				Limit:    int(cmd.Int("limit")),
				MinScore: cmd.Float("min-score"),
			})
			if err != nil {
				return err
			}

			for i, r := range results {
				fmt.Printf("%s %s %s\n",
					faintStyle.Render(fmt.Sprintf("%2d.", i+1)),
					titleStyle.Render(r.Title),
					faintStyle.Render(fmt.Sprintf("(%.2f)", r.Score)),
				)
				if r.Content != "" {
					fmt.Println("    " + preview(r.Content, 120))
				}
			}
			drainNotifications(client)
			return nil
		},
	}
}

func docsCommand() *cli.Command {
	metaFlag := &cli.StringSliceFlag{
		Name:  "meta",
		Usage: "Metadata pair, key=value (repeatable)",
	}
	return &cli.Command{
		Name:  "docs",
		Usage: "Manage the document collection",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all documents",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					client, err := newClient(ctx, cmd)
					if err != nil {
						return err
					}
					defer client.Close()

					docs, err := client.LoadDocuments(ctx)
					if err != nil {
						return err
					}
					for _, d := range docs {
						fmt.Printf("%s %s\n", faintStyle.Render(d.ID), titleStyle.Render(d.Title))
						fmt.Println("    " + d.Preview(120))
					}
					if len(docs) == 0 {
						fmt.Println(faintStyle.Render("no documents"))
					}
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Create a document",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "content", Required: true},
					metaFlag,
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					client, err := newClient(ctx, cmd)
					if err != nil {
						return err
					}
					defer client.Close()

					err = client.CreateDocument(ctx, searchdeck.DocumentInput{
						Title:    cmd.String("title"),
						Content:  cmd.String("content"),
						Metadata: parseMeta(cmd.StringSlice("meta")),
					})
					if err != nil {
						return err
					}
					drainNotifications(client)
					return nil
				},
			},
			{
				Name:      "update",
				Usage:     "Update a document",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "content", Required: true},
					metaFlag,
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id := cmd.Args().First()
					if id == "" {
						return errors.New("document id required")
					}
					client, err := newClient(ctx, cmd)
					if err != nil {
						return err
					}
					defer client.Close()

					if _, err := client.LoadDocuments(ctx); err != nil {
						return err
					}
					if !client.EditDocument(id) {
						return fmt.Errorf("document %q not found", id)
					}
					err = client.SaveDocument(ctx, searchdeck.DocumentInput{
						Title:    cmd.String("title"),
						Content:  cmd.String("content"),
						Metadata: parseMeta(cmd.StringSlice("meta")),
					})
					if err != nil {
						return err
					}
					drainNotifications(client)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a document (asks for confirmation)",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id := cmd.Args().First()
					if id == "" {
						return errors.New("document id required")
					}
					client, err := newClient(ctx, cmd)
					if err != nil {
						return err
					}
					defer client.Close()

					if _, err := client.LoadDocuments(ctx); err != nil {
						return err
					}

					confirmed := cmd.Bool("yes")
					err = client.DeleteDocument(ctx, id, confirmed)
					if errors.Is(err, searchdeck.ErrConfirmationRequired) {
						if !askConfirm(fmt.Sprintf("Delete document %s?", id)) {
							fmt.Println(faintStyle.Render("aborted"))
							return nil
						}
						err = client.DeleteDocument(ctx, id, true)
					}
					if err != nil {
						return err
					}
					drainNotifications(client)
					return nil
				},
			},
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recorded search queries, most recent first",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "clear", Usage: "Empty the history"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			if cmd.Bool("clear") {
				if err := client.ClearHistory(ctx); err != nil {
					return err
				}
				fmt.Println(successStyle.Render("history cleared"))
				return nil
			}
			entries := client.History()
			if len(entries) == 0 {
				fmt.Println(faintStyle.Render("no history"))
				return nil
			}
			for i, q := range entries {
				fmt.Printf("%s %s\n", faintStyle.Render(fmt.Sprintf("%2d.", i+1)), q)
			}
			return nil
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "Verify credentials against the service",
		ArgsUsage: "<username>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			username := cmd.Args().First()
			if username == "" {
				username = cmd.String("username")
			}
			if username == "" {
				return errors.New("username required")
			}
			password := cmd.String("password")
			if password == "" {
				fmt.Print("password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimSpace(line)
			}

			client, err := newClientUnauthenticated(ctx, cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			res := client.Login(ctx, username, password)
			if !res.OK {
				fmt.Println(errorStyle.Render("login failed: " + res.Reason))
				os.Exit(1)
			}
			fmt.Println(successStyle.Render("authenticated as " + res.User.Username))
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "End the session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			client.Logout(ctx)
			fmt.Println(successStyle.Render("logged out"))
			return nil
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Probe the session and the search subsystem",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			var snap searchdeck.Session
			var healthErr error
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				snap = client.RefreshSession(gctx)
				return nil
			})
			g.Go(func() error {
				healthErr = client.SearchHealth(gctx)
				return nil
			})
			_ = g.Wait()

			if snap.IsAuthenticated {
				fmt.Println(successStyle.Render("session: authenticated as " + snap.User.Username))
			} else {
				fmt.Println(warningStyle.Render("session: anonymous"))
			}
			if healthErr != nil {
				fmt.Println(errorStyle.Render("search: unavailable"))
			} else {
				fmt.Println(successStyle.Render("search: ok"))
			}
			return nil
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Probe the search subsystem",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.SearchHealth(ctx); err != nil {
				fmt.Println(errorStyle.Render("search backend unavailable"))
				return err
			}
			fmt.Println(successStyle.Render("search backend ok"))
			return nil
		},
	}
}

func parseMeta(pairs []string) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	meta := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if ok {
			meta[k] = v
		}
	}
	return meta
}

func askConfirm(prompt string) bool {
	fmt.Print(warningStyle.Render(prompt) + " [y/N] ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
