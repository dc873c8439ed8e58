package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hedgehq/sitenodes/internal/adapters/driven/config/file"
	"github.com/hedgehq/sitenodes/internal/adapters/driven/storage/memory"
	"github.com/hedgehq/sitenodes/internal/adapters/driven/storage/sqlite"
	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/core/ports/driven"
	"github.com/hedgehq/sitenodes/internal/core/services"
	ghfeeds "github.com/hedgehq/sitenodes/internal/feeds/github"
	"github.com/hedgehq/sitenodes/internal/feeds/httpjson"
	"github.com/hedgehq/sitenodes/internal/logger"
	"github.com/hedgehq/sitenodes/internal/normalisers/apischema"
	"github.com/hedgehq/sitenodes/internal/normalisers/catalog"
	ghnorm "github.com/hedgehq/sitenodes/internal/normalisers/github"
)

// Environment variables carrying credentials. Read once here and
// injected into the config value, never inside the pass.
const (
	EnvAppAPIKey   = "SITENODES_APP_API_KEY"
	EnvGitHubToken = "GITHUB_TOKEN"
)

var (
	dataDirFlag string
	dryRunFlag  bool
	watchFlag   bool
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Run the content sourcing pass",
	Long: `Fetches every configured feed, normalises the payloads into content
nodes and saves them to the node store. A failed feed produces no nodes
but does not stop the pass.`,
	RunE: runSource,
}

func init() {
	sourceCmd.Flags().StringVar(&dataDirFlag, "data-dir", "", "node database directory (overrides config)")
	sourceCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "source into memory without touching the database")
	sourceCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "re-run the pass when the config file changes")
	rootCmd.AddCommand(sourceCmd)
}

func runSource(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := func(ctx context.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		pass := services.NewSourcePass(store, buildBindings(ctx, cfg)...)
		summary, err := pass.Run(ctx)
		if err != nil {
			return fmt.Errorf("source pass: %w", err)
		}

		cmd.Print(renderSummary(summary, isTerminal()))
		return nil
	}

	if err := run(ctx); err != nil {
		return err
	}

	if watchFlag {
		cmd.Printf("Watching %s for changes; Ctrl-C to stop.\n", configFlag)
		return watchAndRun(ctx, configFlag, func(ctx context.Context) {
			if err := run(ctx); err != nil {
				logger.Warn("source pass failed: %v", err)
			}
		})
	}

	return nil
}

// loadConfig reads the config file and injects credentials from the
// environment.
func loadConfig() (*file.Config, error) {
	cfg, err := file.Load(configFlag)
	if err != nil {
		return nil, err
	}

	cfg.App.APIKey = os.Getenv(EnvAppAPIKey)
	cfg.GitHub.Token = os.Getenv(EnvGitHubToken)
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}

	return cfg, nil
}

// openStore picks the node store for this run.
func openStore(cfg *file.Config) (driven.NodeStore, func(), error) {
	if dryRunFlag {
		return memory.NewNodeStore(), func() {}, nil
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open node store: %w", err)
	}
	return store, func() { store.Close() }, nil
}

// buildBindings wires every feed to its normaliser. The schema feed is
// bound only when its credential is present; absence is a logged skip,
// not an error.
func buildBindings(ctx context.Context, cfg *file.Config) []services.Binding {
	var bindings []services.Binding

	if cfg.App.APIKey != "" {
		bindings = append(bindings, services.Binding{
			Feed: httpjson.New(apischema.FeedName, cfg.App.SchemaURL,
				httpjson.WithBearerToken(cfg.App.APIKey)),
			Normaliser: apischema.New(),
			Types:      []domain.NodeType{domain.TypeEndpointGroup, domain.TypeAPIComponents},
		})
	} else {
		logger.Warn("%s not set: skipping the API schema feed", EnvAppAPIKey)
	}

	ghClient := ghfeeds.NewClient(ctx, cfg.GitHub.Token)
	bindings = append(bindings,
		services.Binding{
			Feed:       ghfeeds.NewIssuesFeed(cfg.GitHub.Owner, cfg.GitHub.Repo, ghClient),
			Normaliser: ghnorm.NewIssueNormaliser(),
			Types:      []domain.NodeType{domain.TypeIssue},
		},
		services.Binding{
			Feed:       ghfeeds.NewPullsFeed(cfg.GitHub.Owner, cfg.GitHub.Repo, ghClient),
			Normaliser: ghnorm.NewPullNormaliser(),
			Types:      []domain.NodeType{domain.TypePullRequest},
		},
		services.Binding{
			Feed:       httpjson.New(catalog.FeedIntegrations, cfg.Catalogs.IntegrationsURL),
			Normaliser: catalog.NewIntegrationNormaliser(cfg.Site.BaseURL),
			Types:      []domain.NodeType{domain.TypeIntegration},
		},
		services.Binding{
			Feed:       httpjson.New(catalog.FeedPlugins, cfg.Catalogs.PluginsURL),
			Normaliser: catalog.NewPluginNormaliser(cfg.Site.BaseURL),
			Types:      []domain.NodeType{domain.TypePlugin},
		},
	)

	return bindings
}
