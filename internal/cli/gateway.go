package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/ocbridge/internal/config"
	"github.com/soyeahso/ocbridge/internal/directory"
	"github.com/soyeahso/ocbridge/internal/domain"
	"github.com/soyeahso/ocbridge/internal/gateway"
	"github.com/soyeahso/ocbridge/internal/install"
	"github.com/soyeahso/ocbridge/internal/platform"
	"github.com/soyeahso/ocbridge/internal/resolve"
	"github.com/soyeahso/ocbridge/internal/routing"
	"github.com/soyeahso/ocbridge/internal/runtime"
)

// noProfiles is the profile source used when no directory is configured.
type noProfiles struct{}

func (noProfiles) GetProfile(context.Context, string, string) (domain.UserProfile, bool) {
	return domain.UserProfile{}, false
}

func newGatewayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Manage the ocbridge gateway server",
	}

	cmd.AddCommand(newGatewayRunCmd())
	return cmd
}

func newGatewayRunCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if cfg.Platform.PublicKey == "" {
				return fmt.Errorf("platform.publicKey is required to verify inbound traffic")
			}
			verifier, err := gateway.NewVerifier(cfg.Platform.PublicKey)
			if err != nil {
				return fmt.Errorf("loading platform public key: %w", err)
			}

			registry := install.NewRegistry(log)
			clients := platform.NewHTTPFactory(log)

			var profiles routing.ProfileSource
			if cfg.Directory.Host != "" {
				lookup := directory.NewClient(cfg.Directory.Host, log)
				ttl := time.Duration(cfg.Directory.TTLMinutes) * time.Minute
				profiles = directory.NewCache(lookup, cfg.Platform.DefaultAPIGateway, ttl, log)
			} else {
				log.Warn().Msg("no directory host configured — member welcomes will use raw user ids")
				profiles = noProfiles{}
			}

			forwarder := runtime.NewForwarder(cfg.Runtime.URL, log)
			defer forwarder.Close()

			router := routing.NewRouter(
				registry,
				clients,
				profiles,
				forwarder,
				routing.Config{
					WelcomeOnInstall:  cfg.Platform.WelcomeOnInstall,
					WelcomeNewMembers: cfg.Platform.WelcomeNewMembers,
				},
				log,
				routing.WithWelcomer(forwarder),
			)
			resolver := resolve.NewResolver(registry, clients, log)

			srv := gateway.New(cfg, verifier, router, resolver, clients, forwarder, log)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override gateway port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}
