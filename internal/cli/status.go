package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soyeahso/ocbridge/internal/config"
	"github.com/soyeahso/ocbridge/internal/version"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show ocbridge status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("ocbridge %s (commit %s)\n\n", version.Version, version.Commit)

			// Show paths
			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("Config:  not found (using defaults)")
				} else {
					fmt.Printf("Config:  error loading: %v\n", err)
				}
				return nil
			}

			fmt.Printf("Gateway:   port=%d bind=%s\n", cfg.Gateway.Port, cfg.Gateway.Bind)

			if cfg.Platform.PublicKey != "" {
				fmt.Println("Platform:  public key configured")
			} else {
				fmt.Println("Platform:  public key missing — inbound traffic cannot be verified")
			}
			if cfg.Platform.DefaultAPIGateway != "" {
				fmt.Printf("Platform:  default api gateway=%s\n", cfg.Platform.DefaultAPIGateway)
			}
			fmt.Printf("Welcome:   onInstall=%v newMembers=%v\n",
				cfg.Platform.WelcomeOnInstall, cfg.Platform.WelcomeNewMembers)

			if cfg.Directory.Host != "" {
				fmt.Printf("Directory: host=%s ttl=%dm\n", cfg.Directory.Host, cfg.Directory.TTLMinutes)
			} else {
				fmt.Println("Directory: (not configured)")
			}

			fmt.Printf("Runtime:   %s\n", cfg.Runtime.URL)

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}
