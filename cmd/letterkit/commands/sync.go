// ABOUTME: Sync commands for Charm cloud synchronization
// ABOUTME: Pushes and pulls templates and the sender profile through Charm KV
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/letterkit/internal/charm"
	"github.com/harper/letterkit/internal/config"
	"github.com/harper/letterkit/internal/storage/sqlite"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Manage Charm cloud synchronization",
		Long: `Manage synchronization with Charm cloud.

Letterkit mirrors templates and the sender profile to Charm KV, keyed
by your SSH keys. When both sides hold the same template, the newer
one wins.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncPullCmd())
	cmd.AddCommand(newSyncNowCmd())

	return cmd
}

// withCharm opens config, storage and the charm client for fn
func withCharm(fn func(cfg *config.Config, store *sqlite.Storage, client *charm.Client) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := openCharm(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(cfg, store, client)
}

func printSyncResult(cmd *cobra.Command, result *charm.SyncResult) error {
	if outputFormat == "json" {
		return printJSON(cmd, result)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Pushed: %d template(s)\n", result.Pushed)
		fmt.Fprintf(cmd.OutOrStdout(), "Pulled: %d template(s)\n", result.Pulled)
		if result.Profile {
			fmt.Fprintln(cmd.OutOrStdout(), "Profile synced")
		}
	}
	return nil
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and connection info",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCharm(func(cfg *config.Config, store *sqlite.Storage, client *charm.Client) error {
				id, err := client.ID()
				if err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Status: Not connected")
					fmt.Fprintln(cmd.OutOrStdout(), "Check your SSH keys with 'charm keys'")
					return nil
				}

				remote, err := client.ListKeys(charm.TemplatePrefix)
				if err != nil {
					return fmt.Errorf("listing remote templates: %w", err)
				}
				local, err := store.ListTemplates()
				if err != nil {
					return fmt.Errorf("listing local templates: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Status: Connected")
				fmt.Fprintf(cmd.OutOrStdout(), "User ID: %s\n", id)
				fmt.Fprintf(cmd.OutOrStdout(), "Host: %s\n", cfg.CharmHost)
				fmt.Fprintf(cmd.OutOrStdout(), "Database: %s\n", cfg.CharmDBName)
				fmt.Fprintf(cmd.OutOrStdout(), "Templates: %d local, %d remote\n", len(local), len(remote))
				return nil
			})
		},
	}
}

func newSyncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload local templates and profile to Charm",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCharm(func(_ *config.Config, store *sqlite.Storage, client *charm.Client) error {
				result, err := client.PushTemplates(store)
				if err != nil {
					return fmt.Errorf("push failed: %w", err)
				}
				return printSyncResult(cmd, result)
			})
		},
	}
}

func newSyncPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Download newer templates and profile from Charm",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCharm(func(_ *config.Config, store *sqlite.Storage, client *charm.Client) error {
				result, err := client.PullTemplates(store)
				if err != nil {
					return fmt.Errorf("pull failed: %w", err)
				}
				return printSyncResult(cmd, result)
			})
		},
	}
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Pull then push so both sides hold the newest copies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCharm(func(_ *config.Config, store *sqlite.Storage, client *charm.Client) error {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "Syncing...")
				}
				result, err := client.SyncTemplates(store)
				if err != nil {
					return fmt.Errorf("sync failed: %w", err)
				}
				return printSyncResult(cmd, result)
			})
		},
	}
}
