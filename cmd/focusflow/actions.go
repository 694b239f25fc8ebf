package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/focusflow/internal/app"
	"github.com/sandeepkv93/focusflow/internal/commands"
	"github.com/sandeepkv93/focusflow/internal/config"
	"github.com/sandeepkv93/focusflow/internal/logger"
	"github.com/sandeepkv93/focusflow/internal/model"
)

func doCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "do <command...>",
		Short: "Run one palette command, e.g. focusflow do done 1",
		Long:  "Run one palette command.\n\nCommands:\n  " + strings.Join(commands.Usage, "\n  "),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Run(commandContext(cmd), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}

func watchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the reminder watcher in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			logger.Init(cfg.LogFormat, cfg.LogLevel, os.Stderr)
			w, closeWatcher, err := app.OpenWatcher(cfg)
			if err != nil {
				return err
			}
			defer closeWatcher()

			if _, err := w.Tick(ctx, time.Now()); err != nil {
				logger.Scheduler.Error("initial tick failed", "error", err)
			}
			w.Start(ctx)
			logger.Main.Info("watching for upcoming blocks",
				"interval", cfg.PollInterval(),
				"lead", cfg.ReminderLead(),
				"state", cfg.ResolvedStatePath())

			out := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					logger.Main.Info("watcher shutting down", "announced", w.Notified(), "dropped", w.Dropped())
					return nil
				case r, ok := <-w.C():
					if !ok {
						return nil
					}
					fmt.Fprintf(out, "%s  %s\n", r.StartAt.Local().Format("15:04"), r.Body)
				}
			}
		},
	}
}

func weekCmd(opts *rootOptions) *cobra.Command {
	weekCmd := &cobra.Command{
		Use:   "week",
		Short: "Weekly edit quota",
	}
	weekCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Give the current week its full edit quota back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			meta, err := a.ResetWeek(commandContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Week %d of %d: %d/%d edits used\n", meta.WeekNumber, meta.Year, meta.EditsUsed, model.MaxWeeklyEdits)
			return nil
		},
	})
	return weekCmd
}

func resetCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace all data with the starter plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset erases every task, habit and coin; pass --yes to confirm")
			}
			a, err := opts.open(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Store.ResetAllData(commandContext(cmd)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Data reset (bank %d)\n", a.Store.Snapshot().CoinBank)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}

func configCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the resolved config to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists; pass --force to overwrite", opts.configPath)
			}
			if err := config.WriteFile(opts.configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved config as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), cfg)
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}
