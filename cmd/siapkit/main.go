package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"siapkit/internal/bootstrap"
	"siapkit/internal/platform/config"
	"siapkit/internal/platform/logging"
)

// exitError carries a specific process exit code out of a command.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	envFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "siapkit",
		Short:         "SIAP lesson planning bot and delivery receipt generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", config.DefaultConfigPath, "YAML config file")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", config.DefaultEnvFile, "dotenv file with SIAP credentials")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "debug logging")

	root.AddCommand(newPlanCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newReceiptsCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	return root
}

func loadConfig(cmd *cobra.Command, flags *globalFlags) (config.Config, error) {
	return config.New(config.Options{
		Path:     flags.configPath,
		Explicit: cmd.Flags().Changed("config"),
		EnvFile:  flags.envFile,
	})
}

func loadApp(cmd *cobra.Command, flags *globalFlags) (*bootstrap.App, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logging.New(cmd.ErrOrStderr(), flags.verbose))
}

func newPlanCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Log into SIAP and plan lessons class by class",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if err := app.Config.RequireCredentials(); err != nil {
				return err
			}
			code, err := bootstrap.RunPlanner(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if code != 0 {
				return exitError{code: code}
			}
			return nil
		},
	}
}

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent class outcomes from the run journal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			planner, err := app.Planner()
			if err != nil {
				return err
			}
			entries, err := planner.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "FINISHED\tRUN\tCLASS\tSTATE\tSAVED\tOK\tNOTE")
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d %s\t%s\t%d\t%t\t%s\n",
					e.FinishedAt.Local().Format("2006-01-02 15:04"), e.RunID, e.Number, e.Label, e.State, e.LessonsSaved, e.OK, e.Note)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries")
	return cmd
}

func newReceiptsCmd(flags *globalFlags) *cobra.Command {
	var input, template, outDir string
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "Generate one delivery receipt PDF per student record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			rc, err := app.Config.Receipts.Override(config.ReceiptsConfig{Input: input, Template: template, OutputDir: outDir})
			if err != nil {
				return err
			}
			out, err := app.ReceiptCLI.Generate(cmd.Context(), rc.Input, rc.Template, rc.OutputDir, rc.Overlay)
			for _, s := range out.Skipped {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", s.Student, s.Reason)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "PDFs preenchidos e salvos com sucesso! (%d em %s)\n", len(out.Generated), rc.OutputDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "student dataset (.csv or .xlsx)")
	cmd.Flags().StringVar(&template, "template", "", "receipt template PDF")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory")
	return cmd
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), cfg.String())
			return nil
		},
	}
}
