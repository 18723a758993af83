package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/gradualbook/internal/cli"
	"codeberg.org/snonux/gradualbook/internal/models"
	"codeberg.org/snonux/gradualbook/internal/processor"
)

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()

	// Config file and environment fill what the command line left open
	cli.LoadConfig(flags)

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey(), flags.BaseURL)
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	if flags.BatchFile == "" && len(args) == 0 {
		return errors.New("no book given: pass an EPUB file or use --batch")
	}
	if flags.BatchFile != "" && len(args) > 0 {
		return errors.New("a book argument and --batch cannot be used together")
	}
	if flags.BatchFile != "" && flags.OutputPath != "" {
		return errors.New("--output cannot be used with --batch; name outputs in the batch file instead")
	}
	if flags.TargetLanguage == "" {
		return errors.New("target language is required (use --target, e.g. -t is)")
	}

	// Usage is printed for argument mistakes only
	cmd.SilenceUsage = true

	// Create processor
	proc := processor.NewProcessor(flags)

	var err error
	if flags.BatchFile != "" {
		err = proc.ProcessBatch(ctx)
	} else {
		err = proc.ProcessBook(ctx, args[0], flags.OutputPath)
	}

	if processor.IsCanceled(err) {
		fmt.Fprintln(os.Stderr, "Interrupted, no output written")
	}
	return err
}
