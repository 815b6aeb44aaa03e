// Package commands implements the CLI commands for the ruler build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"rulerbuild.com/ruler/internal/adapters/config"
	"rulerbuild.com/ruler/internal/app"
	"rulerbuild.com/ruler/internal/build"
)

// CLI represents the command line interface for ruler.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, req app.Request) error
	Clean(ctx context.Context, req app.Request) error
	Run(ctx context.Context, req app.Request, target string, args []string) error
	HashPath(path string) (string, error)
}

// New creates a new CLI instance with the given app. Settings provide the
// flag defaults, so values in .ruler.yaml apply unless overridden on the
// command line.
func New(a Application, settings config.Settings) *CLI {
	rootCmd := &cobra.Command{
		Use:           "ruler",
		Short:         "A file-dependency build tool with reversible cleaning",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("rules", "r", settings.Rules, "Path to the rules file")
	rootCmd.PersistentFlags().StringP("directory", "d", settings.Directory, "Directory for ruler state and cache")
	rootCmd.PersistentFlags().IntP("parallel", "j", settings.Parallelism, "Number of commands to run in parallel")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newHashCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// request assembles an app.Request from the persistent flags on cmd.
func request(cmd *cobra.Command, targets []string) app.Request {
	rules, _ := cmd.Flags().GetString("rules")
	directory, _ := cmd.Flags().GetString("directory")
	parallel, _ := cmd.Flags().GetInt("parallel")

	return app.Request{
		RulesFile:   rules,
		Directory:   directory,
		Parallelism: parallel,
		Targets:     targets,
	}
}
