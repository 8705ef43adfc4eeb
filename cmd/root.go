package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the calbot application
var rootCmd = &cobra.Command{
	Use:   "calbot",
	Short: "Telegram assistant for managing a Google Calendar",
	Long: `calbot is a Telegram bot that manages a Google Calendar through
guided conversations: creating and editing events, finding free
meeting slots across attendee calendars, daily schedules and usage
statistics.

Run 'calbot auth' once to authorize calendar access, then 'calbot
serve' (the default) to start the bot.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calbot version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
