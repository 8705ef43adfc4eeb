package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mitkov/calbot/internal/calendar"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar",
		Long: `Runs the one-time OAuth flow: prints an authorization URL, waits
for the code and stores the token for later runs. Requires
GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET in the environment or a
.env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			if calendar.HasToken() {
				fmt.Println("Already authorized. Delete the token file to re-authorize.")
				return nil
			}

			url, err := calendar.GetAuthURL()
			if err != nil {
				return err
			}

			fmt.Printf("Open this URL in your browser and authorize access:\n\n%s\n\n", url)
			fmt.Print("Enter the authorization code: ")

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			if err := calendar.SaveToken(cmd.Context(), code); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Println("Authorization successful.")
			return nil
		},
	}

	return cmd
}
