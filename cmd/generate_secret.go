package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/jon4hz/vitrine/internal/auth"
	"github.com/spf13/cobra"
)

var generateSecretCmd = &cobra.Command{
	Use:   "generate-secret",
	Short: "Generate a token signing secret",
	Long: `Generate a random secret for signing access tokens.

Add the generated value to your configuration file as secret_key or export it as VITRINE_SECRET_KEY.
Without a configured secret every restart invalidates all issued tokens.`,
	RunE: generateSecret,
}

func init() {
	rootCmd.AddCommand(generateSecretCmd)
}

func generateSecret(cmd *cobra.Command, _ []string) error {
	secret, err := auth.GenerateSecret(auth.SecretSize)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(secret))
	return nil
}
