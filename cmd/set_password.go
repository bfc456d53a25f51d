package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/jon4hz/vitrine/internal/auth"
	"github.com/jon4hz/vitrine/internal/config"
	"github.com/jon4hz/vitrine/internal/docstore"
	"github.com/spf13/cobra"
)

var setPasswordCmdFlags struct {
	Username string
	Password string
}

var setPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Replace the admin credential",
	Long:  `Replace the stored admin username and password. Tokens issued before stay valid until they expire.`,
	Run:   setPassword,
}

func init() {
	setPasswordCmd.Flags().StringVarP(&setPasswordCmdFlags.Username, "username", "u", auth.DefaultUsername, "Admin username")
	setPasswordCmd.Flags().StringVarP(&setPasswordCmdFlags.Password, "password", "p", "", "New admin password")
	_ = setPasswordCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(setPasswordCmd)
}

func setPassword(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	docs, err := docstore.Open(cfg.Storage.Documents)
	if err != nil {
		log.Fatalf("failed to open document store: %v", err)
	}
	defer docs.Close() //nolint:errcheck

	codec, err := newTokenCodec(cfg, false)
	if err != nil {
		log.Fatalf("failed to create token codec: %v", err)
	}

	authenticator, err := auth.New(docs, codec)
	if err != nil {
		log.Fatalf("failed to create authenticator: %v", err)
	}

	if err := authenticator.SetPassword(cmd.Context(), setPasswordCmdFlags.Username, setPasswordCmdFlags.Password); err != nil {
		log.Fatalf("failed to set password: %v", err)
	}

	log.Info("Admin credential updated", "username", setPasswordCmdFlags.Username)
}
