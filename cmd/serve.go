package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/vitrine/internal/api"
	"github.com/jon4hz/vitrine/internal/auth"
	"github.com/jon4hz/vitrine/internal/blobstore"
	"github.com/jon4hz/vitrine/internal/config"
	"github.com/jon4hz/vitrine/internal/docstore"
	"github.com/jon4hz/vitrine/internal/portfolio"
	"github.com/jon4hz/vitrine/internal/resume"
	"github.com/jon4hz/vitrine/internal/upload"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vitrine server",
	Long:  `Start the vitrine API server. The default admin account is created on first start.`,
	Example: `vitrine serve --config config.yml
vitrine serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := docstore.Open(cfg.Storage.Documents)
	if err != nil {
		log.Fatalf("failed to open document store: %v", err)
	}
	defer docs.Close() //nolint:errcheck

	blobs, err := blobstore.Open(ctx, cfg.Storage.Uploads, string(upload.KindPhoto), string(upload.KindResume))
	if err != nil {
		log.Fatalf("failed to open upload store: %v", err)
	}

	codec, err := newTokenCodec(cfg, true)
	if err != nil {
		log.Fatalf("failed to create token codec: %v", err)
	}

	authenticator, err := auth.New(docs, codec)
	if err != nil {
		log.Fatalf("failed to create authenticator: %v", err)
	}
	if _, err := authenticator.Bootstrap(ctx); err != nil {
		log.Fatalf("failed to bootstrap admin: %v", err)
	}

	portfolioSvc := portfolio.NewService(docs)
	uploads := upload.New(blobs)
	resumeSvc := resume.NewService(uploads, upload.ResumeLimits(cfg.Uploads), portfolioSvc, resume.Placeholder{})

	api.Version = Version
	server, err := api.New(cfg, authenticator, portfolioSvc, uploads, resumeSvc, log.GetLevel() == log.DebugLevel)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Run)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	log.Info("vitrine started successfully")
	if err := g.Wait(); err != nil {
		log.Error("API server error", "error", err)
		return
	}
	log.Info("vitrine stopped")
}

// newTokenCodec builds the token codec from the configured secret. Without
// one a random secret is used, so tokens do not survive a restart.
func newTokenCodec(cfg *config.Config, warn bool) (*auth.TokenCodec, error) {
	secret := []byte(cfg.SecretKey)
	if len(secret) == 0 {
		var err error
		secret, err = auth.GenerateSecret(auth.SecretSize)
		if err != nil {
			return nil, err
		}
		if warn {
			log.Warn("no secret_key configured, using a random one; issued tokens will not survive a restart")
		}
	}
	return auth.NewTokenCodec(secret, auth.WithTTL(cfg.TokenTTL))
}
