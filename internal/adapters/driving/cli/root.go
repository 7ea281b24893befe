// Package cli provides the cobra command tree for the icebreaker CLI.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icebreaker-labs/icebreaker-cli/internal/adapters/driven/ai"
	configfile "github.com/icebreaker-labs/icebreaker-cli/internal/adapters/driven/config/file"
	chromemindex "github.com/icebreaker-labs/icebreaker-cli/internal/adapters/driven/index/chromem"
	"github.com/icebreaker-labs/icebreaker-cli/internal/adapters/driven/storage/memory"
	linkedinconn "github.com/icebreaker-labs/icebreaker-cli/internal/connectors/linkedin"
	wikiconn "github.com/icebreaker-labs/icebreaker-cli/internal/connectors/wiki"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driven"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driving"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/services"
	linkedinext "github.com/icebreaker-labs/icebreaker-cli/internal/extractors/linkedin"
	wikiext "github.com/icebreaker-labs/icebreaker-cli/internal/extractors/wiki"
	"github.com/icebreaker-labs/icebreaker-cli/internal/logger"
	"github.com/icebreaker-labs/icebreaker-cli/internal/postprocessors/chunker"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// Services wired by initServices and used by the commands.
var (
	profileService driving.ProfileService
	answerService  driving.AnswerService
	sessionStore   driven.SessionStore
)

var rootCmd = &cobra.Command{
	Use:   "icebreaker",
	Short: "Profile-grounded conversation starters",
	Long: `Icebreaker turns a wiki character page or a LinkedIn profile into a
queryable knowledge base: it extracts the profile, chunks and embeds it,
surfaces three interesting facts, and answers follow-up questions using
only the profile's own content.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if sessionStore != nil {
			_ = sessionStore.Close()
		}
	}()
	return rootCmd.Execute()
}

// initServices builds the full pipeline from configuration and the
// environment. Called by commands that need it, not at startup.
func initServices() error {
	if profileService != nil {
		return nil
	}

	creds, err := configfile.LoadCredentials()
	if err != nil {
		return err
	}

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	settings := configStore.Settings()
	settings.Embedding.APIKey = creds.OpenAIKey
	settings.LLM.APIKey = creds.PerplexityKey

	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return err
	}
	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		return err
	}

	prompts, err := configfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("create prompt store: %w", err)
	}

	splitter, err := chunker.New(
		chunker.WithChunkSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
		chunker.WithMinSectionLen(settings.MinSectionLen),
	)
	if err != nil {
		return fmt.Errorf("configure chunker: %w", err)
	}

	sessionStore = memory.NewSessionStore()
	answerer := services.NewAnswerService(sessionStore, llm, prompts, settings.TopK, settings.LLM.Temperature)
	answerService = answerer
	profileService = services.NewProfileService(
		map[domain.SourceType]driven.Connector{
			domain.SourceTypeWiki:     wikiconn.New(),
			domain.SourceTypeLinkedIn: linkedinconn.New(creds.ProxycurlKey),
		},
		map[domain.SourceType]driven.Extractor{
			domain.SourceTypeWiki:     wikiext.New(wikiext.WithMinParagraphLen(settings.MinParagraphLen)),
			domain.SourceTypeLinkedIn: linkedinext.New(),
		},
		splitter,
		chromemindex.NewFactory(embedder),
		sessionStore,
		answerer,
		settings.TopK,
	)

	return nil
}
