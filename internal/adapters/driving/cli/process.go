package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driving"
)

// exitWords end the chat loop.
var exitWords = map[string]bool{
	"exit": true,
	"quit": true,
	"bye":  true,
}

var (
	processSource string
	processMock   string
	processFile   string
	processDump   string
	processNoChat bool
)

var processCmd = &cobra.Command{
	Use:   "process [url]",
	Short: "Process a profile and chat about it",
	Long: `Fetches a profile, builds a retrieval index over it, prints three
interesting facts, and opens an interactive question loop.

The profile comes from the URL argument, a saved page via --mock, or an
uploaded file via --file. Exactly one input is required.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processSource, "source", "s", "wiki", "profile source: wiki or linkedin")
	processCmd.Flags().StringVar(&processMock, "mock", "", "path to a saved page instead of fetching")
	processCmd.Flags().StringVar(&processFile, "file", "", "path to an uploaded profile file")
	processCmd.Flags().StringVar(&processDump, "dump", "", "write the extracted profile as JSON to this path")
	processCmd.Flags().BoolVar(&processNoChat, "no-chat", false, "skip the interactive question loop")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	source, err := parseSource(processSource)
	if err != nil {
		return err
	}

	fetch, err := buildFetchRequest(args)
	if err != nil {
		return err
	}

	if err := initServices(); err != nil {
		return err
	}

	result, err := profileService.Process(cmd.Context(), driving.ProcessRequest{
		Source: source,
		Fetch:  fetch,
	})
	if err != nil {
		return fmt.Errorf("process profile: %w", err)
	}

	cmd.Printf("Processed %q: %d chunks indexed.\n", result.Record.Name, result.ChunkCount)
	for _, warning := range result.Warnings {
		cmd.Printf("Warning: %s\n", warning)
	}

	if processDump != "" {
		if err := dumpRecord(result.Record, processDump); err != nil {
			return err
		}
		cmd.Printf("Profile written to %s\n", processDump)
	}

	if result.Facts != "" {
		cmd.Println("\nHere are 3 interesting facts about this character:")
		cmd.Println(result.Facts)
	}

	if processNoChat {
		cmd.Printf("\nSession: %s\n", result.SessionID)
		return nil
	}

	return chatLoop(cmd, result.SessionID)
}

// chatLoop answers questions until the user types an exit word or the
// input stream ends.
func chatLoop(cmd *cobra.Command, sessionID string) error {
	cmd.Println("\nYou can now ask more questions about this character. Type 'exit', 'quit', or 'bye' to quit.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("You: ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if exitWords[strings.ToLower(question)] {
			cmd.Println("Bot: Goodbye!")
			return nil
		}

		answer, err := answerService.Ask(cmd.Context(), sessionID, question)
		if err != nil {
			cmd.Printf("Bot: Sorry, something went wrong: %v\n\n", err)
			continue
		}
		cmd.Printf("Bot: %s\n\n", answer.Text)
	}
}

func parseSource(raw string) (domain.SourceType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "wiki":
		return domain.SourceTypeWiki, nil
	case "linkedin":
		return domain.SourceTypeLinkedIn, nil
	default:
		return "", fmt.Errorf("%w: source must be wiki or linkedin, got %q", domain.ErrInvalidInput, raw)
	}
}

func buildFetchRequest(args []string) (domain.FetchRequest, error) {
	var fetch domain.FetchRequest
	if len(args) == 1 {
		fetch.URL = args[0]
	}
	fetch.MockPath = processMock

	if processFile != "" {
		content, err := os.ReadFile(processFile)
		if err != nil {
			return domain.FetchRequest{}, fmt.Errorf("read %s: %w", processFile, err)
		}
		fetch.Raw = content
	}

	if fetch.URL == "" && fetch.MockPath == "" && len(fetch.Raw) == 0 {
		return domain.FetchRequest{}, fmt.Errorf("%w: provide a URL, --mock, or --file", domain.ErrInvalidInput)
	}
	return fetch, nil
}

func dumpRecord(record *domain.ProfileRecord, path string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
