package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the paper source, AI providers, vector backend,
and ranking policy.

Use subcommands to configure specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Configure the paper source",
	Long:  `Configure where papers are read from: a local directory or an S3 bucket.`,
	RunE:  runSettingsSource,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long:  `Configure the provider used to embed paper text for ranking.`,
	RunE:  runSettingsEmbedding,
}

var settingsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Configure the summary provider",
	Long:  `Configure the provider used to generate paper summaries.`,
	RunE:  runSettingsSummary,
}

var settingsVectorCmd = &cobra.Command{
	Use:   "vector",
	Short: "Configure the vector backend",
	Long: `Select where embeddings are stored.

Available backends:
  sqlite   - vectors stored alongside metadata (no setup required)
  pgvector - Postgres with the pgvector extension (requires a DSN)
  chromem  - embedded chromem database`,
	RunE: runSettingsVector,
}

var settingsPolicyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Set the ranking score policy",
	Long: `Set how pairwise chunk similarities aggregate to a paper score.

Available policies:
  mean - average over all seed/paper chunk pairs
  max  - best single pairwise similarity`,
	RunE: runSettingsPolicy,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key [provider]",
	Short: "Update a provider API key",
	Long:  `Updates the stored API key for a provider wherever it is configured.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSetKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSourceCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsSummaryCmd)
	settingsCmd.AddCommand(settingsVectorCmd)
	settingsCmd.AddCommand(settingsPolicyCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Source]")
	cmd.Printf("  Type: %s\n", settings.Source.Type)
	if settings.Source.Type == "filesystem" {
		cmd.Printf("  Path: %s\n", orUnset(settings.Source.Path))
	}
	if settings.Source.Type == "s3" {
		cmd.Printf("  Endpoint: %s\n", orUnset(settings.Source.Endpoint))
		cmd.Printf("  Bucket: %s\n", orUnset(settings.Source.Bucket))
		cmd.Printf("  Region: %s\n", settings.Source.Region)
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	printProviderSettings(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	cmd.Println()

	cmd.Println("[Summary]")
	printProviderSettings(cmd, settings.Summary.Provider, settings.Summary.Model,
		settings.Summary.BaseURL, settings.Summary.APIKey, settings.Summary.IsConfigured())
	cmd.Println()

	cmd.Println("[Vector]")
	cmd.Printf("  Backend: %s\n", settings.Vector.Backend)
	if settings.Vector.Backend == domain.VectorBackendPgvector {
		cmd.Printf("  DSN: %s\n", orUnset(settings.Vector.DSN))
	}
	cmd.Println()

	cmd.Println("[Rank]")
	cmd.Printf("  Policy: %s\n", settings.Rank.Policy)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Use the settings subcommands to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printProviderSettings(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	if provider == "" {
		cmd.Println("  Provider: (not set)")
		return
	}
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func runSettingsSource(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Source Type")
	cmd.Println("  1. filesystem - papers in a local directory")
	cmd.Println("  2. s3 - papers in an S3-compatible bucket")
	cmd.Print("\nEnter choice [1]: ")
	choice := parseChoice(readLine(reader), 2, 1)

	src := domain.SourceSettings{}
	if choice == 1 {
		src.Type = "filesystem"
		cmd.Print("Enter papers directory: ")
		src.Path = readLine(reader)
	} else {
		src.Type = "s3"
		cmd.Print("Enter endpoint (e.g. s3.amazonaws.com): ")
		src.Endpoint = readLine(reader)
		cmd.Print("Enter bucket name: ")
		src.Bucket = readLine(reader)
		cmd.Print("Enter region [us-east-1]: ")
		src.Region = readLine(reader)
		cmd.Print("Enter access key (empty for anonymous): ")
		src.AccessKey = readLine(reader)
		if src.AccessKey != "" {
			cmd.Print("Enter secret key: ")
			src.SecretKey = readPassword()
			cmd.Println()
		}
		src.UseSSL = true
	}

	if err := settingsService.SetSource(src); err != nil {
		return fmt.Errorf("failed to configure source: %w", err)
	}

	cmd.Printf("Source configured: %s\n", src.Type)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", selected.Description(), model)
	return nil
}

func runSettingsSummary(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Summary Provider")
	providers := domain.AllSummaryProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaults := domain.DefaultSummaryModels()
	defaultModel := defaults[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetSummaryProvider(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure summary provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateSummaryConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("summary configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Summary provider configured: %s (%s)\n", selected.Description(), model)
	return nil
}

func runSettingsVector(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Vector Backend")
	cmd.Println("  1. sqlite - vectors alongside metadata")
	cmd.Println("  2. pgvector - Postgres with the pgvector extension")
	cmd.Println("  3. chromem - embedded chromem database")
	cmd.Print("\nEnter choice [1]: ")
	choice := parseChoice(readLine(reader), 3, 1)

	var backend domain.VectorBackend
	var dsn, path string
	switch choice {
	case 2:
		backend = domain.VectorBackendPgvector
		cmd.Print("Enter Postgres DSN: ")
		dsn = readLine(reader)
	case 3:
		backend = domain.VectorBackendChromem
		cmd.Print("Enter data directory (empty for default): ")
		path = readLine(reader)
	default:
		backend = domain.VectorBackendSQLite
	}

	if err := settingsService.SetVectorBackend(backend, dsn, path); err != nil {
		return fmt.Errorf("failed to configure vector backend: %w", err)
	}

	cmd.Printf("Vector backend set to: %s\n", backend)
	if backend != domain.VectorBackendSQLite {
		cmd.Println("Note: existing vectors stay in the previous backend. Re-run 'paperrank ingest --force' to populate the new one.")
	}
	return nil
}

func runSettingsPolicy(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Score Policy")
	cmd.Println("  1. mean - average over all chunk pairs")
	cmd.Println("  2. max - best single chunk pair")
	cmd.Print("\nEnter choice [1]: ")
	choice := parseChoice(readLine(reader), 2, 1)

	policy := domain.ScorePolicyMean
	if choice == 2 {
		policy = domain.ScorePolicyMax
	}

	if err := settingsService.SetScorePolicy(policy); err != nil {
		return fmt.Errorf("failed to set score policy: %w", err)
	}

	cmd.Printf("Score policy set to: %s\n", policy)
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.AIProvider(args[0])
	if !provider.IsValid() {
		return fmt.Errorf("unknown provider: %s", args[0])
	}
	if !provider.RequiresAPIKey() {
		return fmt.Errorf("provider %s does not use an API key", provider)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Printf("Enter API key for %s: ", provider)
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is empty")
	}

	updated := false
	if settings.Embedding.Provider == provider {
		if err := settingsService.SetEmbeddingProvider(provider, settings.Embedding.Model, apiKey); err != nil {
			return fmt.Errorf("failed to update embedding key: %w", err)
		}
		updated = true
	}
	if settings.Summary.Provider == provider {
		if err := settingsService.SetSummaryProvider(provider, settings.Summary.Model, apiKey); err != nil {
			return fmt.Errorf("failed to update summary key: %w", err)
		}
		updated = true
	}
	if !updated {
		return fmt.Errorf("provider %s is not configured; run 'paperrank settings embedding' or 'paperrank settings summary' first", provider)
	}

	cmd.Printf("API key updated for %s.\n", provider)
	return nil
}

// Helper functions.

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read the key without echo first.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
