package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/gradualbook/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gradualbook [book.epub]",
		Short: "Gradual EPUB Translator",
		Long: `gradualbook rewrites an EPUB book so that more and more of its words
appear in the language you are learning.

The book is read in windows of a few paragraphs. In every window the most
frequent word that has not been translated yet is looked up and replaced in
that window and everything after it, so target language vocabulary grows as
you read.

Examples:
  gradualbook -t is book.epub                  # English book, Icelandic words
  gradualbook -t de -n 500 -o out.epub book.epub
  gradualbook -t fr --batch books.txt --jobs 2 # Translate several books
  gradualbook -t is --glossary book.epub       # Also export an Anki deck`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.gradualbook.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputPath, "output", "o", "", "Output EPUB path (default: <book>-<target>.epub next to the input)")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate books listed in file (one per line, 'in.epub' or 'in.epub = out.epub')")
	cmd.Flags().IntVarP(&flags.Jobs, "jobs", "j", flags.Jobs, "Number of books translated at the same time in batch mode")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move an existing output file to archive/ instead of overwriting it")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI chat models for the current API key")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Only print errors")

	// Translation flags
	cmd.Flags().StringVarP(&flags.SourceLanguage, "source", "s", flags.SourceLanguage, "Source language (ISO 639-1 code or 'auto')")
	cmd.Flags().StringVarP(&flags.TargetLanguage, "target", "t", "", "Target language (ISO 639-1 code, required)")
	cmd.Flags().IntVarP(&flags.MaxWords, "max-words", "n", flags.MaxWords, "Maximum number of distinct words to translate")
	cmd.Flags().IntVarP(&flags.WindowSize, "window", "w", flags.WindowSize, "Paragraphs scanned per window")
	cmd.Flags().IntVar(&flags.MaxAttempts, "max-attempts", flags.MaxAttempts, "Lookups of a failing word before it is skipped for the rest of the book")

	// Oracle flags
	cmd.Flags().StringVar(&flags.Oracle, "oracle", flags.Oracle, "Translation service: openai, gemini or dictionary")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Model used by the translation service (default depends on --oracle)")
	cmd.Flags().StringVar(&flags.BaseURL, "base-url", "", "OpenAI compatible API endpoint")
	cmd.Flags().StringVar(&flags.DictionaryFile, "dictionary", "", "Word list for --oracle dictionary ('word = translation' per line)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout of a single translation request")
	cmd.Flags().IntVar(&flags.Retries, "retries", flags.Retries, "Retries of a translation request on transient errors")

	// Metadata flags
	cmd.Flags().StringVar(&flags.Title, "title", "", "Title of the translated book (default: title of the input)")
	cmd.Flags().StringVar(&flags.Author, "author", "", "Author of the translated book (default: author of the input)")

	// Glossary flags
	cmd.Flags().BoolVar(&flags.Glossary, "glossary", false, "Export the learned words as Anki package next to the output")
	cmd.Flags().BoolVar(&flags.GlossaryCSV, "glossary-csv", false, "Export the glossary as CSV instead of APKG when using --glossary")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for the glossary export")

	// Bind flags to viper
	bindFlagsToViper(cmd.Flags())
}

// viperKeys maps config keys to flag names.
var viperKeys = map[string]string{
	"translate.source_language": "source",
	"translate.target_language": "target",
	"translate.max_words":       "max-words",
	"translate.window_size":     "window",
	"translate.max_attempts":    "max-attempts",
	"oracle.provider":           "oracle",
	"oracle.model":              "model",
	"oracle.base_url":           "base-url",
	"oracle.dictionary":         "dictionary",
	"oracle.timeout":            "timeout",
	"oracle.retries":            "retries",
	"output.archive":            "archive",
	"output.jobs":               "jobs",
	"glossary.enabled":          "glossary",
	"glossary.csv":              "glossary-csv",
	"glossary.deck_name":        "deck-name",
}

func bindFlagsToViper(fs *pflag.FlagSet) {
	for key, name := range viperKeys {
		viper.BindPFlag(key, fs.Lookup(name))
	}
}

// LoadConfig fills flags the user did not set on the command line from the
// config file and environment.
func LoadConfig(flags *Flags) {
	flags.SourceLanguage = viper.GetString("translate.source_language")
	flags.TargetLanguage = viper.GetString("translate.target_language")
	flags.MaxWords = viper.GetInt("translate.max_words")
	flags.WindowSize = viper.GetInt("translate.window_size")
	flags.MaxAttempts = viper.GetInt("translate.max_attempts")
	flags.Oracle = viper.GetString("oracle.provider")
	flags.Model = viper.GetString("oracle.model")
	flags.BaseURL = viper.GetString("oracle.base_url")
	flags.DictionaryFile = viper.GetString("oracle.dictionary")
	flags.Timeout = viper.GetDuration("oracle.timeout")
	flags.Retries = viper.GetInt("oracle.retries")
	flags.Archive = viper.GetBool("output.archive")
	flags.Jobs = viper.GetInt("output.jobs")
	flags.Glossary = viper.GetBool("glossary.enabled")
	flags.GlossaryCSV = viper.GetBool("glossary.csv")
	flags.DeckName = viper.GetString("glossary.deck_name")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".gradualbook" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gradualbook")
	}

	// Environment variables
	viper.SetEnvPrefix("GRADUALBOOK")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("oracle.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}

	return viper.GetString("oracle.gemini_key")
}

// GetAPIKey returns the key for the given oracle provider
func GetAPIKey(provider string) string {
	if provider == "gemini" {
		return GetGeminiKey()
	}
	return GetOpenAIKey()
}
