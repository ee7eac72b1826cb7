package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lamim/reqflow/internal/config"
	"github.com/lamim/reqflow/internal/prompt"
	"github.com/lamim/reqflow/pkg/models"
)

func newFlowCmd() *cobra.Command {
	var docType, output string

	cmd := &cobra.Command{
		Use:   "flow <file>",
		Short: "Convert one document and print its conversation flow",
		Long: `Convert a single requirements document into a conversation flow.
Use "-" to read the document from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output format %q (want json or yaml)", output)
			}

			a, err := loadApp(cmd, "")
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if err := config.ValidateDocument(doc, a.cfg.Server.MaxDocumentBytes); err != nil {
				return fmt.Errorf("invalid document: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := a.flows.CreateFlow(ctx, doc, docType)
			if err != nil {
				return fmt.Errorf("conversion failed: %w", err)
			}
			if result.FallbackUsed {
				a.logger.Warn("Printing fallback flow", "reason", result.Recovered)
			}

			return writeFlow(cmd.OutOrStdout(), result.Value, output)
		},
	}

	cmd.Flags().StringVar(&docType, "type", "", "Document type used in the prompt (default Requirements)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")

	return cmd
}

func newPromptCmd() *cobra.Command {
	var (
		intent      string
		docType     string
		historyPath string
		question    string
		response    string
	)

	cmd := &cobra.Command{
		Use:   "prompt [file]",
		Short: "Render the prompt an intent would send, without calling the model",
		Long: `Render the system and user prompt for an intent (dry run).

create_flow and convert_document embed the document file.
process_response and extract_decisions read conversation history from --history,
a JSON array of {"question","response"} objects.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, "")
			if err != nil {
				return err
			}
			defer a.Close()

			in := prompt.Input{
				DocumentType:    docType,
				CurrentQuestion: question,
				UserResponse:    response,
			}
			if len(args) == 1 {
				if in.Document, err = readDocument(args[0]); err != nil {
					return err
				}
			}
			if historyPath != "" {
				if in.History, err = readHistory(historyPath); err != nil {
					return err
				}
			}

			p, err := a.flows.Prompt(intent, in)
			if err != nil {
				return fmt.Errorf("failed to build prompt: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# intent: %s  temperature: %.1f  max_tokens: %d  prompt_tokens: %d  history_used: %d\n",
				p.Intent, p.Temperature, p.MaxTokens, p.Tokens, p.HistoryUsed)
			fmt.Fprintln(out, "## system")
			fmt.Fprintln(out, p.System)
			fmt.Fprintln(out, "## user")
			fmt.Fprintln(out, p.User)
			return nil
		},
	}

	cmd.Flags().StringVar(&intent, "intent", config.IntentCreateFlow,
		"Intent: "+strings.Join(config.IntentNames(), ", "))
	cmd.Flags().StringVar(&docType, "type", "", "Document type used in the prompt")
	cmd.Flags().StringVar(&historyPath, "history", "", "JSON file with conversation history")
	cmd.Flags().StringVar(&question, "question", "", "Current question (process_response)")
	cmd.Flags().StringVar(&response, "response", "", "User response (process_response)")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a conversation flow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(models.FlowSchema())
		},
	}
}

func readDocument(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(data), nil
}

func readHistory(path string) ([]models.Exchange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	var history []models.Exchange
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return history, nil
}

// writeFlow prints the flow as indented JSON or as YAML with the JSON key names and order
func writeFlow(w io.Writer, f models.ConversationFlow, format string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode flow: %w", err)
	}
	if format == "json" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("failed to convert flow to yaml: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles JSON input leaves on each node
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
