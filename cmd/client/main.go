// Command client is a terminal front end for a running legifai-be server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	token     string
	sessionID string
	plain     bool
)

// demoConsultation is the three-step company formation walk-through.
var demoConsultation = []string{
	"¿Qué documentos necesito para crear una sociedad limitada?",
	"Queremos crear una SL con 2 socios, capital inicial de 10.000€, y actividad de consultoría tecnológica.",
	"Gracias por la información.",
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "legifai",
		Short:        "LegifAI legal consultation client",
		SilenceUsage: true,
		RunE:         runChat,
	}
	root.PersistentFlags().StringVar(&serverURL, "url", envOr("LEGIFAI_URL", "http://localhost:8000"), "server base URL")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("LEGIFAI_TOKEN"), "bearer token, when the server requires one")
	root.PersistentFlags().StringVar(&sessionID, "session", "", "resume an existing session id")
	root.PersistentFlags().BoolVar(&plain, "plain", false, "print replies without markdown rendering")

	root.AddCommand(
		&cobra.Command{Use: "chat", Short: "Interactive consultation (default)", RunE: runChat},
		&cobra.Command{Use: "demo", Short: "Run the example three-step consultation", RunE: runDemo},
		&cobra.Command{Use: "health", Short: "Check that the server is up", RunE: runHealth},
		newIngestCmd(),
	)
	return root
}

func newIngestCmd() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Queue a statute text file for ingestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if source == "" {
				source = args[0]
			}
			if err := newAPIClient(serverURL, token).Ingest(cmd.Context(), source, string(content)); err != nil {
				color.Red("❌ %v", err)
				return err
			}
			color.Green("✅ %s queued (%d bytes)", source, len(content))
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "source identifier, e.g. BOE-A-2015-11430 (defaults to the file name)")
	return cmd
}

func runHealth(cmd *cobra.Command, args []string) error {
	res, err := newAPIClient(serverURL, token).Health(cmd.Context())
	if err != nil {
		color.Red("❌ Cannot reach %s: %v", serverURL, err)
		return err
	}
	color.Green("✅ %s is %s (session store: %s)", res["service"], res["status"], res["store"])
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	api := newAPIClient(serverURL, token)

	id, err := ensureSession(ctx, api)
	if err != nil {
		return err
	}
	color.Cyan("🤖 LegifAI - Example Consultation")
	color.Cyan("Session ID: %s", id)

	for i, msg := range demoConsultation {
		color.Yellow("\n📋 Step %d", i+1)
		fmt.Printf("User: %s\n", msg)
		if err := ask(ctx, api, id, msg); err != nil {
			return err
		}
	}
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	api := newAPIClient(serverURL, token)

	id, err := ensureSession(ctx, api)
	if err != nil {
		return err
	}
	color.Cyan("🤖 LegifAI - Session %s", id)
	color.HiBlack("Commands: /history  /clear  /new  /quit")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		color.New(color.FgGreen, color.Bold).Print("\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/new":
			if id, err = api.NewSession(ctx); err != nil {
				color.Red("❌ %v", err)
				continue
			}
			color.Cyan("New session %s", id)
		case "/clear":
			if err := api.Clear(ctx, id); err != nil {
				color.Red("❌ %v", err)
				continue
			}
			color.Cyan("Session cleared; the next question starts a new consultation.")
		case "/history":
			printHistory(ctx, api, id)
		default:
			_ = ask(ctx, api, id, line)
		}
	}
}

func ensureSession(ctx context.Context, api *apiClient) (string, error) {
	if sessionID != "" {
		return sessionID, nil
	}
	id, err := api.NewSession(ctx)
	if err != nil {
		color.Red("❌ Could not start a session: %v", err)
	}
	return id, err
}

func ask(ctx context.Context, api *apiClient, id, message string) error {
	res, err := api.Invoke(ctx, id, message)
	if err != nil {
		color.Red("❌ %v", err)
		return err
	}
	color.HiBlack("[turn %d · %s]", res.TurnIndex, res.Stage)
	fmt.Print("LegifAI: ")
	fmt.Println(render(res.Reply))
	return nil
}

func printHistory(ctx context.Context, api *apiClient, id string) {
	h, err := api.History(ctx, id)
	if err != nil {
		color.Red("❌ %v", err)
		return
	}
	if len(h.Turns) == 0 {
		color.HiBlack("(no turns yet)")
		return
	}
	for _, t := range h.Turns {
		color.Yellow("#%d", t.Index)
		fmt.Printf("User: %s\nLegifAI: %s\n", t.UserText, t.AssistantText)
	}
	color.HiBlack("%d statute excerpts attached to this consultation", len(h.Context))
}

func render(markdown string) string {
	if plain {
		return markdown
	}
	out, err := glamour.Render(markdown, "dark")
	if err != nil {
		return markdown
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
