/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/BibleWing/internal/app"
	mcppresenter "github.com/josephgoksu/BibleWing/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server so AI assistants can read
scripture through BibleWing.

Tools:
  get_verse            verse, linked entities, commentary and audio path
  get_chapter          every verse of a chapter
  search_verses        case-insensitive text search (max 100 results)
  get_linked_entities  people, places, topics, events and word studies
  verse_note           render or write the Markdown study note of a verse
  ask                  question to the configured AI provider

The server speaks JSON-RPC over stdio and runs until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// mcpMarkdownResponse wraps Markdown content in an MCP tool result.
func mcpMarkdownResponse(markdown string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: markdown}},
	}, nil
}

// mcpErrorResponse wraps an error in an MCP tool result with IsError=true.
// Tool errors go in the result, not the protocol, so the model can see them.
func mcpErrorResponse(err error) (*mcpsdk.CallToolResultFor[any], error) {
	return mcpFormattedErrorResponse(mcppresenter.FormatError(err.Error()))
}

// mcpFormattedErrorResponse wraps pre-formatted error text with IsError=true.
func mcpFormattedErrorResponse(formattedError string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: formattedError}},
		IsError: true,
	}, nil
}

// mcpToolResponse converts a handler outcome into a tool result.
func mcpToolResponse(result *mcppresenter.ToolResult, err error) (*mcpsdk.CallToolResultFor[any], error) {
	if err != nil {
		return mcpErrorResponse(err)
	}
	if result.Error != "" {
		return mcpFormattedErrorResponse(result.Error)
	}
	return mcpMarkdownResponse(result.Content)
}

// newMCPServer registers every study tool against study.
func newMCPServer(study *app.StudyApp) *mcpsdk.Server {
	impl := &mcpsdk.Implementation{
		Name:    "biblewing-mcp",
		Version: version,
	}
	serverOpts := &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			fmt.Fprintf(os.Stderr, "✓ MCP connection established\n")
		},
	}
	server := mcpsdk.NewServer(impl, serverOpts)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        mcppresenter.ToolGetVerse,
		Description: `Get a verse by uid (e.g. {"uid":"VR-KJV-010101-AA"}) with its linked people, places, topics, events, word studies, commentary and audio path.`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.VerseParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(mcppresenter.HandleGetVerse(ctx, study, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        mcppresenter.ToolGetChapter,
		Description: `Get every verse of a chapter in order, e.g. {"book":"Genesis","chapter":1}.`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.ChapterParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(mcppresenter.HandleGetChapter(ctx, study, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        mcppresenter.ToolSearchVerses,
		Description: `Find verses whose text contains the query (case-insensitive, at most 100 results ordered by uid), e.g. {"query":"light"}.`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.SearchParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(mcppresenter.HandleSearchVerses(ctx, study, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        mcppresenter.ToolGetLinkedEntities,
		Description: `List the people, places, topics, events and lexicon entries linked to a verse, e.g. {"uid":"VR-KJV-010101-AA"}.`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.VerseParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(mcppresenter.HandleGetLinkedEntities(ctx, study, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        mcppresenter.ToolVerseNote,
		Description: `Render the Markdown study note of a verse. Set "write":true to save it into the notes directory ("force":true overwrites).`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.NoteParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(mcppresenter.HandleVerseNote(ctx, study, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        mcppresenter.ToolAsk,
		Description: `Ask the configured AI provider a study question. Pass "uid" to send a verse and its neighbours as context.`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.AskParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(mcppresenter.HandleAsk(ctx, study, params.Arguments))
	})

	return server
}

func runMCPServer(cmd *cobra.Command) error {
	// NOTE: MCP uses stdio transport. stdout MUST be pure JSON-RPC.
	// All status/debug output goes to stderr only.
	fmt.Fprintln(os.Stderr, "BibleWing MCP Server starting...")

	study, settings, err := openStudy(cmd)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "[DEBUG] Using %s database\n", settings.Database.Type)
	}

	server := newMCPServer(study)
	if err := server.Run(cmd.Context(), mcpsdk.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
