// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Skald deck tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/skald/internal/deckservice"
	"github.com/starford/skald/internal/theme"
)

// Server wraps the MCP server with Skald tools.
type Server struct {
	mcp *server.MCPServer
	svc *deckservice.Service
}

// New creates a new MCP server with all Skald tools registered.
func New(svc *deckservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Skald",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_decks",
		mcp.WithDescription("Full-text search through deck titles, bullet points and speaker notes."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchDecks)

	s.mcp.AddTool(mcp.NewTool("read_deck",
		mcp.WithDescription("Read a full presentation deck as JSON."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Deck id")),
	), s.readDeck)

	s.mcp.AddTool(mcp.NewTool("create_deck",
		mcp.WithDescription("Create a new presentation deck from a JSON document. "+
			"Content MUST follow the canonical deck format (mainTitle, slides with "+
			"title/content/imageKeyword/speakerNotes). Read the contract first via "+
			"the get_deck_contract tool or the skald://deck-format resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Deck JSON following the Skald deck format contract")),
	), s.createDeck)

	s.mcp.AddTool(mcp.NewTool("get_deck_contract",
		mcp.WithDescription("Returns the canonical Skald deck format contract. "+
			"Call this before creating or updating decks to ensure correct structure."),
	), s.getDeckContract)

	s.mcp.AddTool(mcp.NewTool("list_decks",
		mcp.WithDescription("List all decks in the library with titles and slide counts."),
	), s.listDecks)

	s.mcp.AddTool(mcp.NewTool("list_themes",
		mcp.WithDescription("List the available export themes."),
	), s.listThemes)

	s.mcp.AddTool(mcp.NewTool("export_deck",
		mcp.WithDescription("Export a deck to a .pptx file on the local filesystem."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Deck id")),
		mcp.WithString("dir", mcp.Required(), mcp.Description("Directory to write the .pptx file into")),
		mcp.WithString("theme", mcp.Description("Theme id (defaults to clean-white)")),
	), s.exportDeck)

	s.mcp.AddTool(mcp.NewTool("set_slide_image",
		mcp.WithDescription("Attach a custom image to a slide, replacing any fetched one. "+
			"Accepts an http(s) URL or a base64 data URI."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Deck id")),
		mcp.WithString("slide_id", mcp.Required(), mcp.Description("Slide id within the deck")),
		mcp.WithString("url", mcp.Required(), mcp.Description("Image source: http(s) URL or data URI")),
	), s.setSlideImage)

	// Resource: deck format contract.
	s.mcp.AddResource(
		mcp.NewResource("skald://deck-format", "Deck Format Contract",
			mcp.WithResourceDescription("Canonical deck JSON format that all decks must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDeckFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchDecks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDeck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetDeck(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(detail.Deck, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createDeck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.ImportJSON(ctx, []byte(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", detail.ID)), nil
}

func (s *Server) listDecks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, _, err := s.svc.ListDecks(ctx, 200, 0, "title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%d slides", item.ID, item.Title, item.SlideCount))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) listThemes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var lines []string
	for _, th := range theme.All() {
		lines = append(lines, fmt.Sprintf("%s\t%s", th.ID, th.Name))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) exportDeck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir, err := req.RequireString("dir")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	themeID := ""
	if v, tErr := req.RequireString("theme"); tErr == nil {
		themeID = v
	}

	data, filename, err := s.svc.ExportPPTX(ctx, id, deckservice.ExportOptions{ThemeID: themeID})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	target := filepath.Join(dir, filename)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("write failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("exported: %s", target)), nil
}

func (s *Server) getDeckContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DeckFormatContract), nil
}

func (s *Server) readDeckFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "skald://deck-format",
			MIMEType: "text/markdown",
			Text:     DeckFormatContract,
		},
	}, nil
}
