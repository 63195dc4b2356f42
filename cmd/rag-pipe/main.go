package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"rag-pipe/pkg/config"
	"rag-pipe/pkg/ragpipe"
)

const helpFlag = "--help"

// version is set during build time via ldflags
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		dbPath      = flag.String("db", "", "Database path (overrides profile config)")
		chunkSize   = flag.Int("chunk-size", 0, "Chunk size in tokens (overrides profile config)")
		overlap     = flag.Int("chunk-overlap", -1, "Chunk overlap in tokens (overrides profile config)")
		help        = flag.Bool("help", false, "Show help")
		showVersion = flag.Bool("version", false, "Show version")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rag-pipe version %s\n", version)
		return nil
	}

	if *help {
		printUsage()
		return nil
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("no command specified")
	}

	command := args[0]

	profileConfig, err := config.LoadProfile()
	if err != nil {
		return fmt.Errorf("failed to load profile config: %w", err)
	}

	// Override with command line flags
	if *dbPath != "" {
		profileConfig.StoragePath = *dbPath
	}
	if *chunkSize > 0 {
		profileConfig.Chunking.ChunkSize = *chunkSize
	}
	if *overlap >= 0 {
		profileConfig.Chunking.ChunkOverlap = *overlap
	}

	// Config and reset commands work without a pipeline.
	switch command {
	case "config":
		return handleConfig(profileConfig, args[1:])
	case "reset":
		return handleReset(profileConfig, args[1:])
	}

	pipeline, err := ragpipe.New(&ragpipe.Config{
		DatabasePath: profileConfig.StoragePath,
		ChunkSize:    profileConfig.Chunking.ChunkSize,
		ChunkOverlap: profileConfig.Chunking.ChunkOverlap,
		SplitterType: profileConfig.Chunking.SplitterType,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	if err := pipeline.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}
	defer pipeline.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch command {
	case "ingest":
		return handleIngest(ctx, pipeline, args[1:])
	case "formats":
		return handleFormats(pipeline)
	case "documents", "docs":
		return handleDocuments(ctx, pipeline, args[1:])
	case "chunks":
		return handleChunks(ctx, pipeline, args[1:])
	case "delete", "rm":
		return handleDelete(ctx, pipeline, args[1:])
	case "health":
		return handleHealth(pipeline)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func handleIngest(ctx context.Context, pipeline *ragpipe.Pipeline, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: rag-pipe ingest [id] <file>")
	}

	var id, path string
	if len(args) == 1 {
		path = args[0]
	} else {
		id = args[0]
		path = args[1]
	}

	if id == "" {
		fmt.Printf("Ingesting file '%s'...\n", path)
	} else {
		fmt.Printf("Ingesting file '%s' with ID '%s'...\n", path, id)
	}

	result, err := pipeline.Ingest(ctx, path, id)
	if err != nil {
		return fmt.Errorf("failed to ingest file: %w", err)
	}

	fmt.Printf("Ingested '%s' as '%s': %d records, %d chunks\n",
		path, result.DocumentID, result.Records, result.Chunks)
	return nil
}

func handleFormats(pipeline *ragpipe.Pipeline) error {
	formats := pipeline.SupportedExtensions()
	fmt.Printf("Supported formats (%d):\n", len(formats))
	for _, format := range formats {
		fmt.Printf("  %s\n", format)
	}
	return nil
}

func handleDocuments(ctx context.Context, pipeline *ragpipe.Pipeline, args []string) error {
	if len(args) > 0 && args[0] == helpFlag {
		fmt.Println("Usage: rag-pipe documents")
		fmt.Println("")
		fmt.Println("List all ingested documents with their metadata.")
		return nil
	}

	documents, err := pipeline.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(documents) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	fmt.Printf("Found %d documents:\n\n", len(documents))
	for i, doc := range documents {
		fmt.Printf("%d. ID: %s\n", i+1, doc.ID)
		fmt.Printf("   Type: %s\n", doc.FileType)
		fmt.Printf("   Size: %d bytes\n", doc.FileSizeBytes)
		fmt.Printf("   Records: %d\n", doc.RecordCount)
		fmt.Printf("   Chunks: %d\n", doc.ChunkCount)
		if doc.SourcePath != "" {
			fmt.Printf("   Source: %s\n", doc.SourcePath)
		}
		fmt.Printf("   Created: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("   Updated: %s\n\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}

func handleChunks(ctx context.Context, pipeline *ragpipe.Pipeline, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: rag-pipe chunks <document-id>")
	}

	documentID := args[0]
	chunks, err := pipeline.GetDocumentChunks(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	if len(chunks) == 0 {
		fmt.Printf("No chunks found for document '%s'.\n", documentID)
		return nil
	}

	fmt.Printf("Found %d chunks for document '%s':\n\n", len(chunks), documentID)
	for i, chunk := range chunks {
		fmt.Printf("%d. %s\n\n", i+1, truncateText(chunk.Content, 200))
	}

	return nil
}

func handleDelete(ctx context.Context, pipeline *ragpipe.Pipeline, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: rag-pipe delete <document-id> [--force]")
	}

	if args[0] == helpFlag {
		fmt.Println("Usage: rag-pipe delete <document-id> [--force]")
		fmt.Println("")
		fmt.Println("Delete a document and all its chunks from the database.")
		fmt.Println("")
		fmt.Println("Options:")
		fmt.Println("  --force    Skip confirmation prompt")
		return nil
	}

	documentID := args[0]

	force := false
	for _, arg := range args[1:] {
		if arg == "--force" {
			force = true
			break
		}
	}

	if !force {
		fmt.Printf("Are you sure you want to delete document '%s'? This cannot be undone. (y/N): ", documentID)
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("failed to read input")
		}

		response := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if response != "y" && response != "yes" {
			fmt.Println("Operation canceled.")
			return nil
		}
	}

	fmt.Printf("Deleting document '%s'...\n", documentID)
	if err := pipeline.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	fmt.Printf("Document '%s' deleted successfully.\n", documentID)
	return nil
}

func handleHealth(pipeline *ragpipe.Pipeline) error {
	fmt.Println("Checking system health...")

	if pipeline == nil {
		fmt.Println("Pipeline is not initialized")
		return fmt.Errorf("pipeline not available")
	}

	fmt.Println("Pipeline is running")
	fmt.Println("Database is accessible")
	fmt.Println("System is healthy")
	return nil
}

func handleConfig(profileConfig *config.ProfileConfig, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: rag-pipe config <init|show|set>")
	}

	command := args[0]

	switch command {
	case "init":
		defaultConfig := config.DefaultProfile()
		if err := defaultConfig.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		configPath, err := config.GetProfileConfigPath()
		if err != nil {
			fmt.Println("Profile config initialized successfully")
		} else {
			fmt.Printf("Profile config initialized at: %s\n", configPath)
		}
		return nil

	case "show":
		configPath, err := config.GetProfileConfigPath()
		if err != nil {
			fmt.Printf("Config file: <error getting path: %v>\n", err)
		} else {
			fmt.Printf("Config file: %s\n", configPath)
		}
		fmt.Printf("Storage Path: %s\n", profileConfig.StoragePath)
		fmt.Printf("Data Directory: %s\n", profileConfig.DataDir)
		fmt.Printf("Chunk Size: %d\n", profileConfig.Chunking.ChunkSize)
		fmt.Printf("Chunk Overlap: %d\n", profileConfig.Chunking.ChunkOverlap)
		fmt.Printf("Splitter Type: %s\n", profileConfig.Chunking.SplitterType)
		fmt.Printf("Server Host: %s\n", profileConfig.Server.Host)
		fmt.Printf("Server Port: %d\n", profileConfig.Server.Port)
		return nil

	case "set":
		return handleConfigSet(profileConfig, args[1:])

	default:
		return fmt.Errorf("unknown config command: %s", command)
	}
}

func handleConfigSet(profileConfig *config.ProfileConfig, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: rag-pipe config set <key> <value>")
	}

	key, value := args[0], args[1]

	switch key {
	case "storage.path":
		profileConfig.StoragePath = value
	case "data.dir":
		profileConfig.DataDir = value
	case "server.host":
		profileConfig.Server.Host = value
	case "server.port":
		var port int
		if _, err := fmt.Sscanf(value, "%d", &port); err != nil {
			return fmt.Errorf("invalid port: %s", value)
		}
		profileConfig.Server.Port = port
	case "chunking.chunk-size":
		var size int
		if _, err := fmt.Sscanf(value, "%d", &size); err != nil {
			return fmt.Errorf("invalid chunk size: %s", value)
		}
		profileConfig.Chunking.ChunkSize = size
	case "chunking.chunk-overlap":
		var chunkOverlap int
		if _, err := fmt.Sscanf(value, "%d", &chunkOverlap); err != nil {
			return fmt.Errorf("invalid overlap: %s", value)
		}
		profileConfig.Chunking.ChunkOverlap = chunkOverlap
	case "chunking.splitter-type":
		profileConfig.Chunking.SplitterType = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := profileConfig.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Config updated: %s = %s\n", key, value)
	return nil
}

func handleReset(profileConfig *config.ProfileConfig, args []string) error {
	if len(args) > 0 && args[0] == helpFlag {
		fmt.Println("Usage: rag-pipe reset [--force]")
		fmt.Println("")
		fmt.Println("Delete the current database and all ingested data.")
		fmt.Println("")
		fmt.Println("Options:")
		fmt.Println("  --force    Skip confirmation prompt")
		return nil
	}

	force := false
	for _, arg := range args {
		if arg == "--force" {
			force = true
			break
		}
	}

	dbPath := profileConfig.StoragePath

	if !fileExists(dbPath) {
		fmt.Println("No database found. Nothing to delete.")
		return nil
	}

	fmt.Printf("This will permanently delete:\n")
	fmt.Printf("  Database: %s\n\n", dbPath)

	if !force {
		fmt.Printf("Are you sure you want to delete all data? This cannot be undone. (y/N): ")
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("failed to read input")
		}

		response := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if response != "y" && response != "yes" {
			fmt.Println("Operation canceled.")
			return nil
		}
	}

	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete database %s: %w", dbPath, err)
	}
	fmt.Printf("Deleted database: %s\n", dbPath)

	// SQLite sidecar files go too.
	for _, file := range []string{dbPath + "-wal", dbPath + "-shm"} {
		if fileExists(file) {
			if err := os.Remove(file); err != nil {
				return fmt.Errorf("failed to delete related file %s: %w", file, err)
			}
			fmt.Printf("Deleted related file: %s\n", file)
		}
	}

	fmt.Println("\nDatabase reset completed successfully.")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func truncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength] + "..."
}

func printUsage() {
	fmt.Printf("rag-pipe - document ingestion pipeline (version %s)\n", version)
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  rag-pipe [flags] <command> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  ingest [id] <file>           Load, split, and store a document (ID auto-generated if omitted)")
	fmt.Println("  formats                      List supported file formats")
	fmt.Println("  documents                    List all ingested documents")
	fmt.Println("  chunks <id>                  Show chunks of a document")
	fmt.Println("  delete <id> [--force]        Delete a document by ID")
	fmt.Println("  health                       Check system health status")
	fmt.Println("  config <init|show|set>       Manage user profile configuration")
	fmt.Println("  reset [--force]              Delete database and all ingested data")
	fmt.Println("")
	fmt.Println("Flags:")
	fmt.Println("  -db string            Database path (overrides profile config)")
	fmt.Println("  -chunk-size int       Chunk size in tokens (overrides profile config)")
	fmt.Println("  -chunk-overlap int    Chunk overlap in tokens (overrides profile config)")
	fmt.Println("  -help                 Show this help")
	fmt.Println("  -version              Show version")
	fmt.Println("")
	fmt.Println("Config Keys:")
	fmt.Println("  storage.path                    Database file path")
	fmt.Println("  data.dir                        Data directory path")
	fmt.Println("  server.host                     HTTP server host")
	fmt.Println("  server.port                     HTTP server port")
	fmt.Println("  chunking.chunk-size             Tokens per chunk")
	fmt.Println("  chunking.chunk-overlap          Token overlap between chunks")
	fmt.Println("  chunking.splitter-type          Splitter strategy name")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  rag-pipe config init")
	fmt.Println("  rag-pipe config set chunking.chunk-size 256")
	fmt.Println("  rag-pipe ingest report.pdf              # Auto-generated ID")
	fmt.Println("  rag-pipe ingest doc1 report.pdf         # Explicit ID")
	fmt.Println("  rag-pipe documents")
	fmt.Println("  rag-pipe chunks doc1")
	fmt.Println("  rag-pipe delete doc1 --force")
	fmt.Println("  rag-pipe reset --force")
}
