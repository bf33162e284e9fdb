package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/seralba/dropvault/internal/logger"
	"github.com/seralba/dropvault/pkg/config"
	"github.com/seralba/dropvault/pkg/upload"
	"github.com/seralba/dropvault/pkg/vault"
)

// seedDemoContent builds a small folder tree and runs one simulated upload
// batch so a fresh vault has something to show.
func seedDemoContent(ctx context.Context, v *vault.Vault, linkBase string) error {
	docs, err := v.CreateFolder(ctx, "Documents", vault.RootFolderID)
	if err != nil && !vault.IsCode(err, vault.ErrDuplicateName) {
		return fmt.Errorf("failed to create Documents: %w", err)
	}
	if _, err := v.CreateFolder(ctx, "Photos", vault.RootFolderID); err != nil &&
		!vault.IsCode(err, vault.ErrDuplicateName) {
		return fmt.Errorf("failed to create Photos: %w", err)
	}

	if docs == nil {
		// Documents already existed; find it among the root's children.
		for _, f := range v.FoldersIn(vault.RootFolderID) {
			if f.Name == "Documents" {
				cp := f
				docs = &cp
				break
			}
		}
	}
	if docs == nil {
		return fmt.Errorf("Documents folder not found")
	}
	if err := v.NavigateTo(ctx, docs.ID); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}

	count := v.EnqueueUploads([]upload.RawFile{
		{Name: "quarterly-report.pdf", Size: 2_457_600, Type: "application/pdf"},
		{Name: "team-photo.jpg", Size: 819_200, Type: "image/jpeg"},
		{Name: "notes.txt", Size: 4_096, Type: "text/plain"},
	})
	logger.Info("Queued %d demo uploads", count)

	if err := v.StartUploads(); err != nil {
		return fmt.Errorf("failed to start uploads: %w", err)
	}

	// The pipeline ticks on its own timer; wait for the batch to land.
	deadline := time.Now().Add(30 * time.Second)
	for v.UploadsRunning() {
		if time.Now().After(deadline) {
			return fmt.Errorf("demo upload did not complete in time")
		}
		time.Sleep(50 * time.Millisecond)
	}

	files := v.FilesIn(docs.ID)
	if len(files) > 0 {
		rec, err := v.ShareItem(ctx, vault.ItemTypeFile, files[0].ID, vault.ShareSettings{
			Access:     vault.AccessView,
			Expiration: vault.Expire7Days,
		})
		if err != nil {
			return fmt.Errorf("failed to share demo file: %w", err)
		}
		logger.Info("Shared %q: %s", files[0].Name, rec.Link(linkBase))
	}

	return nil
}

// printTree renders the folder hierarchy with file sizes.
func printTree(v *vault.Vault, folderID string, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range v.FoldersIn(folderID) {
		marker := ""
		if f.Shared {
			marker = " (shared)"
		}
		fmt.Printf("%s%s/%s\n", indent, f.Name, marker)
		printTree(v, f.ID, depth+1)
	}
	for _, file := range v.FilesIn(folderID) {
		marker := ""
		if file.Shared {
			marker = " (shared)"
		}
		fmt.Printf("%s%s  %s%s\n", indent, file.Name, vault.FormatSize(file.Size), marker)
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	logLevel := flag.String("log-level", "", "Log level override (DEBUG, INFO, WARN, ERROR)")
	demo := flag.Bool("demo", false, "Seed demo folders and run a simulated upload batch")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *logLevel != "" {
		cfg.Logging.Level = strings.ToUpper(*logLevel)
	}
	logger.SetLevel(cfg.Logging.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Println("DropVault - Secure File Storage & Sharing")
	logger.Info("Log level set to: %s", cfg.Logging.Level)
	logger.Info("Storage backend: %s", cfg.Storage.Type)

	st, err := config.CreateStore(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}

	v, err := vault.Open(ctx, st, vault.Options{
		RootName: cfg.Vault.RootName,
		Upload: upload.Config{
			Interval:     cfg.Upload.TickInterval,
			MinIncrement: cfg.Upload.MinIncrement,
			MaxIncrement: cfg.Upload.MaxIncrement,
		},
	})
	if err != nil {
		log.Fatalf("Failed to open vault: %v", err)
	}

	// Flush on interrupt as well as normal exit.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	if *demo {
		if err := seedDemoContent(ctx, v, cfg.Vault.ShareLinkBase); err != nil {
			logger.Error("Demo seeding failed: %v", err)
		}
	}

	fmt.Printf("\n%s/\n", cfg.Vault.RootName)
	printTree(v, vault.RootFolderID, 1)

	fmt.Printf("\nFolders: %d  Files: %d  Shares: %d\n",
		len(v.Folders()), len(v.Files()), len(v.Shares()))

	if err := v.Close(); err != nil {
		logger.Error("Failed to close vault: %v", err)
		os.Exit(1)
	}
	logger.Info("Vault closed")
}
