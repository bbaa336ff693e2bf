// Package cli implements the command line entry points that run outside
// the HTTP server.
package cli

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkawano/hondana/internal/config"
	"github.com/mkawano/hondana/internal/entities"
	"github.com/mkawano/hondana/internal/library"
	"github.com/mkawano/hondana/internal/utils"
)

// ImportBooksCommand scans a directory for book files and adds them to
// the library.
type ImportBooksCommand struct {
	Dir         string
	LibraryPath string
	Recursive   bool
	Verbose     bool
	DryRun      bool
}

func NewImportBooksCommand() *ImportBooksCommand {
	return &ImportBooksCommand{}
}

func (cmd *ImportBooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-books", flag.ExitOnError)

	fs.StringVar(&cmd.Dir, "dir", "", "Directory to scan for .epub and .pdf files (required)")
	fs.StringVar(&cmd.LibraryPath, "library", config.DefaultLibraryPath, "Path to the library JSON file")
	fs.BoolVar(&cmd.Recursive, "recursive", true, "Scan subdirectories as well")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-books -dir <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Scan a directory for e-book files and add them to the library.\n\n")
		fmt.Fprintf(os.Stderr, "Files already present in the library (same path) are skipped.\n")
		fmt.Fprintf(os.Stderr, "Filenames like \"Title - Author.epub\" contribute the author name.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-books -dir ~/Books\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-books -dir ~/Downloads -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Dir == "" {
		return fmt.Errorf("required flag -dir not provided")
	}

	return nil
}

func (cmd *ImportBooksCommand) Run() error {
	fmt.Println("Book Import")
	fmt.Println("===========")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	absDir, err := filepath.Abs(cmd.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory: %w", err)
	}
	if info, err := os.Stat(absDir); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", absDir)
	}

	fmt.Printf("Scanning: %s\n", absDir)

	files, err := cmd.collectBookFiles(absDir)
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No book files found")
		return nil
	}

	fmt.Printf("Found %d book files\n", len(files))

	store := library.NewStore(cmd.LibraryPath)
	manager := library.NewManager(store)
	if err := manager.Load(); err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	var imported, skipped int
	var importErrors []string

	for _, path := range files {
		if _, exists := manager.GetBookByPath(path); exists {
			skipped++
			if cmd.Verbose {
				fmt.Printf("  [SKIP] already in library: %s\n", path)
			}
			continue
		}

		fileName := filepath.Base(path)
		title := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		author := utils.ExtractAuthorFromFilename(fileName, firstSegment(title))
		if author != "" {
			title = firstSegment(title)
		}

		if cmd.DryRun {
			imported++
			if cmd.Verbose {
				fmt.Printf("  [DRY] would add \"%s\" (%s)\n", title, path)
			}
			continue
		}

		input := library.AddBookInput{
			FilePath: path,
			FileName: fileName,
			Type:     entities.BookType(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")),
			Title:    title,
		}
		if author != "" {
			input.Authors = []string{author}
		}

		book, err := manager.AddBook(input)
		if err != nil {
			errMsg := fmt.Sprintf("Failed to add %q: %v", path, err)
			importErrors = append(importErrors, errMsg)
			if cmd.Verbose {
				fmt.Printf("  [ERROR] %s\n", errMsg)
			}
			continue
		}

		imported++
		if cmd.Verbose {
			fmt.Printf("  [OK] \"%s\" by %s\n", book.Title, book.Author)
		}
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Imported: %d\n", imported)
	fmt.Printf("Skipped (already present): %d\n", skipped)

	if len(importErrors) > 0 {
		fmt.Printf("\n%d errors occurred:\n", len(importErrors))
		for _, errMsg := range importErrors {
			fmt.Printf("  [ERROR] %s\n", errMsg)
		}
	}

	if cmd.DryRun {
		fmt.Println("\nDry run complete. Use without -dry-run to import.")
	} else {
		fmt.Println("\nImport complete!")
	}
	return nil
}

// collectBookFiles returns absolute paths of known book files under dir.
func (cmd *ImportBooksCommand) collectBookFiles(dir string) ([]string, error) {
	var files []string

	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !cmd.Recursive && path != dir {
				return fs.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, known := range utils.KnownBookExtensions {
			if ext == known {
				files = append(files, path)
				break
			}
		}
		return nil
	}

	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, err
	}
	return files, nil
}

// firstSegment returns the part of a "Title - Author" filename before the
// separator, or the whole string when there is none.
func firstSegment(name string) string {
	if idx := strings.Index(name, " - "); idx > 0 {
		return name[:idx]
	}
	return name
}
