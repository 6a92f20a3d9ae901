// packtool is a CLI utility for froggi asset pack archives.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mechanicchickendev/froggi/pkg/pack"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "list", "ls":
		cmdList(args)
	case "extract", "x":
		cmdExtract(args)
	case "create", "c":
		cmdCreate(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`packtool - froggi asset pack utility

Usage:
  packtool <command> [options]

Commands:
  info <file.fpak>                     Show archive information
  list <file.fpak> [pattern]           List files (optional glob pattern)
  extract <file.fpak> <path> [output]  Extract file(s) to directory
  create <file.fpak> <dir>             Pack a directory tree

Examples:
  packtool info assets.fpak
  packtool list assets.fpak "*.obj"
  packtool extract assets.fpak "models/*" ./out
  packtool create assets.fpak ./assets`)
}

func openArchive(path string) *pack.Archive {
	archive, err := pack.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return archive
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: packtool info <file.fpak>")
		os.Exit(1)
	}

	archive := openArchive(args[0])
	defer archive.Close()

	files := archive.List()
	extCount := make(map[string]int)
	var rawSize, packedSize uint64
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f))
		if ext == "" {
			ext = "(no ext)"
		}
		extCount[ext]++
		if e, ok := archive.Stat(f); ok {
			rawSize += uint64(e.RawSize)
			packedSize += uint64(e.CompressedSize)
		}
	}

	fmt.Printf("Archive: %s\n", args[0])
	fmt.Printf("Files:   %d\n", len(files))
	fmt.Printf("Raw:     %.2f MB\n", float64(rawSize)/(1024*1024))
	fmt.Printf("Packed:  %.2f MB\n", float64(packedSize)/(1024*1024))
	fmt.Println()
	fmt.Println("Files by type:")

	type extStat struct {
		ext   string
		count int
	}
	var stats []extStat
	for ext, count := range extCount {
		stats = append(stats, extStat{ext, count})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].count > stats[j].count
	})
	for _, s := range stats {
		fmt.Printf("  %-10s %d\n", s.ext, s.count)
	}
}

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N files (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: packtool list <file.fpak> [pattern]")
		os.Exit(1)
	}

	archive := openArchive(fs.Arg(0))
	defer archive.Close()

	pattern := ""
	if fs.NArg() > 1 {
		pattern = strings.ToLower(fs.Arg(1))
	}

	count := 0
	for _, f := range archive.List() {
		if pattern != "" {
			matched, _ := filepath.Match(pattern, strings.ToLower(filepath.Base(f)))
			if !matched && !strings.Contains(strings.ToLower(f), pattern) {
				continue
			}
		}
		fmt.Println(f)
		count++
		if *limit > 0 && count >= *limit {
			break
		}
	}

	if pattern != "" {
		fmt.Fprintf(os.Stderr, "\n(%d files matched)\n", count)
	}
}

func cmdExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: packtool extract <file.fpak> <path> [output_dir]")
		os.Exit(1)
	}

	filePath := fs.Arg(1)
	outputDir := "."
	if fs.NArg() > 2 {
		outputDir = fs.Arg(2)
	}

	archive := openArchive(fs.Arg(0))
	defer archive.Close()

	if strings.Contains(filePath, "*") {
		extractPattern(archive, filePath, outputDir)
		return
	}

	if !archive.Contains(filePath) {
		fmt.Fprintf(os.Stderr, "File not found: %s\n", filePath)
		os.Exit(1)
	}
	data, err := archive.Read(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join(outputDir, filepath.Base(filePath))
	if err := writeOut(outputPath, data); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Extracted: %s (%d bytes)\n", outputPath, len(data))
}

func extractPattern(archive *pack.Archive, pattern, outputDir string) {
	pattern = strings.ToLower(pattern)

	extracted := 0
	for _, f := range archive.List() {
		matchedBase, _ := filepath.Match(pattern, strings.ToLower(filepath.Base(f)))
		matchedPath, _ := filepath.Match(pattern, strings.ToLower(f))
		if !matchedBase && !matchedPath {
			continue
		}

		data, err := archive.Read(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", f, err)
			continue
		}
		outputPath := filepath.Join(outputDir, filepath.FromSlash(f))
		if err := writeOut(outputPath, data); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
			continue
		}
		fmt.Printf("Extracted: %s\n", outputPath)
		extracted++
	}

	fmt.Fprintf(os.Stderr, "\nExtracted %d files\n", extracted)
}

func writeOut(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func cmdCreate(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: packtool create <file.fpak> <dir>")
		os.Exit(1)
	}
	outPath := args[0]
	root := args[1]

	w, err := pack.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	added := 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if err := w.AddFile(name, path); err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
		fmt.Printf("Added: %s\n", name)
		added++
		return nil
	})
	if walkErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", walkErr)
		w.Close()
		os.Remove(outPath)
		os.Exit(1)
	}

	if err := w.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error finishing pack: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\nPacked %d files into %s\n", added, outPath)
}
