package bookrepo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Config is the decoded shape of a book's "book.yaml" under its profile
// directory: where to clone it from, which revision to build, and how to
// turn the checkout into the XML the Book Parser consumes.
type Config struct {
	RepoPath    string `yaml:"repo_path"`
	Version     string `yaml:"version"`
	Rev         string `yaml:"rev"`
	MakeCommand string `yaml:"make_command"`
	OutputFile  string `yaml:"output_file"`
}

// Load reads and decodes "<profilesDir>/<book>/book.yaml".
func Load(profilesDir, book string) (*Config, error) {
	path := filepath.Join(profilesDir, book, "book.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("book.yaml not found for %s (did you run add-book?): %w", book, err)
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Install clones (or pulls) book's repo into "<buildDir>/books/<book>/src",
// checks out its configured version, and runs its make command to produce
// the book's output XML, streaming all subprocess output to out.
func Install(ctx context.Context, buildDir, profilesDir, book string, out io.Writer) error {
	cfg, err := Load(profilesDir, book)
	if err != nil {
		return err
	}

	repoDir := filepath.Join(buildDir, "books", book, "src")
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		return fmt.Errorf("creating repo directory: %w", err)
	}

	empty, err := dirEmpty(repoDir)
	if err != nil {
		return fmt.Errorf("checking repo directory: %w", err)
	}
	if empty {
		fmt.Fprintf(out, "Cloning %s into %s\n", cfg.RepoPath, repoDir)
		if err := run(ctx, out, repoDir, nil, "git", "clone", cfg.RepoPath, repoDir); err != nil {
			return fmt.Errorf("cloning book repo: %w", err)
		}
	} else {
		fmt.Fprintln(out, "Book repo already exists, pulling latest changes...")
		if err := run(ctx, out, repoDir, nil, "git", "pull"); err != nil {
			return fmt.Errorf("pulling book repo: %w", err)
		}
	}

	if err := run(ctx, out, repoDir, nil, "git", "checkout", cfg.Version); err != nil {
		return fmt.Errorf("checking out %s: %w", cfg.Version, err)
	}

	bookDir := filepath.Join(buildDir, "books", book)
	env := append(os.Environ(),
		"book_dir="+bookDir,
		"rev="+cfg.Rev,
	)
	expanded := strings.NewReplacer("${book_dir}", bookDir, "${rev}", cfg.Rev).Replace(cfg.MakeCommand)

	fmt.Fprintf(out, "Running make command: %s\n", expanded)
	if err := run(ctx, out, repoDir, env, "sh", "-c", expanded); err != nil {
		return fmt.Errorf("running make command: %w", err)
	}

	xmlDst := filepath.Join(bookDir, cfg.OutputFile)
	if _, err := os.Stat(xmlDst); err != nil {
		return fmt.Errorf("XML book generation failed, expected output at %s: %w", xmlDst, err)
	}
	fmt.Fprintf(out, "Installed book %s. XML available at %s\n", book, xmlDst)
	return nil
}

func dirEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

func run(ctx context.Context, out io.Writer, dir string, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if env != nil {
		cmd.Env = env
	}
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}
