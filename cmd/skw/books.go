package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wiigelec/skw/bookrepo"
)

func newListBooksCmd(profilesDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list-books",
		Short: "List the books known under the profiles directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := os.ReadDir(*profilesDir)
			if err != nil {
				return fmt.Errorf("reading profiles directory: %w", err)
			}
			for _, e := range entries {
				if e.IsDir() {
					fmt.Fprintln(cmd.OutOrStdout(), e.Name())
				}
			}
			return nil
		},
	}
}

func newAddBookCmd(profilesDir *string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "Scaffold a new book directory with a book.yaml to edit",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := bookDir(*profilesDir, name)
			if _, err := os.Stat(dir); err == nil {
				return fmt.Errorf("book %q already exists at %s", name, dir)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating book directory: %w", err)
			}
			path := filepath.Join(dir, "book.yaml")
			if err := os.WriteFile(path, []byte(bookYAMLTemplate), 0o644); err != nil {
				return fmt.Errorf("writing book.yaml: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book %s created at %s. Edit %s before running install-book.\n", name, dir, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "book name")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newInstallBookCmd(profilesDir *string) *cobra.Command {
	var book string
	cmd := &cobra.Command{
		Use:   "install-book",
		Short: "Clone (or pull) a book's source repo and run its make command",
		RunE: func(cmd *cobra.Command, args []string) error {
			buildDir, err := defaultBuildDir(*profilesDir, book)
			if err != nil {
				return err
			}
			return bookrepo.Install(context.Background(), buildDir, *profilesDir, book, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&book, "book", "", "book name")
	cmd.MarkFlagRequired("book")
	return cmd
}

// defaultBuildDir picks a build_dir for install-book. The book's own
// book.yaml is silent on build_dir (that lives in each profile's paths{}
// table) and install-book has no --profile, so the first profile of the
// book that declares a build_dir wins; otherwise it falls back to
// "<profiles_dir>/../build".
func defaultBuildDir(profilesDir, book string) (string, error) {
	entries, err := os.ReadDir(bookDir(profilesDir, book))
	if err != nil {
		return "", fmt.Errorf("book %q not found under %s (did you run add-book?): %w", book, profilesDir, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p, err := loadProfile(profilesDir, book, e.Name())
		if err != nil {
			continue
		}
		if p.Paths.BuildDir != "" {
			return p.Paths.BuildDir, nil
		}
	}
	return filepath.Join(filepath.Dir(filepath.Clean(profilesDir)), "build"), nil
}
