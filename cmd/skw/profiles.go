package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wiigelec/skw/config"
)

// loadProfile loads and expands the profile config for (book, profile).
func loadProfile(profilesDir, book, profile string) (*config.Profile, error) {
	p, err := config.Load(profileConfigPath(profilesDir, book, profile), profile)
	if err != nil {
		return nil, err
	}
	if p.Book == "" {
		p.Book = book
	}
	return p, nil
}

func newListProfilesCmd(profilesDir *string) *cobra.Command {
	var book string
	cmd := &cobra.Command{
		Use:   "list-profiles",
		Short: "List the profiles declared under a book",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := bookDir(*profilesDir, book)
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("book %q not found: %w", book, err)
			}
			for _, e := range entries {
				if e.IsDir() {
					fmt.Fprintln(cmd.OutOrStdout(), e.Name())
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&book, "book", "", "book name")
	cmd.MarkFlagRequired("book")
	return cmd
}

func newAddProfileCmd(profilesDir *string) *cobra.Command {
	var book, name string
	cmd := &cobra.Command{
		Use:   "add-profile",
		Short: "Scaffold a new profile directory with a profile.yaml to edit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(bookDir(*profilesDir, book)); err != nil {
				return fmt.Errorf("book %q does not exist, run add-book first: %w", book, err)
			}
			dir := profileDir(*profilesDir, book, name)
			if _, err := os.Stat(dir); err == nil {
				return fmt.Errorf("profile %q already exists under %s", name, book)
			}
			if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
				return fmt.Errorf("creating profile directory: %w", err)
			}
			content := fmt.Sprintf(profileYAMLTemplate, book)
			if err := os.WriteFile(profileConfigPath(*profilesDir, book, name), []byte(content), 0o644); err != nil {
				return fmt.Errorf("writing profile.yaml: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile %s created at %s. Edit its profile.yaml and templates/ before scripting.\n", name, dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&book, "book", "", "book name")
	cmd.Flags().StringVar(&name, "name", "", "profile name")
	cmd.MarkFlagRequired("book")
	cmd.MarkFlagRequired("name")
	return cmd
}
