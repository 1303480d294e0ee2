package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/wiigelec/skw/book"
	"github.com/wiigelec/skw/bookrepo"
	"github.com/wiigelec/skw/executer"
	"github.com/wiigelec/skw/logging"
	"github.com/wiigelec/skw/scripter"
)

// loadAliases reads a profile's alias file, a flat "alias: canonical" YAML
// mapping; a blank path or a missing file is not an error (aliasing is
// optional).
func loadAliases(path string) (scripter.AliasTable, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading alias file %s: %w", path, err)
	}
	var table scripter.AliasTable
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil {
		return nil, fmt.Errorf("parsing alias file %s: %w", path, err)
	}
	return table, nil
}

// mergedRecords combines the Book Parser's output with a profile's custom
// table into the single record set the Scripter/Resolver operate over
// (§4.1's "custom package injection").
func mergedRecords(res *book.Result, custom map[string]*book.Record) []*book.Record {
	out := append([]*book.Record(nil), res.Ordered...)
	for _, rec := range custom {
		out = append(out, rec)
	}
	return out
}

func newListSectionsCmd(profilesDir *string) *cobra.Command {
	var bookName, profileName string
	cmd := &cobra.Command{
		Use:   "list-sections",
		Short: "List the sections a book/profile combination resolves to",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(*profilesDir, bookName, profileName)
			if err != nil {
				return err
			}
			bookCfg, err := bookrepo.Load(*profilesDir, bookName)
			if err != nil {
				return err
			}
			res, err := parseBookRecords(*profilesDir, profile.Paths.BuildDir, bookName, bookCfg.OutputFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sections in book %q profile %q:\n", bookName, profileName)
			for _, rec := range res.Ordered {
				pkg := rec.Name
				if pkg == "" {
					pkg = "(no package)"
				}
				fmt.Fprintf(out, "  %s/%s -> %s\n", rec.ChapterID, rec.SectionID, pkg)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bookName, "book", "", "book name")
	cmd.Flags().StringVar(&profileName, "profile", "", "profile name")
	cmd.MarkFlagRequired("book")
	cmd.MarkFlagRequired("profile")
	return cmd
}

func newParseCmd(profilesDir *string) *cobra.Command {
	var bookName, profileName string
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a book's XML into YAML package records",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(*profilesDir, bookName, profileName)
			if err != nil {
				return err
			}
			bookCfg, err := bookrepo.Load(*profilesDir, bookName)
			if err != nil {
				return err
			}
			res, err := parseBookRecords(*profilesDir, profile.Paths.BuildDir, bookName, bookCfg.OutputFile)
			if err != nil {
				return err
			}
			dir := buildMetadataDir(profile.Paths.BuildDir, bookName)
			if err := persistRecords(dir, res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Parsed %d records into %s\n", len(res.Ordered), dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&bookName, "book", "", "book name")
	cmd.Flags().StringVar(&profileName, "profile", "", "profile name (resolves build_dir)")
	cmd.MarkFlagRequired("book")
	cmd.MarkFlagRequired("profile")
	return cmd
}

func newScriptCmd(profilesDir *string) *cobra.Command {
	var bookName, profileName string
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Generate build scripts for a book/profile in build order",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(*profilesDir, bookName, profileName)
			if err != nil {
				return err
			}
			bookCfg, err := bookrepo.Load(*profilesDir, bookName)
			if err != nil {
				return err
			}
			res, err := parseBookRecords(*profilesDir, profile.Paths.BuildDir, bookName, bookCfg.OutputFile)
			if err != nil {
				return err
			}
			aliases, err := loadAliases(profile.Scripter.AliasFile)
			if err != nil {
				return err
			}
			records := mergedRecords(res, profile.CustomRecords())

			templatesDir := templatesDirFor(*profilesDir, bookName, profileName)
			scripts, warnings, err := scripter.Generate(&profile.Scripter, templatesDir, profile.Executer.ScriptsDir, records, aliases, profile.DepClasses)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "WARN:", w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d scripts\n", len(scripts))
			return nil
		},
	}
	cmd.Flags().StringVar(&bookName, "book", "", "book name")
	cmd.Flags().StringVar(&profileName, "profile", "", "profile name")
	cmd.MarkFlagRequired("book")
	cmd.MarkFlagRequired("profile")
	return cmd
}

func newExecuteCmd(profilesDir *string) *cobra.Command {
	var bookName, profileName string
	var yes bool
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Run every generated script for a book/profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(*profilesDir, bookName, profileName)
			if err != nil {
				return err
			}
			bookCfg, err := bookrepo.Load(*profilesDir, bookName)
			if err != nil {
				return err
			}
			res, err := parseBookRecords(*profilesDir, profile.Paths.BuildDir, bookName, bookCfg.OutputFile)
			if err != nil {
				return err
			}
			custom := profile.CustomRecords()
			records := mergedRecords(res, custom)

			profile.Executer.AutoConfirm = yes
			log := logging.New(cmd.ErrOrStderr(), bookName, profileName)

			e := executer.New(&profile.Executer, records, custom)
			e.Log = log
			if err := e.RunAll(context.Background()); err != nil {
				return logging.Fatal(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bookName, "book", "", "book name")
	cmd.Flags().StringVar(&profileName, "profile", "", "profile name")
	cmd.Flags().BoolVar(&yes, "yes", false, "auto-confirm dangerous actions (e.g. installing into /)")
	cmd.MarkFlagRequired("book")
	cmd.MarkFlagRequired("profile")
	return cmd
}
