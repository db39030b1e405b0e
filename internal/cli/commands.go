package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scopedocs/internal/model"
	"scopedocs/internal/service"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the document store schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()
			return newPrinter(rootOpts, cmd.OutOrStdout()).message("schema is up to date")
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var sf *scopeFlags
	cmd := &cobra.Command{
		Use:   "list <namespace>",
		Short: "List documents filed under a scope",
		Example: `  docctl list faculty --cycle 3 --faculty jdoe
  docctl list section --cycle 3 --appendix C --section "Course Syllabi"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(rootOpts, cmd.OutOrStdout())
			sc, err := sf.scope(args[0])
			if err != nil {
				return p.fail(err)
			}
			s, err := openSession(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			docs, err := s.catalog.ListDocuments(cmd.Context(), sc)
			if err != nil {
				return p.fail(err)
			}
			return p.documents(docs)
		},
	}
	sf = addScopeFlags(cmd)
	return cmd
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var sf *scopeFlags
	cmd := &cobra.Command{
		Use:   "add <namespace> <file>...",
		Short: "Add files to a scope, skipping ones already stored",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(rootOpts, cmd.OutOrStdout())
			sc, err := sf.scope(args[0])
			if err != nil {
				return p.fail(err)
			}
			files, err := readLocalFiles(args[1:])
			if err != nil {
				return WrapExitError(ExitCommandError, "cannot read input files", err)
			}
			s, err := openSession(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			docs, err := s.catalog.AddFiles(cmd.Context(), sc, files)
			if err != nil {
				return p.fail(err)
			}
			return p.documents(docs)
		},
	}
	sf = addScopeFlags(cmd)
	return cmd
}

// readLocalFiles loads files from disk. The modification time stands in for
// the browser's lastModified.
func readLocalFiles(paths []string) ([]model.File, error) {
	files := make([]model.File, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", path)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, model.File{
			Name:           filepath.Base(path),
			MimeType:       mime.TypeByExtension(filepath.Ext(path)),
			Size:           int64(len(content)),
			LastModifiedMs: info.ModTime().UnixMilli(),
			Content:        content,
		})
	}
	return files, nil
}

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Permanently delete documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(rootOpts, cmd.OutOrStdout())
			s, err := openSession(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, id := range args {
				if err := s.catalog.RemoveDocument(cmd.Context(), id); err != nil {
					return p.fail(err)
				}
			}
			return p.message(fmt.Sprintf("removed %d document(s)", len(args)))
		},
	}
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var sf *scopeFlags
	cmd := &cobra.Command{
		Use:   "import <namespace> [id]...",
		Short: "Import evidence-library documents into a scope",
		Long: `Import documents from the evidence library of --cycle and --program into the
scope given by <namespace> and the scope flags. Without ids the library is
listed and nothing is imported.`,
		Example: `  docctl import section --cycle 3 --program 12 --appendix D --section Equipment 5d0c...`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(rootOpts, cmd.OutOrStdout())
			target, err := sf.scope(args[0])
			if err != nil {
				return p.fail(err)
			}
			s, err := openSession(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			dialog := service.NewImportDialog(s.bridge, sf.session(), target)
			if err := dialog.Open(cmd.Context()); err != nil {
				return p.fail(err)
			}
			ids := args[1:]
			if len(ids) == 0 {
				docs := dialog.Available()
				dialog.Cancel()
				return p.documents(docs)
			}
			for _, id := range ids {
				selected, err := dialog.Toggle(id)
				if err != nil {
					return p.fail(err)
				}
				if !selected {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: not in the evidence library\n", id)
				}
			}

			docs, err := dialog.Confirm(cmd.Context())
			if err != nil {
				dialog.Cancel()
				return p.fail(err)
			}
			return p.documents(docs)
		},
	}
	sf = addScopeFlags(cmd)
	return cmd
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Write the content of a document to a file or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(rootOpts, cmd.OutOrStdout())
			s, err := openSession(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := s.catalog.OpenDocument(cmd.Context(), args[0])
			if err != nil {
				return p.fail(err)
			}
			if doc.Payload == nil {
				return NewExitError(ExitFailure, fmt.Sprintf("document %s has no stored content", doc.ID))
			}
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(doc.Payload)
				return err
			}
			if err := os.WriteFile(output, doc.Payload, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "cannot write output", err)
			}
			return p.message(fmt.Sprintf("wrote %s (%d bytes)", output, len(doc.Payload)))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
