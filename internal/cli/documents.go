package cli

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"eaccore/internal/attachments"
	"eaccore/pkg/domain"
)

// DocumentsCmd groups the document maintenance commands.
func DocumentsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Upload, inspect and delete stored documents",
	}
	cmd.AddCommand(documentsUploadCmd(env))
	cmd.AddCommand(documentsGetCmd(env))
	cmd.AddCommand(documentsDeleteCmd(env))
	cmd.AddCommand(documentsOrphansCmd(env))
	return cmd
}

func documentsUploadCmd(env *Env) *cobra.Command {
	var (
		fileType    string
		title       string
		description string
		contentType string
	)
	cmd := &cobra.Command{
		Use:   "upload [file]",
		Short: "Upload a file and create its document row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := env.App(cmd)
			if err != nil {
				return err
			}
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			up := attachments.Upload{
				File:        f,
				FileName:    filepath.Base(path),
				ContentType: contentType,
				FileType:    domain.FileType(fileType),
			}
			if up.ContentType == "" {
				up.ContentType = mime.TypeByExtension(filepath.Ext(path))
			}
			if title != "" {
				up.Title = &title
			}
			if description != "" {
				up.Description = &description
			}
			doc, res, err := a.Service.Documents().CreateDocument(ctx, up)
			out := cmd.OutOrStdout()
			printWarnings(out, res, false)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Uploaded document %s\n", okMark, doc.ID)
			fmt.Fprintf(out, "  Type: %s\n", doc.FileType)
			fmt.Fprintf(out, "  URL:  %s\n", doc.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&fileType, "type", "", "file type (default ORGANIZATION_DOCUMENT)")
	cmd.Flags().StringVar(&title, "title", "", "document title")
	cmd.Flags().StringVar(&description, "description", "", "document description")
	cmd.Flags().StringVar(&contentType, "content-type", "", "MIME type (default from the file extension)")
	return cmd
}

func documentsGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get [id...]",
		Short: "Print document rows as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := env.App(cmd)
			if err != nil {
				return err
			}
			var v any
			if len(args) == 1 {
				v, err = a.Service.Documents().GetDocument(ctx, args[0])
			} else {
				v, err = a.Service.Documents().GetDocumentsByIDs(ctx, args)
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}
}

func documentsDeleteCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a document row; the stored object is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := env.App(cmd)
			if err != nil {
				return err
			}
			if err := a.Service.Documents().DeleteDocument(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted document %s\n", okMark, args[0])
			return nil
		},
	}
}

func documentsOrphansCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "List stored objects that no document row references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := env.App(cmd)
			if err != nil {
				return err
			}
			orphans, err := a.Service.Documents().FindOrphans(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(orphans) == 0 {
				fmt.Fprintf(out, "%s No orphaned objects\n", okMark)
				return nil
			}
			for _, o := range orphans {
				fmt.Fprintf(out, "%s %s (%d bytes)\n", warnMark, o.Key, o.Size)
			}
			return nil
		},
	}
}
