package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/dmitrijs2005/gestiongasto/internal/models"
)

var errUsage = errors.New("usage")

const usage = `usage: gestiongasto-cli [flags] <command> [args]

commands:
  upload <entity-id> <file>...
  list <folder-path>
  find <entity-id>
  files <entity-id>
  get <item-id>
  delete [-y] <item-id>
  mkdir <folder-path>
`

// Run executes one command. args are the positional arguments, command
// name first; force skips confirmation prompts.
func (a *App) Run(ctx context.Context, args []string, force bool) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "upload":
		return a.upload(ctx, rest)
	case "list":
		return a.list(ctx, rest)
	case "find":
		return a.find(ctx, rest)
	case "files":
		return a.files(ctx, rest)
	case "get":
		return a.get(ctx, rest)
	case "delete":
		return a.delete(ctx, rest, force)
	case "mkdir":
		return a.mkdir(ctx, rest)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func (a *App) upload(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: upload <entity-id> <file>...", errUsage)
	}
	entityID, paths := args[0], args[1:]

	uploads := make([]models.Upload, 0, len(paths))
	for _, p := range paths {
		f, err := openFile(p)
		if err != nil {
			return err
		}
		defer f.Close()
		uploads = append(uploads, models.Upload{Name: filepath.Base(p), Content: f})
	}

	res := a.store.UploadMultipleFiles(ctx, uploads, a.config.BaseFolder, entityID)
	a.printFiles(res.Succeeded)
	for _, f := range res.Failed {
		fmt.Fprintf(a.out, "FAILED\t%s\t%s\n", f.Name, f.Error)
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d of %d uploads failed", len(res.Failed), len(paths))
	}
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: list <folder-path>", errUsage)
	}
	files, err := a.store.ListFiles(ctx, args[0])
	if err != nil {
		return err
	}
	a.printFiles(files)
	return nil
}

func (a *App) find(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: find <entity-id>", errUsage)
	}
	id, found, err := a.store.FindFolderForEntity(ctx, args[0], a.config.BaseFolder)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(a.out, "no folder for %s\n", args[0])
		return nil
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func (a *App) files(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: files <entity-id>", errUsage)
	}
	files, err := a.store.ListFilesForEntity(ctx, args[0], a.config.BaseFolder)
	if err != nil {
		return err
	}
	a.printFiles(files)
	return nil
}

func (a *App) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: get <item-id>", errUsage)
	}
	f, err := a.store.GetFile(ctx, args[0])
	if err != nil {
		return err
	}
	a.printFiles([]models.RemoteFile{*f})
	if f.ThumbnailURL != "" {
		fmt.Fprintf(a.out, "thumbnail: %s\n", f.ThumbnailURL)
	}
	return nil
}

func (a *App) delete(ctx context.Context, args []string, force bool) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete [-y] <item-id>", errUsage)
	}
	if !force && !Confirm(a.reader, fmt.Sprintf("Delete %s?", args[0]), a.out) {
		fmt.Fprintln(a.out, "cancelled")
		return nil
	}
	if err := a.store.DeleteFile(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %s\n", args[0])
	return nil
}

func (a *App) mkdir(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: mkdir <folder-path>", errUsage)
	}
	if err := a.store.CreateFolderIfNotExists(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ok %s\n", args[0])
	return nil
}

func (a *App) printFiles(files []models.RemoteFile) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, f := range files {
		kind := f.MimeType
		if kind == "" {
			kind = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", f.ID, f.Name, f.Size, kind, f.WebURL)
	}
	_ = tw.Flush()
}
