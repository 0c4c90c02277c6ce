package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

func newCollectStaticCmd(open openFunc) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "collect-static",
		Short: "Upload a directory to the static location, overwriting existing files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, open, func(ctx context.Context, e *env) error {
				n, err := collectStatic(ctx, e, dir)
				if err != nil {
					return err
				}
				cmd.Printf("%d static files copied\n", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "assets", "source directory")
	return cmd
}

func collectStatic(ctx context.Context, e *env, dir string) (int, error) {
	copied := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		mtype, err := mimetype.DetectFile(path)
		if err != nil {
			return fmt.Errorf("detect %s failed: %w", rel, err)
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := e.static.Save(ctx, filepath.ToSlash(rel), f, mtype.String()); err != nil {
			return fmt.Errorf("upload %s failed: %w", rel, err)
		}
		copied++
		return nil
	})
	return copied, err
}
