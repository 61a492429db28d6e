package site

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/choreworld/choreworld.github.io/internal/types"
)

// archiveDir snapshots the directory tree at dir into a tar.gz file at dest.
// An existing archive at dest is overwritten; only the latest previous build
// is kept.
func archiveDir(dir, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return types.NewAppError(types.ErrCodePublishArchive,
			fmt.Sprintf("failed to create archive %s", dest), err)
	}

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if d.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})

	if walkErr == nil {
		walkErr = tw.Close()
	} else {
		tw.Close()
	}
	if walkErr == nil {
		walkErr = gz.Close()
	} else {
		gz.Close()
	}
	if closeErr := out.Close(); walkErr == nil {
		walkErr = closeErr
	}

	if walkErr != nil {
		os.Remove(dest)
		return types.NewAppError(types.ErrCodePublishArchive,
			fmt.Sprintf("failed to archive previous build at %s", dir), walkErr)
	}
	return nil
}
