// Package archive folds batches of loose cache entries into .tar.gz bundles
// and restores them.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/compress/gzip"

	"github.com/i474232898/jma-weather-archive/internal/store"
)

const archiveExt = ".tar.gz"

// Manager moves batches between the loose cache directory and the archive directory.
// It is single-writer: concurrent runs over the same directories are not supported.
type Manager struct {
	cache     *store.FileStore
	dir       string
	keepLoose bool
	logger    *slog.Logger
}

// Options configures a Manager.
type Options struct {
	// KeepLoose retains loose files after they have been archived.
	KeepLoose bool
	Logger    *slog.Logger
}

// NewManager creates the archive directory if needed.
func NewManager(cache *store.FileStore, dir string, opts Options) (*Manager, error) {
	if dir == "" {
		return nil, errors.New("archive directory must be specified")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory %s: %w", dir, err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{cache: cache, dir: dir, keepLoose: opts.KeepLoose, logger: logger}, nil
}

// Path returns the archive file of batch.
func (m *Manager) Path(batch string) string {
	return filepath.Join(m.dir, batch+archiveExt)
}

// Extract restores every entry of batch's archive into the loose cache,
// overwriting existing files. A missing archive is a no-op.
func (m *Manager) Extract(batch string) error {
	path := m.Path(batch)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open archive %s: %w", path, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("read archive %s: %w", path, err)
	}
	defer zr.Close()

	n := 0
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read archive %s: %w", path, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if err := checkEntryName(hdr.Name); err != nil {
			return fmt.Errorf("archive %s: %w", path, err)
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return fmt.Errorf("read %s from %s: %w", hdr.Name, path, err)
		}
		if err := m.cache.Write(hdr.Name, string(content)); err != nil {
			return err
		}
		n++
	}
	m.logger.Info("extracted archive", "path", path, "entries", n)
	return nil
}

// Compress bundles every loose entry of batch into a fresh archive that
// replaces any previous one, then removes the loose files unless configured
// to keep them. Loose files are only removed once the archive is in place.
func (m *Manager) Compress(batch string) error {
	keys, err := m.cache.Keys(func(key string) bool { return store.InBatch(key, batch) })
	if err != nil {
		return err
	}
	m.logger.Info("found cache files", "batch", batch, "files", len(keys))
	if len(keys) == 0 {
		return nil
	}

	path := m.Path(batch)
	if err := m.writeArchive(path, keys); err != nil {
		return err
	}
	m.logger.Info("compressed", "path", path)

	if m.keepLoose {
		return nil
	}
	var result *multierror.Error
	for _, key := range keys {
		if err := os.Remove(m.cache.Path(key)); err != nil {
			result = multierror.Append(result, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return result.ErrorOrNil()
}

func (m *Manager) writeArchive(path string, keys []string) (err error) {
	tmp, err := os.CreateTemp(m.dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create archive %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	zw := gzip.NewWriter(tmp)
	tw := tar.NewWriter(zw)
	for _, key := range keys {
		if err := addFile(tw, m.cache.Path(key), key); err != nil {
			return fmt.Errorf("archive %s: %w", path, err)
		}
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	return nil
}

func addFile(tw *tar.Writer, src, name string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	// No host metadata: equal contents yield byte-identical archives.
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0o644,
		Size:     info.Size(),
		ModTime:  time.Unix(0, 0),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}

// checkEntryName accepts only plain file names so extraction stays inside the cache directory.
func checkEntryName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) ||
		name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return fmt.Errorf("unsafe entry name %q", name)
	}
	return nil
}
