package archival

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Writer is the archive storage boundary. Implementations persist one named
// object per batch, namespaced per tenant. The pipeline never reads archives
// back; audit review is an operational concern outside this boundary.
type Writer interface {
	// Write durably stores content under the tenant's namespace. It must
	// not return nil before the content is confirmed written.
	Write(ctx context.Context, tenantID, fileName string, content []byte) error
}

// ArchiveFileName builds the unique object name for one batch attempt:
// archive-{RFC3339 timestamp}-{batch sequence}.ndjson. Uniqueness per
// (tenant, run, batch) means a retried run can never silently overwrite a
// previous valid archive.
func ArchiveFileName(ts time.Time, batchSeq int) string {
	return fmt.Sprintf("archive-%s-%d.ndjson", ts.UTC().Format(time.RFC3339), batchSeq)
}

// FileWriter implements Writer on the local filesystem, laying archives out
// as <root>/archives/{tenantID}/{fileName}.
type FileWriter struct {
	root   string
	logger *slog.Logger
}

// NewFileWriter creates a FileWriter rooted at the given directory.
func NewFileWriter(root string) *FileWriter {
	return &FileWriter{
		root:   root,
		logger: slog.Default().With("component", "archival.writer"),
	}
}

// Write stores the content under archives/{tenantID}/{fileName}. The file is
// written to a temporary name and renamed into place so a crash mid-write
// can never leave a truncated object under the final name.
func (w *FileWriter) Write(ctx context.Context, tenantID, fileName string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Join(w.root, "archives", tenantID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	final := filepath.Join(dir, fileName)
	tmp, err := os.CreateTemp(dir, fileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp archive file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write archive content: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync archive file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close archive file: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("finalize archive file: %w", err)
	}

	w.logger.Debug("archive file written",
		"tenant_id", tenantID,
		"file", fileName,
		"bytes", len(content),
	)
	return nil
}
