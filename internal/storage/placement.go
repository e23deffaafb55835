package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/eduflow/campus/pkg/config"
	"github.com/eduflow/campus/pkg/logging"
)

// Placement errors.
var (
	// ErrAttachmentNotFound indicates the uploaded source file is gone.
	ErrAttachmentNotFound = errors.New("attachment source not found")
	// ErrUnavailable indicates the attachment tree could not be written
	// or verified; callers must not assume the upload succeeded.
	ErrUnavailable = errors.New("attachment storage unavailable")
)

// Upload describes a file received by the transport layer, parked at a
// temporary path.
type Upload struct {
	TempPath     string
	OriginalName string
	ContentType  string
}

// Placement is the durable location of a stored attachment.
type Placement struct {
	// URL is the path clients resolve the attachment at, relative to
	// the upload base.
	URL string
	// Path is the absolute filesystem destination.
	Path string
	// OriginalName is the name the file was uploaded under.
	OriginalName string
	// MediaKind is the classified media kind.
	MediaKind string
}

// Placer relocates uploaded files into the path-addressed attachment
// tree. Filesystem work runs under a bounded worker semaphore with a
// per-operation timeout so placements never stall unrelated requests.
type Placer struct {
	root    string
	base    string
	sem     chan struct{}
	timeout time.Duration
	logger  *zap.Logger

	now func() time.Time
}

// NewPlacer creates a placer rooted at the configured upload directory
func NewPlacer(cfg *config.StorageConfig) *Placer {
	return &Placer{
		root:    cfg.UploadRoot,
		base:    cfg.UploadBase,
		sem:     make(chan struct{}, cfg.MaxWorkers),
		timeout: cfg.PlaceTimeout,
		logger:  logging.WithComponent("storage"),
		now:     time.Now,
	}
}

// Place computes the destination directory from the slugs of the owner
// names plus a fixed contents segment, ensures it exists, and relocates
// the upload under a collision-resistant name:
//
//	{purpose}_{epoch-millis}_{actorID}{original extension}
//
// The name is unique across concurrent uploads except for the same
// actor placing twice within one millisecond, an accepted race. The
// relocation is copy, verify, then delete-source; source and
// destination may live on different mounts, so a single rename is not
// assumed. A destination that already exists is replaced; equal source
// and destination paths are a no-op success.
func (p *Placer) Place(ctx context.Context, owner []string, purpose string, actorID int64, up Upload) (Placement, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return Placement{}, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}

	type result struct {
		pl  Placement
		err error
	}
	done := make(chan result, 1)
	// The worker owns the semaphore slot: classification may sniff the
	// file and relocation touches the filesystem, so both stay inside
	// the bounded section, and the slot is held until the work is done
	// even when the caller has already timed out.
	go func() {
		defer func() { <-p.sem }()
		kind := p.classify(up)
		pl, err := p.relocate(owner, purpose, actorID, up, kind)
		done <- result{pl: pl, err: err}
	}()

	select {
	case r := <-done:
		return r.pl, r.err
	case <-ctx.Done():
		return Placement{}, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
}

// classify resolves the media kind, sniffing the file only when the
// transport declared no content type.
func (p *Placer) classify(up Upload) string {
	ct := up.ContentType
	if ct == "" {
		if mt, err := mimetype.DetectFile(up.TempPath); err == nil {
			ct = mt.String()
		}
	}
	return MediaKindFor(ct)
}

func (p *Placer) relocate(owner []string, purpose string, actorID int64, up Upload, kind string) (Placement, error) {
	if _, err := os.Stat(up.TempPath); err != nil {
		if os.IsNotExist(err) {
			return Placement{}, fmt.Errorf("%w: %s", ErrAttachmentNotFound, up.TempPath)
		}
		return Placement{}, fmt.Errorf("%w: stat source: %v", ErrUnavailable, err)
	}

	segments := make([]string, 0, len(owner)+1)
	for _, name := range owner {
		segments = append(segments, Slugify(name))
	}
	segments = append(segments, "conteudos")

	dir := filepath.Join(append([]string{p.root}, segments...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Placement{}, fmt.Errorf("%w: create directory %s: %v", ErrUnavailable, dir, err)
	}

	fileName := fmt.Sprintf("%s_%d_%d%s", purpose, p.now().UnixMilli(), actorID, filepath.Ext(up.OriginalName))
	dst := filepath.Join(dir, fileName)

	placement := Placement{
		URL:          path.Join(append([]string{p.base}, append(segments, fileName)...)...),
		Path:         dst,
		OriginalName: up.OriginalName,
		MediaKind:    kind,
	}

	if filepath.Clean(up.TempPath) == filepath.Clean(dst) {
		return placement, nil
	}

	if err := copyFile(up.TempPath, dst); err != nil {
		return Placement{}, fmt.Errorf("%w: copy to %s: %v", ErrUnavailable, dst, err)
	}

	// Verify before touching the source; the copy is not trusted until
	// the destination is observable.
	srcInfo, err := os.Stat(up.TempPath)
	if err != nil {
		return Placement{}, fmt.Errorf("%w: stat source after copy: %v", ErrUnavailable, err)
	}
	dstInfo, err := os.Stat(dst)
	if err != nil || dstInfo.Size() != srcInfo.Size() {
		return Placement{}, fmt.Errorf("%w: verify %s", ErrUnavailable, dst)
	}

	if err := os.Remove(up.TempPath); err != nil {
		// The content is safely in place; a leaked temp file is not a
		// failure of the placement.
		p.logger.Warn("failed to remove upload source after copy",
			zap.String("source", up.TempPath),
			zap.Error(err))
	}

	return placement, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
