package scan

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/ericlevine/zxcore"
)

// Watcher decodes image files as they are created or written in a
// directory. All files go through one MultiFormatReader, configured once.
type Watcher struct {
	svc     *Service
	dir     string
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	reader *zxcore.MultiFormatReader
}

// NewWatcher starts watching dir. Events that arrive before Run are queued.
func (s *Service) NewWatcher(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "watch %s", dir)
	}
	reader := zxcore.NewMultiFormatReader()
	reader.SetHints(s.opts.Decode)
	return &Watcher{svc: s, dir: dir, watcher: fw, reader: reader}, nil
}

// Run decodes each created or written image file and passes the outcome to
// report, until ctx is done. Files are decoded one at a time.
func (w *Watcher) Run(ctx context.Context, report func(FileResult)) error {
	defer w.watcher.Close()
	w.svc.log.Infow("watching", "dir", w.dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !IsImageFile(ev.Name) {
				continue
			}
			report(w.svc.scanFile(ctx, ev.Name, w.decode))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.svc.log.Warnw("watch error", "dir", w.dir, "error", err)
		}
	}
}

// decode holds the lock for the whole decode, so a decode abandoned on
// timeout finishes before the reader is used again.
func (w *Watcher) decode(bitmap *zxcore.BinaryBitmap) (*zxcore.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reader.DecodeWithState(bitmap)
}
