package workspace

import (
	"os"
	"path/filepath"
	"time"
)

// FileWatcher polls the workspace root and rescans Rust files whose
// modification time changed.
type FileWatcher struct {
	workspace    *Workspace
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func(path string)
}

func NewFileWatcher(w *Workspace) *FileWatcher {
	return &FileWatcher{
		workspace:    w,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
}

// OnChange registers fn to be called after a file was rescanned or removed.
func (fw *FileWatcher) OnChange(fn func(path string)) {
	fw.onChange = fn
}

func (fw *FileWatcher) Start() {
	go fw.run()
}

func (fw *FileWatcher) Stop() {
	close(fw.stopCh)
}

func (fw *FileWatcher) run() {
	ticker := time.NewTicker(fw.pollInterval)
	defer ticker.Stop()

	fw.scan()

	for {
		select {
		case <-fw.stopCh:
			return
		case <-ticker.C:
			fw.scan()
		}
	}
}

func (fw *FileWatcher) scan() {
	root := fw.workspace.RootDir()
	current := make(map[string]bool)

	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDir(path, d.Name(), root) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != sourceExt {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		current[path] = true

		lastMod, known := fw.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			fw.modTimes[path] = info.ModTime()
			if err := fw.workspace.ScanFile(path); err != nil {
				log.Warningf("rescan %s: %v", path, err)
				return nil
			}
			fw.changed(path)
		}
		return nil
	})

	for path := range fw.modTimes {
		if !current[path] {
			delete(fw.modTimes, path)
			if fw.workspace.removeClosed(path) {
				fw.changed(path)
			}
		}
	}
}

func (fw *FileWatcher) changed(path string) {
	if fw.onChange != nil {
		fw.onChange(path)
	}
}
