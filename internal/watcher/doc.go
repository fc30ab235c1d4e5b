// Package watcher mines transaction files as they appear in a directory.
//
// A Watcher subscribes to a directory with fsnotify. Every create or write
// of a dataset file (.csv) restarts a per-file debounce timer; when the
// timer fires the file is handed to the Watcher's Handler, typically one
// that mines the file and records a run. Handlers run one at a time on the
// Watcher's own goroutine.
//
// Example usage:
//
//	w, err := watcher.New(dir, func(path string) error {
//		ds, err := dataset.Load([]string{path}, dataset.ReadOptions{})
//		if err != nil {
//			return err
//		}
//		_, err = a.Mine(ds, params)
//		return err
//	}, watcher.WithDebounce(time.Second))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
//
// The watch command can also detach itself with StartDaemon and be stopped
// later with StopDaemon.
package watcher
