package ports

// Watcher monitors a fixed set of files (the mapping source and the entity
// input) and reports when any of them changes. Parent directories are watched
// so editors that save by rename are still observed.
type Watcher interface {
	// Watch starts monitoring files. onChange is called with the absolute path
	// of each changed file, debounced per file. The callback may be invoked
	// from any goroutine. Returns an error if a parent directory cannot be watched.
	Watch(files []string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
