// Package scout provides recursive file-name search over a bounded pool of
// worker goroutines.
//
// This package is the public surface of the `prowl` command. A traversal
// descends a directory tree depth-first and prints every file whose base name
// matches a glob pattern. Subdirectories discovered along the way are handed
// to a fixed-size pool of workers when one is free and walked inline when the
// pool is saturated, so the number of concurrent walkers never exceeds the
// configured capacity.
//
//	// Basic usage
//	stats, err := scout.Traverse("/path/to/search", scout.Options{
//		Pattern:   "*.txt",
//		Recursive: true,
//		Workers:   4,
//	})
//
//	// Regex matching instead of glob
//	match, _ := scout.Regexp(`\.(go|mod)$`)
//	stats, err := scout.Traverse(".", scout.Options{Match: match, Recursive: true})
//
//	// Watch for matching files appearing under a directory
//	err := scout.Watch(context.Background(), "/path/to/watch", scout.WatchOptions{
//		Pattern:   "*.log",
//		Recursive: true,
//	}, nil)
package scout
