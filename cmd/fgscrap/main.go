// Package main provides the entry point for the fgscrap CLI.
//
// fgscrap crawls the paginated repack listing, decrypts the paste behind
// each ".torrent file only" link, and saves the torrent files together with
// a title -> file name table used to skip finished games on the next run.
//
// Usage:
//
//	fgscrap scrape --filter no-adult --save-dir ./torrents
//	fgscrap export --format xlsx
//	fgscrap list
//
// See --help for all available options.
package main

// main is the entry point for fgscrap.
func main() {
	Execute()
}
