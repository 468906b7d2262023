// Package resolver expands a user-supplied path into the regular files it
// denotes and locates the record file that belongs to it. A file resolves to
// itself; a directory resolves to its immediate regular files, never
// descending into subdirectories. The record file lives inside a target
// directory, or next to a target file.
package resolver
