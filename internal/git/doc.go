// Package git reads commit history of the repository holding the content
// directory. It is used to stamp pages with a last-modified date.
package git
