// Package uploader walks a browser session through the publish flow for one
// video at a time: attach the file, wait for ingest, type the caption, find
// an enabled post button, and confirm. Login loss is detected by URL and
// handed to the operator with a bounded grace window.
package uploader
