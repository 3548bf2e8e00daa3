// Package textutil provides text cleanup helpers, currently caption
// sanitization for the browser automation layer.
package textutil
