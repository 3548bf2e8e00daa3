// Package renderer shells out to the external video renderer used to
// replenish post inventory.
//
// The renderer's internals (composition, text layout, audio) are outside this
// system; the contract is one command invocation per artifact, bounded by a
// configured timeout, with the artifact path printed on stdout.
package renderer
