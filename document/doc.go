// Package document implements a mutable element tree over an encoded BSON
// buffer.
//
// A Document fuses three storage areas into one logical tree:
//
//   - the element arena, an append-only vector of fixed-size element
//     records addressed by stable handles;
//   - a table of borrowed source buffers holding the original encoded
//     bytes, which are unpacked lazily as the tree is navigated;
//   - the leaf builder, a document-owned scratch encoder whose buffer
//     backs every value synthesized after load.
//
// Elements materialize on demand: loading a document creates only the root
// record, and each navigation step decodes at most one more element. A
// record whose "serialized" bit is set still has a faithful encoding in one
// of the buffers, so serializing an untouched subtree is a single bulk byte
// copy. Mutating anything beneath an element clears that bit all the way up
// to the root.
//
// Handles (the Element type) are never invalidated: removal detaches an
// element but retains its record, and the arena only ever grows. When a
// document is created with in-place updates enabled, value replacements
// that preserve the encoded size are additionally reported as damage
// events, byte patches the caller can apply directly to the original
// buffer.
package document
