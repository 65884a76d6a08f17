/*
Package imgstore implements a single-file image store.

A store is a fixed-slot binary container: a header, a table of MaxFiles
metadata slots and a content area holding image bytes. Each slot describes
one image by its identifier, the SHA-256 digest of its original bytes and
the location (offset, size) of each of its resolutions: the original and the
derived thumbnail and small variants.

Identical content is stored once: at insertion time, ResolveDuplicates
aliases the new slot onto the content of any valid slot with the same digest.
Derived resolutions are materialized lazily, on first read.

Deleting an image only invalidates its slot. GarbageCollect reclaims the space
by rebuilding the store into a replacement file, keeping already materialized
resolutions, then swapping the replacement in place of the original.

A store file must be owned by a single process while it is mutated:
nothing in this package locks the file or serializes concurrent callers.
*/
package imgstore
