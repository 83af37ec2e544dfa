// Package randomaccess defines the byte store capability the storage engine
// is built over, together with the conforming backends: an in-process memory
// buffer, an os file, and a page-chunked leveldb table.
//
// A store is an ordered, sparse byte array. Writes extend it as needed and
// overwrite in place; reads return exactly the requested range or fail.
// Nothing here understands records or headers, that knowledge belongs to the
// caller. All backends behave identically under non-overlapping access,
// which is what lets the engine treat the backend purely as a deployment
// choice.
package randomaccess

import "errors"

var (
	// ErrOutOfRange is returned by Read when the requested range extends past
	// the written length of the store and so cannot be zero-filled.
	ErrOutOfRange = errors.New("read past the end of the store")

	// ErrInvalidLength is returned by Read for a zero length request, which
	// is outside the contract.
	ErrInvalidLength = errors.New("read length must be greater than zero")

	// ErrClosed is returned by any operation on a closed store.
	ErrClosed = errors.New("store is closed")
)

// Store is a synchronous random access byte store. Calls are atomic from the
// caller's viewpoint: a write either lands completely or the store is
// unchanged, and no partial result is ever returned by a read.
//
// Implementations are not required to be safe for concurrent use; the owner
// serializes access. See the memory, file and leveldb implementations in
// this package.
type Store interface {
	// Read returns exactly length bytes starting at offset. Gaps inside the
	// written extent read as zeroes; a range extending past the extent fails
	// with ErrOutOfRange.
	Read(offset, length uint64) ([]byte, error)

	// Write stores data starting at offset, extending the store as needed
	// and overwriting any prior bytes in range.
	Write(offset uint64, data []byte) error

	// Len returns the current written length of the store in bytes.
	Len() (uint64, error)

	// Truncate shrinks the store to length bytes, or zero-extends it if
	// length exceeds the current extent.
	Truncate(length uint64) error

	// Close releases the backend. Further calls fail with ErrClosed.
	Close() error
}
