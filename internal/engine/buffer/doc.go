// Package buffer provides the text buffer edited by the engine.
//
// A Buffer is a flat byte slice paired with an index of line start offsets.
// All positions are byte offsets; Point gives the line/column view of an
// offset with the column measured in bytes. Line endings are normalized to
// "\n" when a buffer is created, so every logical line is terminated by a
// single newline byte (the last line has no terminator).
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
// A Buffer has a single owner and performs no locking.
package buffer
