// Package boundary provides a bounded cache of range boundaries found while
// evaluating a windowed function over one partition of rows.
//
// The cache maps row indexes to the ordering-column value at that row. Two
// access patterns have to coexist: the window evaluator resolves frame
// boundaries with key-ordered floor lookups, while memory is bounded by
// evicting entries in strict first-insertion order. The cache therefore
// composes an ordered store with a FIFO queue of resident keys and keeps the
// two in lock-step.
//
// A Cache belongs to exactly one evaluation task for the duration of one
// partition. It is not safe for concurrent use; tasks processing different
// partitions must each use their own instance. None of the operations block
// or perform I/O.
package boundary
