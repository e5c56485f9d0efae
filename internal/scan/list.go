package scan

import (
	"container/list"
)

// EntryList is an owning FIFO of EntryRecords.
// A record belongs to the list while it is in it; PopFront hands ownership
// back to the caller.
type EntryList struct {
	items *list.List
}

// Mark is a position in an EntryList, taken with Mark.
type Mark struct {
	tail *list.Element
}

// NewEntryList creates an empty list.
func NewEntryList() *EntryList {
	return &EntryList{items: list.New()}
}

// Len returns the number of records in the list.
func (l *EntryList) Len() int {
	return l.items.Len()
}

// PushBack appends record to the tail.
func (l *EntryList) PushBack(record *EntryRecord) {
	l.items.PushBack(record)
}

// Front returns the head record without removing it, or nil.
func (l *EntryList) Front() *EntryRecord {
	front := l.items.Front()
	if front == nil {
		return nil
	}

	return front.Value.(*EntryRecord) //nolint:forcetypeassert // Only records are stored
}

// PopFront removes and returns the head record.
func (l *EntryList) PopFront() (*EntryRecord, bool) {
	front := l.items.Front()
	if front == nil {
		return nil, false
	}

	return l.items.Remove(front).(*EntryRecord), true //nolint:forcetypeassert // Only records are stored
}

// Mark captures the current tail.
func (l *EntryList) Mark() Mark {
	return Mark{tail: l.items.Back()}
}

// ReleaseSince frees every record appended after mark and returns how many.
// Records that were in the list when the mark was taken are untouched.
func (l *EntryList) ReleaseSince(mark Mark, alloc Allocator) int {
	released := 0

	for back := l.items.Back(); back != nil && back != mark.tail; back = l.items.Back() {
		alloc.Free(l.items.Remove(back).(*EntryRecord)) //nolint:forcetypeassert // Only records are stored
		released++
	}

	return released
}

// Drain frees every record in the list and returns how many.
func (l *EntryList) Drain(alloc Allocator) int {
	return l.ReleaseSince(Mark{}, alloc)
}

// Paths returns the paths of the records in list order.
func (l *EntryList) Paths() []string {
	paths := make([]string, 0, l.items.Len())
	for e := l.items.Front(); e != nil; e = e.Next() {
		paths = append(paths, e.Value.(*EntryRecord).path) //nolint:forcetypeassert // Only records are stored
	}

	return paths
}
