package qc

// RowIterator yields attribute rows lazily. Close must be called on every exit path.
type RowIterator interface {
	Next() bool
	Row() AttributeRow
	Err() error
	Close() error
}

// RowSource opens the attribute rows of one dataset for the requested fields.
type RowSource interface {
	OpenRows(fieldNames []string) (RowIterator, error)
}

// SliceRowSource serves rows held in memory.
type SliceRowSource struct {
	Rows []AttributeRow
}

// OpenRows returns an iterator over the held rows. The field list is not consulted.
func (source SliceRowSource) OpenRows(fieldNames []string) (RowIterator, error) {
	return &sliceRowIterator{rows: source.Rows, position: -1}, nil
}

type sliceRowIterator struct {
	rows     []AttributeRow
	position int
}

func (iterator *sliceRowIterator) Next() bool {
	if iterator.position+1 >= len(iterator.rows) {
		iterator.position = len(iterator.rows)
		return false
	}
	iterator.position++
	return true
}

func (iterator *sliceRowIterator) Row() AttributeRow {
	if iterator.position < 0 || iterator.position >= len(iterator.rows) {
		return nil
	}
	return iterator.rows[iterator.position]
}

func (iterator *sliceRowIterator) Err() error {
	return nil
}

func (iterator *sliceRowIterator) Close() error {
	return nil
}
