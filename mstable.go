package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/danthegoodman1/mstable/column"
	"github.com/danthegoodman1/mstable/datastore"
	"github.com/danthegoodman1/mstable/table"
	"github.com/danthegoodman1/mstable/tablestore"
)

type (
	MSTable struct {
		DataStore datastore.DataStore
	}

	ColumnReport struct {
		column.Descriptor
		Exists    bool        `json:"exists"`
		Shape     table.Shape `json:"shape,omitempty"`
		NElements int         `json:"n_elements"`
		Code      column.Code `json:"code"`
		Err       string      `json:"error,omitempty"`
	}
)

func NewMSTable(ds datastore.DataStore) (*MSTable, error) {
	mst := &MSTable{
		DataStore: ds,
	}

	return mst, nil
}

// DescribeTable opens the table at path and reports on the named columns, or on every column
// when none are named. Each column is read in full, or restricted to region when one is given.
func (mst *MSTable) DescribeTable(ctx context.Context, path string, columns []string, region *column.Region) ([]ColumnReport, error) {
	t, err := tablestore.Open(ctx, mst.DataStore, path)
	if err != nil {
		return nil, fmt.Errorf("error in tablestore.Open: %w", err)
	}
	defer t.Close()

	if len(columns) == 0 {
		columns = t.Desc().ColumnNames()
	}
	reports := make([]ColumnReport, 0, len(columns))
	for _, name := range columns {
		reports = append(reports, describeColumn(t, name, region))
	}
	return reports, nil
}

func describeColumn(t *table.Table, name string, region *column.Region) ColumnReport {
	r := ColumnReport{Descriptor: column.Descriptor{Name: name}, Exists: column.Exists(t, name)}
	if !r.Exists {
		r.Code = column.TableError
		r.Err = "no such column"
		return r
	}
	d, err := column.Describe(t, name)
	if err != nil {
		r.Code, r.Err = column.CodeOf(err), err.Error()
		return r
	}
	r.Descriptor = d
	buf, err := column.Read(t, name, region)
	if err != nil {
		// fall back to the resolved shape so ragged columns still report something
		r.Code, r.Err = column.CodeOf(err), err.Error()
		if shape, err := column.ResolveShape(t, name); err == nil {
			r.Shape = shape
		}
		return r
	}
	r.Shape = buf.Shape
	r.NElements = buf.Len()
	return r
}

// parseRegion reads "lower:upper" where each side is a comma separated index list,
// e.g. "0,0:1,1". An empty string means no region.
func parseRegion(s string) (*column.Region, error) {
	if s == "" {
		return nil, nil
	}
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("region %q must be lower:upper", s)
	}
	lower, err := parseIndices(lo)
	if err != nil {
		return nil, err
	}
	upper, err := parseIndices(hi)
	if err != nil {
		return nil, err
	}
	return column.NewRegion(lower, upper), nil
}

func parseIndices(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	idx := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("error parsing region index %q: %w", p, err)
		}
		idx[i] = v
	}
	return idx, nil
}
