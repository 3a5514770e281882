package main

import (
	"context"
	"testing"

	"github.com/danthegoodman1/mstable/column"
	"github.com/danthegoodman1/mstable/datastore"
	"github.com/danthegoodman1/mstable/table"
	"github.com/danthegoodman1/mstable/tablestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegion(t *testing.T) {
	r, err := parseRegion("0,0:1, 1")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, r.Lower)
	assert.Equal(t, []int{1, 1}, r.Upper)

	r, err = parseRegion("")
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = parseRegion("0,0")
	assert.Error(t, err)
	_, err = parseRegion("a:1")
	assert.Error(t, err)
}

func TestDescribeTable(t *testing.T) {
	ctx := context.Background()
	ds, err := datastore.NewDiskDataStore(t.TempDir())
	require.NoError(t, err)
	mst, err := NewMSTable(ds)
	require.NoError(t, err)

	_, err = mst.DescribeTable(ctx, "missing.ms", nil, nil)
	assert.Equal(t, column.TableNoFile, column.CodeOf(err))

	desc := table.NewTableDesc("MAIN",
		table.ScalarColumnDesc("TIME", table.Float64),
		table.FixedArrayColumnDesc("DATA", table.Complex64, table.Shape{4, 2}),
		table.ArrayColumnDesc("WEIGHT", table.Float32, 0),
	)
	tbl, err := table.New(desc, 3)
	require.NoError(t, err)
	require.NoError(t, tablestore.Save(ctx, ds, "obs.ms", tbl))

	reports, err := mst.DescribeTable(ctx, "obs.ms", nil, nil)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, table.Shape{3}, reports[0].Shape)
	assert.Equal(t, table.Shape{4, 2, 3}, reports[1].Shape)
	assert.Equal(t, 24, reports[1].NElements)
	// WEIGHT has no defined rows, the read fails but the resolved shape is kept
	assert.Equal(t, column.TableError, reports[2].Code)
	assert.Equal(t, table.Shape{3}, reports[2].Shape)

	reports, err = mst.DescribeTable(ctx, "obs.ms", []string{"DATA", "nope"}, column.NewRegion([]int{0, 0}, []int{1, 1}))
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, table.Shape{2, 2, 3}, reports[0].Shape)
	assert.Equal(t, 12, reports[0].NElements)
	assert.False(t, reports[1].Exists)

	reports, err = mst.DescribeTable(ctx, "obs.ms", []string{"DATA"}, column.NewRegion([]int{0, 0}, []int{4, 1}))
	require.NoError(t, err)
	assert.Equal(t, column.ArraySlicerError, reports[0].Code)
}
