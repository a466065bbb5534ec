package cellmem_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thirdlang/thirdvm/internal/cellmem"
)

func TestCellsBasic(t *testing.T) {
	var m cellmem.Cells
	m.SetPageSize(4)

	val, err := m.Load(0)
	require.NoError(t, err)
	require.Equal(t, int64(0), val)
	require.Equal(t, uint(0), m.Size())

	require.NoError(t, m.Stor(0, 9))
	val, err = m.Load(0)
	require.NoError(t, err)
	require.Equal(t, int64(9), val)

	require.NoError(t, m.Stor(0x9, 1, 2, 3, 4, 5, 6))
	buf := make([]int64, 12)
	require.NoError(t, m.LoadInto(6, buf))
	require.Equal(t, []int64{
		0, 0,
		0, 1, 2, 3,
		4, 5, 6, 0,
		0, 0,
	}, buf)
}

func TestCellsLimit(t *testing.T) {
	var m cellmem.Cells
	m.SetLimit(16)
	require.NoError(t, m.Stor(0, 1, 2, 3))

	_, err := m.Load(100)
	require.Error(t, err)
	var lim cellmem.LimitError
	require.ErrorAs(t, err, &lim)
	require.Equal(t, uint(100), lim.Addr)

	require.Error(t, m.Stor(15, 1, 2))
}

func TestCellsLoadIntoUnallocated(t *testing.T) {
	var m cellmem.Cells
	buf := []int64{9, 9, 9}
	require.NoError(t, m.LoadInto(0, buf))
	require.Equal(t, []int64{0, 0, 0}, buf)
}

func TestCellsCheckWatermark(t *testing.T) {
	var m cellmem.Cells
	require.NoError(t, m.CheckWatermark(3, 10, "@"))

	err := m.CheckWatermark(10, 10, "@")
	require.Error(t, err)
	var b cellmem.BoundsError
	require.ErrorAs(t, err, &b)
	require.Equal(t, uint(10), b.Addr)
	require.Equal(t, uint(10), b.Watermark)
	require.Equal(t, "@", b.Op)
}
