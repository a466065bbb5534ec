package strstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thirdlang/thirdvm/internal/strstore"
)

func TestAppendAndString(t *testing.T) {
	var s strstore.Store

	a, err := s.AppendString("dup")
	require.NoError(t, err)
	require.Equal(t, uint(0), a)
	require.Equal(t, "dup", s.String(a))

	b, err := s.AppendString("swap")
	require.NoError(t, err)
	require.Equal(t, uint(4), b)
	require.Equal(t, "swap", s.String(b))
	require.Equal(t, "dup", s.String(a), "earlier string unaffected by later append")
}

func TestTruncateForgets(t *testing.T) {
	var s strstore.Store
	a, _ := s.AppendString("keep")
	mark := s.Here()
	s.AppendString("drop-me")
	require.NotEqual(t, "", s.String(mark))

	s.Truncate(mark)
	require.Equal(t, "keep", s.String(a))
	require.Equal(t, "", s.String(mark))
}

func TestTooLong(t *testing.T) {
	var s strstore.Store
	_, err := s.Append(make([]byte, strstore.MaxLen+1))
	require.Error(t, err)
}

func TestByteAtAndSetByte(t *testing.T) {
	var s strstore.Store
	require.NoError(t, s.SetByte(5, 'x'))
	v, err := s.ByteAt(5)
	require.NoError(t, err)
	require.Equal(t, byte('x'), v)

	v, err = s.ByteAt(100)
	require.NoError(t, err)
	require.Equal(t, byte(0), v)
}
