package bigint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntToBytesRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 12345, -12345, 1 << 40, -(1 << 40)}

	for _, width := range []int{32, 64} {
		for _, c := range cases {
			x := big.NewInt(c)
			buf, err := IntToBytes(x, width)
			require.NoError(t, err)
			require.Len(t, buf, width)

			got, err := BytesToInt(buf)
			require.NoError(t, err)
			require.Equal(t, 0, x.Cmp(got), "width %d: %s round-tripped to %s", width, x, got)
		}
	}
}

func TestIntToBytesRejectsBadWidth(t *testing.T) {
	_, err := IntToBytes(big.NewInt(1), 16)
	require.Error(t, err)
}

func TestIntToBytesRejectsOutOfRange(t *testing.T) {
	limit := new(big.Int).Lsh(big.NewInt(1), 32*8-1)
	_, err := IntToBytes(limit, 32)
	require.Error(t, err)
}

func TestBytesToIntRejectsBadLength(t *testing.T) {
	_, err := BytesToInt(make([]byte, 10))
	require.Error(t, err)
}

func TestIntToBytesSignBit(t *testing.T) {
	buf, err := IntToBytes(big.NewInt(-1), 32)
	require.NoError(t, err)
	require.Equal(t, byte(0x80), buf[31]&0x80)
}

func FuzzIntToBytesRoundTrip(f *testing.F) {
	f.Add(int64(0))
	f.Add(int64(-1))
	f.Add(int64(1<<62 - 1))

	f.Fuzz(func(t *testing.T, v int64) {
		x := big.NewInt(v)
		buf, err := IntToBytes(x, 64)
		if err != nil {
			t.Skip()
		}
		got, err := BytesToInt(buf)
		require.NoError(t, err)
		require.Equal(t, 0, x.Cmp(got))
	})
}
