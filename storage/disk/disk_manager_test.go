package disk

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWritePage(t *testing.T) {
	dm := NewDiskManagerTest(512)
	defer dm.ShutDown()

	data := make([]byte, 512)
	buffer := make([]byte, 512)

	copy(data, "A test string.")

	// nothing written yet
	assert.True(t, errors.Is(dm.ReadPage(0, buffer), ErrShortRead))

	require.NoError(t, dm.WritePage(0, data))
	require.NoError(t, dm.ReadPage(0, buffer))
	assert.Equal(t, data, buffer)

	memset(buffer, 0)
	copy(data, "Another test string.")

	require.NoError(t, dm.WritePage(5, data))
	require.NoError(t, dm.ReadPage(5, buffer))
	assert.Equal(t, data, buffer)

	size, err := dm.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(6*512), size)
	assert.Equal(t, uint64(2), dm.GetNumWrites())
}

func TestReadPartialPageIsError(t *testing.T) {
	f, err := os.CreateTemp("", "heapstore-*.dat")
	require.NoError(t, err)
	path := f.Name()
	defer os.Remove(path)
	_, err = f.Write(make([]byte, 512+100))
	require.NoError(t, err)
	f.Close()

	dm, err := NewDiskManagerImpl(path, 512)
	require.NoError(t, err)
	defer dm.ShutDown()

	buffer := make([]byte, 512)
	assert.NoError(t, dm.ReadPage(0, buffer))
	assert.True(t, errors.Is(dm.ReadPage(1, buffer), ErrShortRead))
}

func TestWrongBufferLength(t *testing.T) {
	dm := NewVirtualDiskManagerImpl("virtual.dat", 512)
	defer dm.ShutDown()

	assert.Equal(t, ErrBadPageBuffer, dm.WritePage(0, make([]byte, 100)))
	assert.Equal(t, ErrBadPageBuffer, dm.ReadPage(0, make([]byte, 1024)))
}

func TestVirtualReadWritePage(t *testing.T) {
	dm := NewVirtualDiskManagerImpl("virtual.dat", 256)
	defer dm.ShutDown()

	data := make([]byte, 256)
	buffer := make([]byte, 256)
	copy(data, "in memory")

	assert.True(t, errors.Is(dm.ReadPage(0, buffer), ErrShortRead))
	require.NoError(t, dm.WritePage(2, data))
	require.NoError(t, dm.ReadPage(2, buffer))
	assert.Equal(t, data, buffer)

	// the gap reads back as zeros
	require.NoError(t, dm.ReadPage(0, buffer))
	assert.Equal(t, make([]byte, 256), buffer)

	size, _ := dm.Size()
	assert.Equal(t, int64(3*256), size)
	assert.Equal(t, "virtual.dat", dm.Path())
}

func TestVirtualWithData(t *testing.T) {
	dm := NewVirtualDiskManagerWithData("v.dat", 256, make([]byte, 300))
	buffer := make([]byte, 256)

	assert.NoError(t, dm.ReadPage(0, buffer))
	assert.True(t, errors.Is(dm.ReadPage(1, buffer), ErrShortRead))
	size, _ := dm.Size()
	assert.Equal(t, int64(300), size)
}

func memset(buffer []byte, value int) {
	for i := range buffer {
		buffer[i] = byte(value)
	}
}
