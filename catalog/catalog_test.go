package catalog

import (
	"os"
	"path/filepath"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heapstore/heapstore/storage/access"
	"github.com/heapstore/heapstore/storage/disk"
	"github.com/heapstore/heapstore/storage/table/column"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/types"
)

func openVirtual(path string, schema_ *schema.Schema) (*access.HeapFile, error) {
	return access.NewHeapFile(disk.NewVirtualDiskManagerImpl(path, 4096), schema_, nil)
}

func TestAddAndLookup(t *testing.T) {
	c := NewCatalog()
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("a", types.Integer)})
	hf, err := openVirtual("/tmp/catalog_test_a.dat", schema_)
	require.NoError(t, err)
	c.AddTable(hf, "a", "a")

	oid, err := c.GetTableID("a")
	require.NoError(t, err)
	assert.Equal(t, hf.GetID(), oid)

	file, err := c.GetDatabaseFile(oid)
	require.NoError(t, err)
	assert.Same(t, hf, file)
	name, _ := c.GetTableName(oid)
	assert.Equal(t, "a", name)
	pkey, _ := c.GetPrimaryKey(oid)
	assert.Equal(t, "a", pkey)
	desc, _ := c.GetTupleDesc(oid)
	assert.True(t, desc.Equals(schema_))

	_, err = c.GetTableID("missing")
	assert.True(t, pkgerrors.Is(err, ErrNoSuchTable))
	_, err = c.GetDatabaseFile(oid + 1)
	assert.True(t, pkgerrors.Is(err, ErrNoSuchTable))
}

func TestAddTableReplaces(t *testing.T) {
	c := NewCatalog()
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("a", types.Integer)})
	first, _ := openVirtual("/tmp/catalog_test_first.dat", schema_)
	second, _ := openVirtual("/tmp/catalog_test_second.dat", schema_)

	c.AddTable(first, "t", "")
	c.AddTable(second, "t", "")
	assert.Equal(t, []types.TableID{second.GetID()}, c.TableIDs())
	assert.Nil(t, c.GetTableByOID(first.GetID()))

	// same file under a new name drops the old name
	c.AddTable(second, "u", "")
	assert.Nil(t, c.GetTableByName("t"))
	assert.NotNil(t, c.GetTableByName("u"))

	c.Clear()
	assert.Empty(t, c.TableIDs())
}

func TestLoadSchema(t *testing.T) {
	dir, err := os.MkdirTemp("", "catalog")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	catalogFile := filepath.Join(dir, "catalog.txt")
	content := "# two tables\nusers (id int pk, name string)\n\nscores (user int, score INT)\n"
	require.NoError(t, os.WriteFile(catalogFile, []byte(content), 0644))

	opened := make([]string, 0)
	c := NewCatalog()
	err = c.LoadSchema(catalogFile, 16, func(path string, schema_ *schema.Schema) (*access.HeapFile, error) {
		opened = append(opened, path)
		return openVirtual(path, schema_)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "users.dat"), filepath.Join(dir, "scores.dat")}, opened)

	users := c.GetTableByName("users")
	require.NotNil(t, users)
	assert.Equal(t, "id", users.PrimaryKey())
	assert.Equal(t, uint32(2), users.Schema().GetColumnCount())
	assert.Equal(t, uint32(4+4+16), users.Schema().Length())

	scores := c.GetTableByName("scores")
	require.NotNil(t, scores)
	assert.Equal(t, "", scores.PrimaryKey())
	assert.Equal(t, types.Integer, scores.Schema().GetColumn(1).GetType())
}

func TestLoadSchemaErrors(t *testing.T) {
	dir, err := os.MkdirTemp("", "catalog")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	for _, line := range []string{"t id int", "t (id float)", "t (id int key)", "(id int)", "t (id)"} {
		catalogFile := filepath.Join(dir, "catalog.txt")
		require.NoError(t, os.WriteFile(catalogFile, []byte(line+"\n"), 0644))
		err := NewCatalog().LoadSchema(catalogFile, 16, openVirtual)
		assert.True(t, pkgerrors.Is(err, ErrBadSchemaLine), line)
	}

	err = NewCatalog().LoadSchema(filepath.Join(dir, "missing.txt"), 16, openVirtual)
	assert.Error(t, err)
}
