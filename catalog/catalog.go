package catalog

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/storage/access"
	"github.com/heapstore/heapstore/storage/table/column"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/types"
)

const ErrNoSuchTable = errors.Error("no such table")
const ErrBadSchemaLine = errors.Error("malformed catalog line")

// OpenFunc opens (or creates) the heap file at path for a table of schema_.
type OpenFunc func(path string, schema_ *schema.Schema) (*access.HeapFile, error)

// Catalog maps table ids and names to heap files. It is not persistent:
// LoadSchema rebuilds it from a text description on startup.
type Catalog struct {
	tables map[types.TableID]*TableMetadata
	names  map[string]types.TableID
	latch  common.ReaderWriterLatch
}

func NewCatalog() *Catalog {
	return &Catalog{make(map[types.TableID]*TableMetadata), make(map[string]types.TableID), common.NewRWLatch()}
}

// AddTable registers file under name. A table already registered under the
// same name or the same id is replaced.
func (c *Catalog) AddTable(file *access.HeapFile, name string, pkeyField string) {
	c.latch.WLock()
	defer c.latch.WUnlock()

	oid := file.GetID()
	if old, ok := c.names[name]; ok {
		delete(c.tables, old)
	}
	if old, ok := c.tables[oid]; ok {
		delete(c.names, old.name)
	}
	c.tables[oid] = &TableMetadata{file.GetTupleDesc(), name, file, pkeyField, oid}
	c.names[name] = oid
	common.ShPrintf(common.DEBUG_INFO, "Catalog::AddTable %s id=%d path=%s\n", name, oid, file.GetDiskManager().Path())
}

func (c *Catalog) GetTableByName(name string) *TableMetadata {
	c.latch.RLock()
	defer c.latch.RUnlock()
	if oid, ok := c.names[name]; ok {
		return c.tables[oid]
	}
	return nil
}

func (c *Catalog) GetTableByOID(oid types.TableID) *TableMetadata {
	c.latch.RLock()
	defer c.latch.RUnlock()
	return c.tables[oid]
}

func (c *Catalog) getTable(oid types.TableID) (*TableMetadata, error) {
	if table := c.GetTableByOID(oid); table != nil {
		return table, nil
	}
	return nil, pkgerrors.Wrapf(ErrNoSuchTable, "id %d", oid)
}

func (c *Catalog) GetTableID(name string) (types.TableID, error) {
	if table := c.GetTableByName(name); table != nil {
		return table.OID(), nil
	}
	return 0, pkgerrors.Wrapf(ErrNoSuchTable, "name %q", name)
}

func (c *Catalog) GetDatabaseFile(oid types.TableID) (*access.HeapFile, error) {
	table, err := c.getTable(oid)
	if err != nil {
		return nil, err
	}
	return table.Table(), nil
}

func (c *Catalog) GetTupleDesc(oid types.TableID) (*schema.Schema, error) {
	table, err := c.getTable(oid)
	if err != nil {
		return nil, err
	}
	return table.Schema(), nil
}

func (c *Catalog) GetTableName(oid types.TableID) (string, error) {
	table, err := c.getTable(oid)
	if err != nil {
		return "", err
	}
	return table.Name(), nil
}

func (c *Catalog) GetPrimaryKey(oid types.TableID) (string, error) {
	table, err := c.getTable(oid)
	if err != nil {
		return "", err
	}
	return table.PrimaryKey(), nil
}

// TableIDs lists every registered table id in ascending order.
func (c *Catalog) TableIDs() []types.TableID {
	c.latch.RLock()
	defer c.latch.RUnlock()
	ret := make([]types.TableID, 0, len(c.tables))
	for oid := range c.tables {
		ret = append(ret, oid)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

func (c *Catalog) Clear() {
	c.latch.WLock()
	defer c.latch.WUnlock()
	c.tables = make(map[types.TableID]*TableMetadata)
	c.names = make(map[string]types.TableID)
}

// LoadSchema reads table definitions, one per line:
//
//	name (field type [pk], field type, ...)
//
// where type is int or string. The data of table name is the file name.dat
// next to catalogFile.
func (c *Catalog) LoadSchema(catalogFile string, stringMaxLen uint32, open OpenFunc) error {
	f, err := os.Open(catalogFile)
	if err != nil {
		return pkgerrors.Wrapf(err, "open catalog %s", catalogFile)
	}
	defer f.Close()

	baseDir := filepath.Dir(catalogFile)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, schema_, pkey, err := parseSchemaLine(line, stringMaxLen)
		if err != nil {
			return pkgerrors.Wrapf(err, "%s:%d", catalogFile, lineNo)
		}
		file, err := open(filepath.Join(baseDir, name+".dat"), schema_)
		if err != nil {
			return pkgerrors.Wrapf(err, "open table %s", name)
		}
		c.AddTable(file, name, pkey)
		common.ShPrintf(common.INFO, "Added table : %s with schema %v\n", name, schema_)
	}
	return pkgerrors.Wrapf(scanner.Err(), "read catalog %s", catalogFile)
}

func parseSchemaLine(line string, stringMaxLen uint32) (string, *schema.Schema, string, error) {
	open := strings.Index(line, "(")
	close_ := strings.LastIndex(line, ")")
	if open <= 0 || close_ < open {
		return "", nil, "", pkgerrors.Wrapf(ErrBadSchemaLine, "%q", line)
	}
	name := strings.TrimSpace(line[:open])

	columns := make([]*column.Column, 0)
	pkey := ""
	for _, field := range strings.Split(line[open+1:close_], ",") {
		words := strings.Fields(field)
		if len(words) < 2 || len(words) > 3 {
			return "", nil, "", pkgerrors.Wrapf(ErrBadSchemaLine, "field %q", strings.TrimSpace(field))
		}
		var col *column.Column
		switch types.TypeIDFromString(strings.ToLower(words[1])) {
		case types.Integer:
			col = column.NewColumn(words[0], types.Integer)
		case types.Varchar:
			col = column.NewVarcharColumn(words[0], stringMaxLen)
		default:
			return "", nil, "", pkgerrors.Wrapf(ErrBadSchemaLine, "unknown type %q", words[1])
		}
		if len(words) == 3 {
			if words[2] != "pk" {
				return "", nil, "", pkgerrors.Wrapf(ErrBadSchemaLine, "unknown annotation %q", words[2])
			}
			pkey = words[0]
		}
		columns = append(columns, col)
	}
	return name, schema.NewSchema(columns), pkey, nil
}
