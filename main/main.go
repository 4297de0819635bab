package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/execution/executors"
	"github.com/heapstore/heapstore/heapstore"
	"github.com/heapstore/heapstore/storage/table/column"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/types"
)

// heapstore can be used as an embedded DB form only.
// this entry point inserts some rows into a one column table and scans them back.
func main() {
	configPath := flag.String("config", "", "TOML config file")
	rows := flag.Int("rows", 1000, "number of rows to insert")
	flag.Parse()

	cfg := common.DefaultConfig()
	if *configPath != "" {
		loaded, err := common.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := common.ApplyConfig(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	hs := heapstore.NewHeapStore(cfg)
	defer hs.Finalize(false)

	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("a", types.Integer)})
	if _, err := hs.CreateTable("demo", schema_, ""); err != nil {
		common.ShPrintf(common.ERROR, "create table: %v\n", err)
		os.Exit(1)
	}

	values := make([][]types.Value, 0, *rows)
	for i := 0; i < *rows; i++ {
		values = append(values, []types.Value{types.NewInteger(int32(i))})
	}
	inserted, err := hs.Insert("demo", values)
	if err != nil {
		common.ShPrintf(common.ERROR, "insert: %v\n", err)
		os.Exit(1)
	}
	common.ShPrintf(common.INFO, "inserted %d rows\n", inserted)

	count, err := hs.Aggregate("demo", "a", "", executors.COUNT_AGGREGATE)
	if err != nil {
		common.ShPrintf(common.ERROR, "scan: %v\n", err)
		os.Exit(1)
	}
	heapstore.PrintExecuteResults(count)
}
