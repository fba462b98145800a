// Command evict triggers proactive eviction on a running cluster: it tells
// every daemon holding buffers for a database entity to drop them, so a
// dropped or altered entity does not linger in caches until it ages out.
//
// Examples:
//
//	evict -instances host1:50051,host2:50051 -db sales
//	evict -instances host1:50051 -db sales -table orders
//	evict -instances host1:50051 -db sales -table events -partition ds=2026-08-01,region=eu
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"boundary-cache-service/internal/eviction"
	"boundary-cache-service/internal/registry"

	"github.com/hashicorp/go-hclog"
)

func main() {
	var (
		instancesArg = flag.String("instances", "", "Comma-separated gRPC addresses of daemon instances")
		db           = flag.String("db", "", "Database to evict")
		table        = flag.String("table", "", "Table to evict (optional, requires -db)")
		partitionArg = flag.String("partition", "", "Partition spec as col=val[,col=val...] (optional, requires -table)")
		timeout      = flag.Duration("timeout", 10*time.Second, "Per-instance delivery timeout")
	)
	flag.Parse()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "evict",
		Level: hclog.Info,
	})

	if *instancesArg == "" || *db == "" {
		fmt.Fprintln(os.Stderr, "usage: evict -instances addr[,addr...] -db name [-table name [-partition col=val,...]]")
		os.Exit(2)
	}

	cluster := registry.New()
	for _, addr := range strings.Split(*instancesArg, ",") {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		cluster.Register(registry.Instance{ID: addr, RPCAddr: addr})
	}

	req, err := buildRequest(*db, *table, *partitionArg)
	if err != nil {
		logger.Error("invalid request", "error", err)
		os.Exit(2)
	}

	r := eviction.NewRequester(logger, cluster, eviction.WithTimeout(*timeout))
	if err := r.Evict(req); err != nil {
		logger.Error("failed to queue eviction request", "error", err)
		os.Exit(1)
	}
	// Close waits for delivery to finish.
	r.Close()
}

func buildRequest(db, table, partitionArg string) (*eviction.Request, error) {
	b := eviction.NewBuilder()
	switch {
	case table == "" && partitionArg != "":
		return nil, fmt.Errorf("-partition requires -table")
	case table == "":
		b.AddDB(db)
	case partitionArg == "":
		b.AddTable(db, table)
	default:
		spec, err := parseSpec(partitionArg)
		if err != nil {
			return nil, err
		}
		b.AddPartition(db, table, spec)
	}
	return b.Build(), nil
}

func parseSpec(arg string) (map[string]string, error) {
	spec := make(map[string]string)
	for _, pair := range strings.Split(arg, ",") {
		col, val, ok := strings.Cut(pair, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("malformed partition spec element %q", pair)
		}
		spec[col] = val
	}
	return spec, nil
}
