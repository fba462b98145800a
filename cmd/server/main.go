package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"boundary-cache-service/internal/buffer"
	"boundary-cache-service/internal/buffer/policy"
	"boundary-cache-service/internal/consensus"
	"boundary-cache-service/internal/core/service"
	grpcadapter "boundary-cache-service/internal/grpc"
	"boundary-cache-service/internal/registry"
	pb "boundary-cache-service/proto"

	_ "net/http/pprof" // Register pprof handlers

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

func main() {
	var (
		nodeID    = flag.String("node_id", "node1", "Node ID")
		httpAddr  = flag.String("http_addr", ":8080", "HTTP server address (join, health, metrics)")
		grpcAddr  = flag.String("grpc_addr", ":50051", "gRPC server address (eviction RPC)")
		raftAddr  = flag.String("raft_addr", ":11000", "Raft communication address")
		raftDir   = flag.String("raft_dir", "raft_data", "Raft data directory")
		bootstrap = flag.Bool("bootstrap", false, "Bootstrap the cluster (only for the first node)")
		joinAddr  = flag.String("join", "", "HTTP address of a cluster member to join through")
		capacity  = flag.Int("buffer_capacity", 4096, "Max resident buffers, 0 for unbounded")
		policyArg = flag.String("eviction_policy", "fifo", "Capacity eviction policy: fifo, lru, lfu, random")
		cleanup   = flag.Duration("cleanup_interval", time.Minute, "Expired-buffer sweep interval")
	)
	flag.Parse()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "boundary-cache",
		Level: hclog.Info,
	})

	if err := os.MkdirAll(*raftDir, 0700); err != nil {
		logger.Error("failed to create raft directory", "dir", *raftDir, "error", err)
		os.Exit(1)
	}

	evictionPolicy, err := policyByName(*policyArg)
	if err != nil {
		logger.Error("invalid eviction policy", "error", err)
		os.Exit(1)
	}

	buffers := buffer.New(buffer.WithCapacity(*capacity), buffer.WithPolicy(evictionPolicy))
	buffers.StartCleanup(*cleanup)

	instances := registry.New()
	fsm := consensus.NewFSM(instances)

	raftSys, err := consensus.SetupRaft(*raftDir, *nodeID, *raftAddr, fsm, logger)
	if err != nil {
		logger.Error("failed to setup raft", "error", err)
		os.Exit(1)
	}
	raftNode := &consensus.RaftNode{Raft: raftSys}

	svc := service.New(buffers, raftNode, logger)

	if *bootstrap {
		cfg := raft.Configuration{
			Servers: []raft.Server{
				{
					ID:      raft.ServerID(*nodeID),
					Address: raft.ServerAddress(*raftAddr),
				},
			},
		}
		if err := raftSys.BootstrapCluster(cfg).Error(); err != nil {
			logger.Warn("failed to bootstrap cluster", "error", err)
		}
	} else if *joinAddr != "" {
		if err := joinCluster(*nodeID, *raftAddr, *grpcAddr, *joinAddr); err != nil {
			logger.Error("failed to join cluster", "error", err)
			os.Exit(1)
		}
	}

	// gRPC surface: the eviction RPC with the hand-maintained codec.
	lis, err := net.Listen("tcp", *grpcAddr)
	if err != nil {
		logger.Error("failed to listen", "addr", *grpcAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.ForceServerCodec(pb.Codec{}))
	pb.RegisterEvictionServiceServer(grpcServer, grpcadapter.New(svc))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc server stopped", "error", err)
			os.Exit(1)
		}
	}()

	// HTTP surface: cluster join, health, metrics.
	http.HandleFunc("/join", func(w http.ResponseWriter, r *http.Request) {
		nodeID := r.URL.Query().Get("node_id")
		remoteRaft := r.URL.Query().Get("raft_addr")
		remoteRPC := r.URL.Query().Get("rpc_addr")

		if nodeID == "" || remoteRaft == "" || remoteRPC == "" {
			http.Error(w, "missing node_id, raft_addr or rpc_addr", http.StatusBadRequest)
			return
		}

		if err := svc.Join(r.Context(), nodeID, remoteRaft, remoteRPC); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Write([]byte("joined"))
	})

	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	http.Handle("/metrics", promhttp.Handler())

	logger.Info("server listening",
		"http", *httpAddr, "grpc", *grpcAddr, "raft", *raftAddr)
	if err := http.ListenAndServe(*httpAddr, nil); err != nil {
		logger.Error("http server stopped", "error", err)
		os.Exit(1)
	}
}

func policyByName(name string) (policy.Policy[string], error) {
	switch name {
	case "fifo":
		return policy.NewFIFO[string](), nil
	case "lru":
		return policy.NewLRU[string](), nil
	case "lfu":
		return policy.NewLFU[string](), nil
	case "random":
		return policy.NewRandom[string](), nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}

func joinCluster(nodeID, raftAddr, rpcAddr, joinAddr string) error {
	url := fmt.Sprintf("http://%s/join?node_id=%s&raft_addr=%s&rpc_addr=%s",
		joinAddr, nodeID, raftAddr, rpcAddr)
	client := http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to join: %s", resp.Status)
	}
	return nil
}
