package main

import (
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/coraldb/coraldb/internal/catalog"
	"github.com/coraldb/coraldb/internal/config"
	"github.com/coraldb/coraldb/internal/index"
	"github.com/coraldb/coraldb/internal/logging"
	"github.com/coraldb/coraldb/internal/metrics"
	"github.com/coraldb/coraldb/internal/session"
	"github.com/coraldb/coraldb/internal/storage"
	"github.com/coraldb/coraldb/pkg/vector"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting coraldb")

	reg := metrics.New()
	go serveMetrics(cfg.MetricsAddr, reg, logger)

	wal, err := storage.OpenWAL(cfg.WALPath)
	if err != nil {
		logger.Fatal("open wal", zap.Error(err))
	}
	defer wal.Close()

	cat := catalog.New()
	table := cat.CreateTable("vectors", storage.Schema{
		Columns: []storage.Column{{Name: "embedding", Dim: 8}},
	}, wal)

	if _, err := cat.CreateIndex("vectors", "vectors_embedding_ivfflat", index.IvfFlat, vector.L2, "embedding", 8,
		index.Options{"lists": 16, "probe_lists": 4}); err != nil {
		logger.Fatal("create ivfflat index", zap.Error(err))
	}
	if _, err := cat.CreateIndex("vectors", "vectors_embedding_hnsw", index.Hnsw, vector.L2, "embedding", 8,
		index.Options{"m": 16, "ef_construction": 200, "ef_search": 64}); err != nil {
		logger.Fatal("create hnsw index", zap.Error(err))
	}

	logger.Info("replaying wal")
	restored := 0
	err = wal.Replay(func(rid storage.RID, t storage.Tuple) {
		table.Heap.InsertTuple(t)
		if vec, ok := asVector(t); ok {
			for _, idxInfo := range cat.GetTableIndexes("vectors") {
				if err := idxInfo.Index.Insert(vec, rid); err != nil {
					logger.Warn("replay insert into index failed", zap.String("index", idxInfo.Name), zap.Error(err))
				}
			}
		}
		restored++
	})
	if err != nil {
		logger.Fatal("wal replay", zap.Error(err))
	}
	logger.Info("wal replay complete", zap.Int("rows", restored))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}

	grpcServer := grpc.NewServer(grpc.ForceServerCodec(encoding.GetCodec("gob")))
	grpcServer.RegisterService(session.NewServiceDesc(&session.Server{
		Catalog: cat,
		Logger:  logger,
		Metrics: reg,
	}), nil)

	logger.Info("grpc server ready", zap.String("addr", cfg.GRPCAddr))
	if err := grpcServer.Serve(lis); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}

func asVector(t storage.Tuple) (vector.Vector, bool) {
	if len(t) == 0 {
		return nil, false
	}
	v, ok := t[0].(vector.Vector)
	return v, ok
}

func serveMetrics(addr string, reg *metrics.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{}))
	logger.Info("metrics server ready", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", zap.Error(err))
	}
}
