package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net"
	"os"
	"runtime"
	"runtime/pprof"

	"google.golang.org/grpc"

	"github.com/arjunmehta/hybridpgm/internal/codec"
	"github.com/arjunmehta/hybridpgm/internal/hybrid"
	"github.com/arjunmehta/hybridpgm/internal/interceptors"
	"github.com/arjunmehta/hybridpgm/internal/rpcapi"
)

var (
	port         = flag.Int("port", 5000, "The port to listen on")
	thresholdPct = flag.Int("threshold_pct", 5, "base drain threshold as a percentage of the initial data size")
	adaptive     = flag.Bool("adaptive", true, "use ADAPTIVE threshold mode instead of FIXED")
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile   = flag.String("memprofile", "", "write memory profile to `file`")
)

// index wraps *hybrid.Orchestrator[int64] to satisfy rpcapi.Server.
type index struct {
	store *hybrid.Orchestrator[int64]
}

func (s *index) Lookup(_ context.Context, req *rpcapi.LookupRequest) (*rpcapi.LookupResponse, error) {
	v := s.store.Lookup(req.Key)
	return &rpcapi.LookupResponse{Value: v, Found: v != hybrid.NotFound}, nil
}

func (s *index) Insert(_ context.Context, req *rpcapi.InsertRequest) (*rpcapi.InsertResponse, error) {
	if err := s.store.Insert(req.Key, req.Value); err != nil {
		return nil, err
	}
	return &rpcapi.InsertResponse{Ok: true}, nil
}

func (s *index) RangeSum(_ context.Context, req *rpcapi.RangeSumRequest) (*rpcapi.RangeSumResponse, error) {
	return &rpcapi.RangeSumResponse{Sum: s.store.RangeSum(req.Lo, req.Hi)}, nil
}

func (s *index) Size(_ context.Context, _ *rpcapi.Empty) (*rpcapi.SizeResponse, error) {
	return &rpcapi.SizeResponse{Bytes: s.store.Size()}, nil
}

func (s *index) Variants(_ context.Context, _ *rpcapi.Empty) (*rpcapi.VariantsResponse, error) {
	return &rpcapi.VariantsResponse{Variants: s.store.Variants()}, nil
}

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal("could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}

	if *port < 1024 {
		log.Fatalf("Port %d is restricted to root user only, try using another port", *port)
	}

	opts := hybrid.DefaultOpts()
	opts.ThresholdPct = *thresholdPct
	if *adaptive {
		opts.Mode = hybrid.ADAPTIVE
	} else {
		opts.Mode = hybrid.FIXED
	}

	store, buildTime := hybrid.Build[int64](nil, opts)
	slog.Info("server: index built", "elapsed", buildTime)
	defer store.Close()

	addr := &net.TCPAddr{IP: []byte{127, 0, 0, 1}, Port: *port}
	listener, err := net.ListenTCP("tcp", addr)
	if err != nil {
		panic(err)
	}
	defer listener.Close()

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptors.Logger),
		grpc.ForceServerCodec(codec.Codec{}),
	)
	defer s.Stop()

	rpcapi.RegisterServer(s, &index{store: store})

	slog.Info("server: listening", "addr", addr.String())
	if err := s.Serve(listener); err != nil {
		log.Fatalf("Failed to serve %v", err)
	}
}
