// Command addrspace-server wires config, auth, metrics, the browse API
// and the mutation core together into a long-running process, mirroring
// the teacher's cmd/*/main.go convention of a single wiring point that
// loads config, validates it, builds the storage engine, and starts
// whatever auxiliary listeners the config enables.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/uacore/addrspace/pkg/addrspace"
	"github.com/uacore/addrspace/pkg/audit"
	"github.com/uacore/addrspace/pkg/auth"
	"github.com/uacore/addrspace/pkg/browseapi"
	"github.com/uacore/addrspace/pkg/config"
	"github.com/uacore/addrspace/pkg/extnamespace"
	"github.com/uacore/addrspace/pkg/logging"
	"github.com/uacore/addrspace/pkg/metrics"
	"github.com/uacore/addrspace/pkg/validatecfg"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "addrspace-server:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file; uses built-in defaults when empty")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := validatecfg.Validate(cfg); err != nil {
		return err
	}

	log := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Server.LogLevel)).
		With(logging.Component("addrspace-server"))

	reg := prometheus.NewRegistry()
	metricsReg := metrics.NewRegistry(reg)

	store := addrspace.NewStore(cfg.Namespaces.Count)

	opts := []addrspace.Option{
		addrspace.WithLogger(log),
		addrspace.WithMetrics(metricsReg),
	}

	var bridges []*extnamespace.Bridge
	for _, ext := range cfg.ExternalNamespaces {
		bridge, err := extnamespace.Dial(ext.DialAddr, 5*time.Second)
		if err != nil {
			return fmt.Errorf("dial external namespace %d: %w", ext.NamespaceIndex, err)
		}
		bridges = append(bridges, bridge)
		opts = append(opts, addrspace.WithExternalNamespace(ext.NamespaceIndex, bridge.ExternalNamespace()))
	}
	defer func() {
		for _, b := range bridges {
			b.Close()
		}
	}()

	as := addrspace.New(store, cfg.Namespaces.Count, opts...)

	var authMgr *auth.Manager
	if cfg.Auth.Enabled {
		mgr, err := auth.NewManager(cfg.Auth.SigningSecret, cfg.Auth.Issuer, time.Hour)
		if err != nil {
			return err
		}
		authMgr = mgr
	}

	var auditLog *audit.Log
	if cfg.Audit.Enabled {
		ctx := context.Background()
		l, err := audit.Open(ctx, cfg.Audit.DatabaseURL)
		if err != nil {
			return err
		}
		if err := l.CreateTable(ctx); err != nil {
			return err
		}
		auditLog = l
		defer l.Close()
	}
	_ = authMgr
	_ = auditLog

	browser, err := browseapi.NewServer(as)
	if err != nil {
		return fmt.Errorf("build browse API: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		result := browser.Query(query)
		w.Header().Set("Content-Type", "application/json")
		if err := writeJSON(w, result); err != nil {
			log.Error("write graphql response", logging.Error(err))
		}
	})
	if cfg.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	log.Info("addrspace-server listening", logging.String("addr", cfg.Server.ListenAddr))
	return http.ListenAndServe(cfg.Server.ListenAddr, mux)
}

func writeJSON(w http.ResponseWriter, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}
