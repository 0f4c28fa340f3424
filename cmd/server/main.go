package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	persistlog "hearthwild.dev/internal/persistence/log"
	"hearthwild.dev/internal/persistence/slots"
	"hearthwild.dev/internal/persistence/snapshot"
	"hearthwild.dev/internal/protocol"
	"hearthwild.dev/internal/sim/catalogs"
	"hearthwild.dev/internal/sim/tuning"
	"hearthwild.dev/internal/sim/world"
	"hearthwild.dev/internal/sim/world/terrain/gen"
	"hearthwild.dev/internal/transport/ws"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "http listen address")
		configDir   = flag.String("configs", "./configs", "config directory")
		dataDir     = flag.String("data", "./data", "runtime data directory")
		tuningPath  = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		slotID      = flag.Int("slot", 0, "save slot to play (0..2)")
		name        = flag.String("name", "", "world name when creating a slot")
		newWorld    = flag.Bool("new", false, "create a fresh world in the slot even if it holds a save")
		tickHz      = flag.Int("tick_hz", 0, "tick rate override (default: tuning tick_rate_hz)")
		autosaveSec = flag.Float64("autosave_sec", 0, "autosave interval override in seconds (default: tuning autosave_sec)")
		seed        = flag.Int64("seed", 0, "rng seed for new terrain and gameplay rolls (0: time based)")
		autoRespawn = flag.Bool("auto_respawn", false, "respawn on the tick after death")
		disableDB   = flag.Bool("disable_db", false, "disable the sqlite save/event index")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Printf("tuning: %s not found, using defaults", tp)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	store, err := slots.Open(filepath.Join(*dataDir, "slots.db"), slotDefaults(tune))
	if err != nil {
		logger.Fatalf("open slots: %v", err)
	}
	defer store.Close()

	sim, meta, err := openWorld(store, worldOptions{
		Slot:     *slotID,
		Name:     *name,
		Fresh:    *newWorld,
		RandSeed: *seed,
		Tuning:   tune,
		Catalogs: cats,
	}, logger)
	if err != nil {
		logger.Fatalf("open world: %v", err)
	}
	logger.Printf("slot %d %q loaded (sim_time=%.1fs)", meta.ID, meta.Name, sim.SimTime())

	idx, err := openIndex(*dataDir, *disableDB)
	if err != nil {
		logger.Printf("index disabled: %v", err)
		idx = nil
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertCatalogs(*configDir, cats, tune); err != nil {
			logger.Printf("index catalogs: %v", err)
		}
	}

	eventLog := persistlog.NewEventLogger(filepath.Join(*dataDir, "slots", strconv.Itoa(meta.ID)))
	defer eventLog.Close()

	rt := world.NewRuntime(sim, world.RuntimeConfig{
		TickRateHz:  *tickHz,
		AutosaveSec: *autosaveSec,
		AutoRespawn: *autoRespawn,
		Meta:        meta,
	}, logger)
	rt.SetEventLogger(&eventSink{slot: meta.ID, log: eventLog, idx: idx})

	saves := make(chan snapshot.SaveV1, 2)
	rt.SetSaveSink(saves)
	saver := newSaveWriter(store, idx, logger)
	var saverWG sync.WaitGroup
	saverWG.Add(1)
	go func() {
		defer saverWG.Done()
		saver.run(saves)
	}()

	settings, err := store.LoadSettings()
	if err != nil {
		logger.Printf("load settings: %v", err)
	}
	srv, err := ws.NewServer(rt, ws.Config{
		Welcome:  welcomeTemplate(tune, cats, sim, meta, *tickHz),
		Settings: store,
	}, logger)
	if err != nil {
		logger.Fatalf("ws server: %v", err)
	}
	logger.Printf("settings: gui_scale=%.2f camera_zoom=%.2f", settings.GUIScale, settings.CameraZoom)

	ctx, cancel := signalContext()
	defer cancel()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = rt.Run(ctx)
		// Run has sent its shutdown save; no more writes follow.
		close(saves)
	}()
	go func() { _ = srv.Run(ctx) }()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", metricsHandler(saver, eventLog, idx))
	mux.HandleFunc("/v1/slots", func(rw http.ResponseWriter, r *http.Request) {
		list, err := store.List()
		if err != nil {
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(list)
	})
	mux.HandleFunc("/admin/v1/save", func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		if r.Method != http.MethodPost {
			rw.Header().Set("Allow", http.MethodPost)
			http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := requestSave(r.Context(), rt); err != nil {
			http.Error(rw, err.Error(), http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(map[string]any{"ok": true, "slot": meta.ID})
	})
	if os.Getenv("HW_ENABLE_PPROF") == "1" {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	mux.HandleFunc("/v1/ws", srv.Handler())

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, c := context.WithTimeout(context.Background(), 5*time.Second)
		defer c()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Printf("listening on %s (slot=%d tick_hz=%d)", *addr, meta.ID, effectiveTickRate(tune, *tickHz))
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Printf("http: %v", err)
		cancel()
	}
	<-runDone
	saverWG.Wait()
	logger.Printf("stopped")
}

func slotDefaults(t tuning.Tuning) snapshot.Defaults {
	return snapshot.Defaults{
		InventorySize: t.InventorySize,
		MaxHealth:     t.MaxHealth,
		MaxStamina:    t.MaxStamina,
	}
}

type worldOptions struct {
	Slot     int
	Name     string
	Fresh    bool
	RandSeed int64
	Tuning   tuning.Tuning
	Catalogs *catalogs.Catalogs
}

// openWorld loads the slot's save, creating a fresh world when the slot is
// empty or Fresh is set. New worlds go through Import like loaded ones.
func openWorld(store *slots.Store, o worldOptions, logger *log.Logger) (*world.Sim, snapshot.Meta, error) {
	sv, warnings, err := store.Load(o.Slot)
	switch {
	case err == nil && !o.Fresh:
	case err == nil || errors.Is(err, slots.ErrEmptySlot):
		seedCfg := gen.RandomSeedConfig(rand.New(rand.NewSource(o.RandSeed)))
		sv, err = store.Create(o.Slot, o.Name, seedCfg)
		if err != nil {
			return nil, snapshot.Meta{}, fmt.Errorf("create slot %d: %w", o.Slot, err)
		}
		warnings = nil
		logger.Printf("slot %d: created %q (seed=%.4f)", o.Slot, sv.Meta.Name, seedCfg.Seed)
	default:
		return nil, snapshot.Meta{}, err
	}
	for _, w := range warnings {
		logger.Printf("slot %d: %s", o.Slot, w)
	}

	sim, importWarnings := world.Import(world.Config{
		Tuning:   o.Tuning,
		Catalogs: o.Catalogs,
		RandSeed: o.RandSeed,
	}, sv)
	for _, w := range importWarnings {
		logger.Printf("slot %d import: %s", o.Slot, w)
	}
	return sim, sv.Meta, nil
}

func effectiveTickRate(t tuning.Tuning, override int) int {
	if override > 0 {
		return override
	}
	return t.TickRateHz
}

func welcomeTemplate(t tuning.Tuning, cats *catalogs.Catalogs, sim *world.Sim, meta snapshot.Meta, tickHz int) protocol.WelcomeMsg {
	return protocol.WelcomeMsg{
		WorldParams: protocol.WorldParams{
			TickRateHz:    effectiveTickRate(t, tickHz),
			ChunkSize:     t.ChunkSize,
			TileSize:      t.TileSize,
			InventorySize: t.InventorySize,
			ChestSize:     t.ContainerSize,
			BackpackSize:  t.BackpackSize,
			Seed:          sim.Store().Seed.Seed,
		},
		Catalogs: protocol.CatalogDigests{
			ItemPalette:   protocol.DigestRef{Digest: cats.Items.PaletteDigest, Count: len(cats.Items.Palette)},
			ItemsDigest:   cats.Items.DefsDigest,
			RecipesDigest: cats.Recipes.Digest,
			TilesDigest:   cats.Tiles.Digest,
		},
		Slot: meta,
	}
}

// requestSave queues a SAVE command and waits for the loop to accept it.
func requestSave(ctx context.Context, rt *world.Runtime) error {
	c := world.Command{Op: world.OpSave, Reply: make(chan error, 1)}
	select {
	case rt.Commands() <- c:
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("command queue full")
	}
	select {
	case err := <-c.Reply:
		return err
	case <-time.After(2 * time.Second):
		return fmt.Errorf("save timed out")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
