package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"hearthwild.dev/internal/persistence/indexdb"
	"hearthwild.dev/internal/persistence/slots"
	"hearthwild.dev/internal/persistence/snapshot"
	"hearthwild.dev/internal/sim/world/kernel/model"
	"hearthwild.dev/internal/sim/world/terrain/gen"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "export":
			exportCmd(os.Args[2:])
			return
		case "header":
			headerCmd(os.Args[2:])
			return
		case "events":
			eventsCmd(os.Args[2:])
			return
		case "saves":
			savesCmd(os.Args[2:])
			return
		case "chunk":
			chunkCmd(os.Args[2:])
			return
		case "slots":
			os.Args = append(os.Args[:1], os.Args[2:]...)
		}
	}
	listCmd(os.Args[1:])
}

func openStore(dataDir string) *slots.Store {
	s, err := slots.Open(filepath.Join(dataDir, "slots.db"), snapshot.DefaultDefaults())
	if err != nil {
		fmt.Fprintln(os.Stderr, "open slots:", err)
		os.Exit(1)
	}
	return s
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("slots", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	_ = fs.Parse(args)

	store := openStore(*dataDir)
	defer store.Close()
	list, err := store.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, "list:", err)
		os.Exit(1)
	}
	for _, s := range list {
		if s.Empty {
			fmt.Printf("%d\t(empty)\n", s.ID)
			continue
		}
		played := time.UnixMilli(s.Meta.LastPlayed).Format(time.RFC3339)
		fmt.Printf("%d\t%s\t%s\n", s.ID, s.Meta.Name, played)
	}
}

func exportCmd(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	slot := fs.Int("slot", 0, "slot id")
	out := fs.String("out", "", "output .snap.zst path (default: slot-<id>.snap.zst)")
	_ = fs.Parse(args)

	store := openStore(*dataDir)
	defer store.Close()
	sv, warnings, err := store.Load(*slot)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load:", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	path := *out
	if path == "" {
		path = "slot-" + strconv.Itoa(*slot) + ".snap.zst"
	}
	if err := snapshot.Write(path, sv); err != nil {
		fmt.Fprintln(os.Stderr, "write:", err)
		os.Exit(1)
	}
	fmt.Printf("exported slot %d (%s) chunks=%d to %s\n", *slot, sv.Meta.Name, len(sv.World.Chunks), path)
}

func headerCmd(args []string) {
	fs := flag.NewFlagSet("header", flag.ExitOnError)
	path := fs.String("file", "", "path to .snap.zst")
	full := fs.Bool("full", false, "decode the whole snapshot and print counts")
	_ = fs.Parse(args)

	if *path == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		os.Exit(2)
	}
	if !*full {
		raw, err := os.ReadFile(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
		h, err := snapshot.ReadHeader(raw)
		if err != nil {
			fmt.Fprintln(os.Stderr, "header:", err)
			os.Exit(1)
		}
		_ = json.NewEncoder(os.Stdout).Encode(h)
		return
	}
	sv, warnings, err := snapshot.Read(*path, snapshot.DefaultDefaults())
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	entities := 0
	for _, c := range sv.World.Chunks {
		entities += len(c.Entities)
	}
	fmt.Printf("snapshot v%d save=%s slot=%d sim_time=%.1f chunks=%d entities=%d saplings=%d warnings=%d\n",
		sv.Header.Version, sv.Header.SaveID, sv.Header.Slot, sv.World.SimTime,
		len(sv.World.Chunks), entities, len(sv.World.Saplings), len(warnings))
}

func savesCmd(args []string) {
	fs := flag.NewFlagSet("saves", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	slot := fs.Int("slot", -1, "slot id (-1: all)")
	limit := fs.Int("limit", 20, "max rows")
	_ = fs.Parse(args)

	idx, err := indexdb.OpenSQLite(filepath.Join(*dataDir, "index", "hearthwild.sqlite"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open index:", err)
		os.Exit(1)
	}
	defer idx.Close()
	rows, err := idx.RecentSaves(context.Background(), *slot, *limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
	for _, r := range rows {
		fmt.Printf("%d\t%s\t%s\tt=%.1f\tchunks=%d\tentities=%d\tdrops=%d\n",
			r.Slot, r.SaveID, r.Name, r.SimTime, r.Chunks, r.Entities, r.Drops)
	}
}

func chunkCmd(args []string) {
	fs := flag.NewFlagSet("chunk", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	fromSlot := fs.Int("from_slot", -1, "take the seed config from this slot")
	seed := fs.Float64("seed", 0, "seed (when -from_slot is unset)")
	seedY := fs.Float64("seed_y", 0, "seedY (when -from_slot is unset)")
	cx := fs.Int("cx", 0, "chunk x")
	cy := fs.Int("cy", 0, "chunk y")
	size := fs.Int("chunk_size", 32, "chunk size in tiles")
	runs := fs.Int("runs", 2, "generate this many times and compare digests")
	_ = fs.Parse(args)

	cfg := model.SeedConfig{Seed: *seed, SeedY: *seedY}
	if *fromSlot >= 0 {
		store := openStore(*dataDir)
		sv, _, err := store.Load(*fromSlot)
		_ = store.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, "load:", err)
			os.Exit(1)
		}
		cfg = sv.World.SeedConfig
	}
	p := gen.DefaultParams()
	p.ChunkSize = *size

	var first string
	for i := 0; i < *runs; i++ {
		d := chunkDigest(gen.GenerateChunk(cfg, *cx, *cy, p))
		if i == 0 {
			first = d
			continue
		}
		if d != first {
			fmt.Fprintf(os.Stderr, "nondeterministic chunk (%d,%d): %s != %s\n", *cx, *cy, d, first)
			os.Exit(1)
		}
	}
	fmt.Printf("chunk (%d,%d) digest=%s\n", *cx, *cy, first)
}
