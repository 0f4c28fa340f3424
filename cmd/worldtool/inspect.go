package main

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/exp/maps"

	"hearthwild.dev/internal/sim/world"
	"hearthwild.dev/internal/sim/world/terrain/gen"
)

// chunkDigest hashes tiles, objects in key order, containers and wildlife so
// two generations of the same chunk can be compared.
func chunkDigest(c *gen.Chunk) string {
	h := sha256.New()
	var buf [8]byte
	for _, t := range c.Tiles {
		h.Write([]byte{byte(t)})
	}
	keys := maps.Keys(c.Objects)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		binary.LittleEndian.PutUint16(buf[:2], uint16(k))
		h.Write(buf[:2])
		h.Write([]byte{byte(c.Objects[k])})
	}
	ckeys := maps.Keys(c.Containers)
	sort.Slice(ckeys, func(i, j int) bool { return ckeys[i] < ckeys[j] })
	for _, k := range ckeys {
		binary.LittleEndian.PutUint16(buf[:2], uint16(k))
		h.Write(buf[:2])
		for _, st := range c.Containers[k] {
			if st == nil {
				h.Write([]byte{0})
				continue
			}
			dur := -1
			if st.Durability != nil {
				dur = *st.Durability
			}
			fmt.Fprintf(h, "%s:%d:%d;", st.Type, st.Count, dur)
		}
	}
	for _, e := range c.Entities {
		fmt.Fprintf(h, "%s|%s|%.6f|%.6f;", e.ID, e.Kind, e.X, e.Y)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func eventsCmd(args []string) {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	slot := fs.Int("slot", 0, "slot id")
	dir := fs.String("dir", "", "events dir (default: <data>/slots/<slot>/events)")
	typ := fs.String("type", "", "print events of this type instead of counts")
	_ = fs.Parse(args)

	d := *dir
	if d == "" {
		d = filepath.Join(*dataDir, "slots", strconv.Itoa(*slot), "events")
	}
	files, err := listEventFiles(d)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no events files found in", d)
		os.Exit(1)
	}

	counts := map[string]int{}
	for _, path := range files {
		err := readEvents(path, func(e world.Event) {
			counts[e.Type]++
			if *typ != "" && e.Type == *typ {
				fmt.Printf("t=%.2f\t%s\t%s\n", e.SimTime, e.Type, e.Message)
			}
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
	}
	if *typ != "" {
		return
	}
	types := maps.Keys(counts)
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("%s\t%d\n", t, counts[t])
	}
}

func listEventFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "events-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func readEvents(path string, fn func(world.Event)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var e world.Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		fn(e)
	}
	return sc.Err()
}
