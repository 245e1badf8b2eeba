// Command admin inspects a server's data directory offline: the per-account
// files and the sqlite read model. It never talks to a running server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"frontier.rpg/internal/persistence/indexdb"
	"frontier.rpg/internal/sim/account"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "account":
			accountCmd(os.Args[2:])
			return
		case "db":
			dbCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	_ = fs.Parse(args)

	entries, err := os.ReadDir(filepath.Join(*dataDir, "accounts"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".json.zst") {
			fmt.Println(strings.TrimSuffix(name, ".json.zst"))
		}
	}
}

func accountCmd(args []string) {
	fs := flag.NewFlagSet("admin account", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: admin account [-data DIR] <participant-id>")
		os.Exit(2)
	}
	id := fs.Arg(0)

	f, err := os.Open(filepath.Join(*dataDir, "accounts", id+".json.zst"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "zstd:", err)
		os.Exit(1)
	}
	defer dec.Close()

	var a account.Account
	if err := json.NewDecoder(dec).Decode(&a); err != nil {
		fmt.Fprintln(os.Stderr, "decode:", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(a, "", "  ")
	fmt.Println(string(out))
}

func dbCmd(args []string) {
	fs := flag.NewFlagSet("admin db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	top := fs.Int("top", 0, "show only the top N daily earners")
	_ = fs.Parse(args)

	idx, err := indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open index:", err)
		os.Exit(1)
	}
	defer idx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var rows []indexdb.AccountSummary
	if *top > 0 {
		rows, err = idx.TopDailyEarners(ctx, *top)
	} else {
		rows, err = idx.ListAccounts(ctx)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}

	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = "-"
		}
		fmt.Printf("%s  %-16s lvl %-3d xp %-5d money %-8d points %-3d earned %d\n",
			r.ParticipantID, name, r.Level, r.Xp, r.Money, r.SkillPoints, r.DailyEarnings)
	}
}
