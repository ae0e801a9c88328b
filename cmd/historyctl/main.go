// In file: cmd/historyctl/main.go

// Package main implements the offline history-maintenance tool for the
// calc gateway. It talks directly to the Redis-backed ledger, so operators
// can inspect, count, undo, or wipe an owner's calculation history without
// going through the HTTP surface.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"calc-gateway/internal/history"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const defaultRedisAddr = "localhost:6379"

func main() {
	log.SetFlags(0)

	ownerFlag := flag.String("owner", "", "owner identifier (session/user key) to operate on")
	redisFlag := flag.String("redis", "", "redis address (defaults to REDIS_ADDR, then "+defaultRedisAddr+")")
	flag.Usage = usage
	flag.Parse()

	action := flag.Arg(0)
	if action == "" || *ownerFlag == "" {
		usage()
		os.Exit(2)
	}

	// Same .env convention as the gateway, so both binaries read one file.
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: No .env file found, relying on system environment variables.")
	}

	addr := *redisFlag
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	if addr == "" {
		addr = defaultRedisAddr
	}

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("❌ Could not connect to Redis at %s: %v", addr, err)
	}
	ledger := history.NewRedisLedger(rdb)

	if err := run(ctx, ledger, action, *ownerFlag); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run(ctx context.Context, ledger *history.RedisLedger, action, owner string) error {
	switch action {
	case "dump":
		records, err := ledger.List(ctx, owner, 0, 0)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		for i := range records {
			if err := enc.Encode(&records[i]); err != nil {
				return err
			}
		}
		return nil

	case "count":
		records, err := ledger.List(ctx, owner, 0, 0)
		if err != nil {
			return err
		}
		fmt.Println(len(records))
		return nil

	case "undo":
		record, err := ledger.Undo(ctx, owner)
		if errors.Is(err, history.ErrUndoEmpty) {
			fmt.Printf("Nothing to undo for %s.\n", owner)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Removed %s(%g, %g) = %g [%s]\n", record.Operation, record.OperandA, record.OperandB, record.Result, record.ID)
		return nil

	case "clear":
		removed, err := ledger.Clear(ctx, owner)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d record(s) for %s.\n", removed, owner)
		return nil

	default:
		return fmt.Errorf("unknown action %q (want dump, count, undo, or clear)", action)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: historyctl -owner OWNER [-redis ADDR] ACTION

Actions:
  dump    print the owner's history as JSON lines, oldest first
  count   print the number of records in the owner's history
  undo    remove and print the owner's most recent record
  clear   remove all of the owner's records
`)
}
