// Command eratsieve is the CLI front end: it wires primeapi, resultstore,
// resultcodec, and fingerprint behind a handful of flags selecting one of
// count, gen, or nth.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"eratsieve/fingerprint"
	"eratsieve/primeapi"
	"eratsieve/resultcodec"
	"eratsieve/resultstore"
)

func main() {
	var (
		mode     = flag.String("mode", "count", "one of: count, gen, nth")
		start    = flag.Uint64("start", 0, "range start (inclusive), for count/gen")
		stop     = flag.Uint64("stop", 0, "range stop (exclusive), for count/gen")
		n        = flag.Uint64("n", 0, "1-indexed prime index, for nth")
		workers  = flag.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
		jsonOut  = flag.Bool("json", false, "emit resultcodec JSON instead of plain text")
		dbPath   = flag.String("db", "sieve_cache.db", "resultstore SQLite cache path")
		noCache  = flag.Bool("no-cache", false, "skip the resultstore cache")
		verify   = flag.Bool("verify", false, "recompute and verify against a cached checksum (gen mode only)")
		progress = flag.Bool("progress", false, "print per-segment progress to stderr (count mode only)")
		showHelp = flag.Bool("help", false, "show help")
	)
	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if err := run(*mode, *start, *stop, *n, *workers, *jsonOut, *dbPath, *noCache, *verify, *progress); err != nil {
		fmt.Fprintln(os.Stderr, "eratsieve:", err)
		os.Exit(1)
	}
}

func run(mode string, start, stop, n uint64, workers int, jsonOut bool, dbPath string, noCache, verify, progress bool) error {
	switch mode {
	case "nth":
		p, err := primeapi.NthPrime(n)
		if err != nil {
			return err
		}
		if jsonOut {
			data, err := resultcodec.EncodeResult(resultcodec.SieveResult{Count: 1, Primes: []uint64{p}})
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		fmt.Println(p)
		return nil

	case "count":
		if progress {
			return runCountWithProgress(start, stop, workers, jsonOut)
		}
		return runRanged(start, stop, workers, jsonOut, dbPath, noCache, verify, true)

	case "gen":
		return runRanged(start, stop, workers, jsonOut, dbPath, noCache, verify, false)

	default:
		return fmt.Errorf("unknown mode %q (want count, gen, or nth)", mode)
	}
}

func runRanged(start, stop uint64, workers int, jsonOut bool, dbPath string, noCache, verify, countOnly bool) error {
	var store *resultstore.Store
	if !noCache {
		s, err := resultstore.Open(dbPath)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s

		if row, err := store.Lookup(start, stop); err == nil {
			if countOnly {
				return printResult(resultcodec.SieveResult{Start: start, Stop: stop, Count: row.Count, Checksum: row.Checksum}, jsonOut)
			}
			primes, err := primeapi.GeneratePrimes(start, stop, workers)
			if err != nil {
				return err
			}
			if verify {
				if err := fingerprint.Verify(primes, row.Checksum); err != nil {
					return err
				}
			}
			return printResult(resultcodec.SieveResult{Start: start, Stop: stop, Count: row.Count, Checksum: row.Checksum, Primes: primes}, jsonOut)
		}
	}

	primes, err := primeapi.GeneratePrimes(start, stop, workers)
	if err != nil {
		return err
	}
	checksum := fingerprint.Checksum(primes)
	count := uint64(len(primes))

	if store != nil {
		if err := store.Put(resultstore.Row{
			Start: start, Stop: stop, Count: count, Checksum: checksum,
			ComputedAt: time.Now().Unix(),
		}); err != nil {
			return err
		}
	}

	result := resultcodec.SieveResult{Start: start, Stop: stop, Count: count, Checksum: checksum}
	if !countOnly {
		result.Primes = primes
	}
	return printResult(result, jsonOut)
}

// runCountWithProgress reports each worker's per-segment counts to stderr as
// they complete, then prints the final total the same way runRanged would.
func runCountWithProgress(start, stop uint64, workers int, jsonOut bool) error {
	count, err := primeapi.CountPrimesWithProgress(start, stop, workers, func(worker, n int) {
		fmt.Fprintf(os.Stderr, "worker %d: +%d\n", worker, n)
	})
	if err != nil {
		return err
	}
	return printResult(resultcodec.SieveResult{Start: start, Stop: stop, Count: count}, jsonOut)
}

func printResult(result resultcodec.SieveResult, jsonOut bool) error {
	if jsonOut {
		data, err := resultcodec.EncodeResult(result)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	if result.Primes == nil {
		fmt.Println(result.Count)
		return nil
	}
	for _, p := range result.Primes {
		fmt.Println(p)
	}
	return nil
}
