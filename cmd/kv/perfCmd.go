package kv

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ckampfe/kvqlite/cmd/util"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for kvqlite stores",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfOpsPerTest       = 10000
	perfSkip             = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	KeyValueCommands.PersistentFlags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	KeyValueCommands.PersistentFlags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	KeyValueCommands.PersistentFlags().Int(key, 1000, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "keys"
	KeyValueCommands.PersistentFlags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "ops"
	KeyValueCommands.PersistentFlags().Int(key, 10000, util.WrapString("How many operations to run per test"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = viper.GetInt("keys")
	perfNumThreads = viper.GetInt("threads")
	perfOpsPerTest = viper.GetInt("ops")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	fmt.Println("Performance testing tool for kvqlite stores")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.DescribeStoreConfig())
	fmt.Printf("Threads: %d, Ops/test: %d, Keys: %d\n", perfNumThreads, perfOpsPerTest, perfKeySpread)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]metrics.Timer)

	setTimer := runTimed(ctx, "set", nil, func(ctx context.Context, counter int, getKey func(int) string) error {
		return kvStore.Set(ctx, getKey(counter), []byte("test"))
	})
	results["set"] = setTimer
	printResult("set", setTimer)

	largeValue := make([]byte, perfLargeValueSizeKB*1024)
	setLargeTimer := runTimed(ctx, "set-large", nil, func(ctx context.Context, counter int, getKey func(int) string) error {
		return kvStore.Set(ctx, getKey(counter), largeValue)
	})
	results["set-large"] = setLargeTimer
	printResult("set-large", setLargeTimer)

	seed := func(ctx context.Context, iter func(func(string))) {
		iter(func(k string) {
			if err := kvStore.Set(ctx, k, []byte("test")); err != nil {
				log.Printf("error seeding key: %v\n", err)
			}
		})
	}

	getTimer := runTimed(ctx, "get", seed, func(ctx context.Context, counter int, getKey func(int) string) error {
		_, _, err := kvStore.Get(ctx, getKey(counter))
		return err
	})
	results["get"] = getTimer
	printResult("get", getTimer)

	getMissingTimer := runTimed(ctx, "get-missing", nil, func(ctx context.Context, counter int, _ func(int) string) error {
		key := fmt.Sprintf("%s/missing-%d", perfKeyPrefix, counter%perfKeySpread)
		_, _, err := kvStore.Get(ctx, key) // found=false expected
		return err
	})
	results["get-missing"] = getMissingTimer
	printResult("get-missing", getMissingTimer)

	deleteTimer := runTimed(ctx, "delete", seed, func(ctx context.Context, counter int, getKey func(int) string) error {
		return kvStore.Delete(ctx, getKey(counter))
	})
	results["delete"] = deleteTimer
	printResult("delete", deleteTimer)

	mixedTimer := runTimed(ctx, "mixed", seed, func(ctx context.Context, counter int, getKey func(int) string) error {
		key := getKey(counter)
		switch counter % 4 {
		case 0, 1: // get
			_, _, err := kvStore.Get(ctx, key)
			return err
		case 2: // set
			return kvStore.Set(ctx, key, []byte("test"))
		default: // delete
			return kvStore.Delete(ctx, key)
		}
	})
	results["mixed"] = mixedTimer
	printResult("mixed", mixedTimer)

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// runTimed executes one benchmark: the op runs perfOpsPerTest times spread
// over perfNumThreads goroutines, every invocation recorded in the returned
// timer. An optional setup seeds the test keys beforehand, and the keys are
// always removed again afterwards.
func runTimed(
	ctx context.Context,
	test string,
	setup func(context.Context, func(func(string))),
	op func(ctx context.Context, counter int, getKey func(int) string) error,
) metrics.Timer {
	timer := metrics.NewTimer()

	if shouldSkip(test) {
		return timer
	}

	// prepare keys
	getKey, iter := getKeys(test)
	if setup != nil {
		setup(ctx, iter)
	}

	// cleanup
	defer iter(func(k string) {
		if err := kvStore.Delete(ctx, k); err != nil {
			log.Printf("(%s) - error deleting key: %v\n", test, err)
		}
	})

	opsPerThread := perfOpsPerTest / perfNumThreads

	var wg sync.WaitGroup
	for t := 0; t < perfNumThreads; t++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := 0; i < opsPerThread; i++ {
				counter := offset + i
				start := time.Now()
				err := op(ctx, counter, getKey)
				timer.UpdateSince(start)
				if err != nil {
					log.Printf("(%s) - error performing operation: %v\n", test, err)
				}
			}
		}(t * opsPerThread)
	}
	wg.Wait()

	return timer
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, timer metrics.Timer) {
	snapshot := timer.Snapshot()
	if snapshot.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	mean := time.Duration(snapshot.Mean())
	p99 := time.Duration(snapshot.Percentile(0.99))
	opsPerSec := 1.0 / (float64(mean) / float64(time.Second))

	// Print the formatted result
	fmt.Printf("%-20s%s/op (p99 %s)\t%.0f ops/sec\n", test, mean, p99, opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]metrics.Timer) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P50Ns", "P99Ns", "OpsPerSec", "Skipped",
		"Strategy", "Codec", "InMemory",
		"Threads", "LargeValueSizeKB", "KeysCount",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, timer := range results {
		snapshot := timer.Snapshot()

		var opsPerSec float64
		skipped := snapshot.Count() == 0
		if !skipped && snapshot.Mean() > 0 {
			opsPerSec = 1.0 / (snapshot.Mean() / float64(time.Second))
		}

		row := []string{
			test,
			strconv.FormatInt(snapshot.Count(), 10),
			fmt.Sprintf("%.0f", snapshot.Mean()),
			fmt.Sprintf("%.0f", snapshot.Percentile(0.5)),
			fmt.Sprintf("%.0f", snapshot.Percentile(0.99)),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.FormatBool(skipped),
			viper.GetString("strategy"),
			viper.GetString("codec"),
			strconv.FormatBool(viper.GetBool("memory")),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
