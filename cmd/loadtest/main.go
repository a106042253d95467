// Command loadtest fires a constant-rate query load at the statistics
// endpoint and prints latency percentiles.
package main

import (
	"flag"
	"fmt"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "base URL of the roi-report server")
		appName  = flag.String("app", "", "optional appName filter for the query")
		rate     = flag.Int("rate", 100, "requests per second")
		duration = flag.Duration("duration", 30*time.Second, "attack duration")
	)
	flag.Parse()

	target := *baseURL + "/api/v1/statistics"
	if *appName != "" {
		target += "?appName=" + *appName
	}

	targeter := vegeta.NewStaticTargeter(vegeta.Target{
		Method: "GET",
		URL:    target,
	})
	attacker := vegeta.NewAttacker()

	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "statistics") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Printf("Requests: %d\n", metrics.Requests)
	fmt.Printf("Success rate: %.2f%%\n", metrics.Success*100)
	fmt.Printf("Latency p50: %s\n", metrics.Latencies.P50)
	fmt.Printf("Latency p99: %s\n", metrics.Latencies.P99)
	fmt.Printf("Latency max: %s\n", metrics.Latencies.Max)
}
