package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var zooms = []string{"hour", "day", "week", "month", "quarter"}

var ranges = []struct{ from, to string }{
	{"2025-01-01", "2025-01-31"},
	{"2025-01-15", "2025-02-15"},
	{"2025-02-01", "2025-03-01"},
	{"", ""},
}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== sprintd Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/api/zoom-levels")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Cache-warm reads on the default view
	fmt.Println("\n--- Phase 1: Default view reads (GET /api/timeline) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doGetTimeline(rng, true)
	})

	// Phase 2: Mixed endpoint load
	fmt.Println("\n--- Phase 2: Mixed load (all read endpoints) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doGetTimeline(rng, false)
		case r < 0.60:
			return doGetConflicts()
		case r < 0.75:
			return doGetIndicators(rng)
		case r < 0.95:
			return doGetWindow(rng)
		default:
			return doGetZoomLevels()
		}
	})

	// Phase 3: Reads with periodic refresh churn invalidating the cache
	fmt.Println("\n--- Phase 3: Reads with refresh churn (2% POST /api/refresh) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.02:
			return doRefresh()
		case r < 0.52:
			return doGetTimeline(rng, false)
		case r < 0.77:
			return doGetIndicators(rng)
		default:
			return doGetWindow(rng)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doGet(endpoint, url string, wantStatus int) result {
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != wantStatus}
}

func doGetTimeline(rng *rand.Rand, defaultOnly bool) result {
	url := baseURL + "/api/timeline"
	if !defaultOnly {
		zoom := zooms[rng.Intn(len(zooms))]
		url += "?zoom=" + zoom
		r := ranges[rng.Intn(len(ranges))]
		if r.from != "" {
			url += fmt.Sprintf("&from=%s&to=%s", r.from, r.to)
		}
	}
	return doGet("GET /api/timeline", url, 200)
}

func doGetConflicts() result {
	return doGet("GET /api/conflicts", baseURL+"/api/conflicts", 200)
}

func doGetIndicators(rng *rand.Rand) result {
	zoom := zooms[rng.Intn(len(zooms))]
	return doGet("GET /api/indicators", baseURL+"/api/indicators?zoom="+zoom, 200)
}

func doGetWindow(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/api/window?rowHeight=60&viewport=%d&scroll=%d",
		baseURL, 400+rng.Intn(600), rng.Intn(5000))
	return doGet("GET /api/window", url, 200)
}

func doGetZoomLevels() result {
	return doGet("GET /api/zoom-levels", baseURL+"/api/zoom-levels", 200)
}

func doRefresh() result {
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/api/refresh", "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /api/refresh", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /api/refresh", resp.StatusCode, lat, resp.StatusCode != 204}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
