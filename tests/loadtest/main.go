package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

// Run against `injector serve` in memory chain mode with auth disabled and
// the receivers below listed under chain.receivers.
const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numReceivers = 200
	ownerAddr    = "0x00000000000000000000000000000000000000ee"
	keeperAddr   = "0x00000000000000000000000000000000000000cc"
)

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

func receiver(i int) string {
	return fmt.Sprintf("0x%040x", 0x1000+i)
}

func main() {
	fmt.Println("=== Injector Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Receivers: %d\n\n", numWorkers, testDuration, numReceivers)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
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

	fmt.Println("\n--- Phase 1: Registering recipient list ---")
	if r := doSetRecipients(); r.err {
		fmt.Printf("FAILED: POST /recipients answered %d\n", r.status)
		return
	}

	fmt.Println("\n--- Phase 2: Read-heavy load ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doGet("/watchlist", "/watchlist")
		case r < 0.70:
			return doGet("/account", "/account?id="+receiver(rng.Intn(numReceivers)))
		case r < 0.85:
			return doGet("/ready", "/ready")
		default:
			return doGet("/upkeep/check", "/upkeep/check")
		}
	})

	fmt.Println("\n--- Phase 3: Keeper rounds under read load ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.05 {
			return doUpkeep()
		}
		return doGet("/account", "/account?id="+receiver(rng.Intn(numReceivers)))
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

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

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

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func post(endpoint, path, caller string, payload any) result {
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller-Address", caller)
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode >= 300}
}

func doSetRecipients() result {
	ids := make([]string, numReceivers)
	amounts := make([]string, numReceivers)
	periods := make([]uint32, numReceivers)
	for i := range ids {
		ids[i] = receiver(i)
		amounts[i] = "1000000000000000000"
		periods[i] = 52
	}
	return post("POST /recipients", "/recipients", ownerAddr, map[string]any{
		"ids":        ids,
		"amounts":    amounts,
		"maxPeriods": periods,
	})
}

// doUpkeep runs one check/perform round trip and reports it as one request.
func doUpkeep() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/upkeep/check")
	if err != nil {
		return result{"upkeep round", 0, time.Since(start), true}
	}
	var check struct {
		Needed  bool   `json:"needed"`
		Payload []byte `json:"payload"`
	}
	err = json.NewDecoder(resp.Body).Decode(&check)
	resp.Body.Close()
	if err != nil || !check.Needed {
		return result{"upkeep round", resp.StatusCode, time.Since(start), err != nil}
	}
	r := post("upkeep round", "/upkeep/perform", keeperAddr, map[string]any{"payload": check.Payload})
	r.latency = time.Since(start)
	return r
}

func doGet(endpoint, path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{"GET " + endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET " + endpoint, resp.StatusCode, lat, resp.StatusCode != 200}
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
		return fmt.Sprintf("%dus", d.Microseconds())
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
