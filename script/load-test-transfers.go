package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// startingBalance is credited to every registered account
var startingBalance = decimal.NewFromInt(10000)

type authRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type authResponse struct {
	User struct {
		ID       uint64          `json:"id"`
		Username string          `json:"username"`
		Balance  decimal.Decimal `json:"balance"`
	} `json:"user"`
}

type transferRequest struct {
	FromUserID  uint64          `json:"from_user_id"`
	ToUsername  string          `json:"to_username"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type account struct {
	ID       uint64
	Username string
}

// TestResult contains metrics for a single request
type TestResult struct {
	StatusCode   int
	Code         int
	ResponseTime time.Duration
	Err          error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	mu            sync.Mutex
	Total         int
	Succeeded     int
	Rejected      map[int]int // domain error code -> count
	Failed        map[string]int
	ResponseTimes []time.Duration
	TotalTime     time.Duration
}

func (s *TestStats) record(r TestResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ResponseTimes = append(s.ResponseTimes, r.ResponseTime)
	switch {
	case r.Err != nil:
		s.Failed[r.Err.Error()]++
	case r.StatusCode == http.StatusOK:
		s.Succeeded++
	default:
		s.Rejected[r.Code]++
	}
}

func (s *TestStats) completed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ResponseTimes)
}

func main() {
	concurrency := flag.Int("c", 10, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 500, "Total number of transfers to send")
	users := flag.Int("users", 5, "Number of accounts to register and transfer between")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	maxAmount := flag.Int("max", 500, "Upper bound of a random transfer amount")
	delayMs := flag.Int("delay", 0, "Delay between requests of one worker in milliseconds")
	flag.Parse()

	if *users < 2 {
		fmt.Println("at least two users are required")
		os.Exit(2)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	accounts, err := registerAccounts(client, *baseURL, *users)
	if err != nil {
		fmt.Printf("setup failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Load testing transfers across %d users\n", len(accounts))
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total transfers: %d\n", *totalRequests)

	stats := &TestStats{
		Total:         *totalRequests,
		Rejected:      make(map[int]int),
		Failed:        make(map[string]int),
		ResponseTimes: make([]time.Duration, 0, *totalRequests),
	}

	jobs := make(chan int, *totalRequests)
	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fmt.Printf("Progress: %d/%d\n", stats.completed(), stats.Total)
			}
		}
	}()

	startTime := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for range jobs {
				if *delayMs > 0 {
					time.Sleep(time.Duration(*delayMs) * time.Millisecond)
				}
				stats.record(sendTransfer(client, *baseURL, accounts, rnd, *maxAmount))
			}
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()
	close(done)
	stats.TotalTime = time.Since(startTime)

	printResults(stats)

	if err := verifyConservation(client, *baseURL, accounts); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Total balance conserved across all accounts")
}

// registerAccounts creates fresh users so runs never interfere with each other
func registerAccounts(client *http.Client, baseURL string, n int) ([]account, error) {
	run := uuid.NewString()[:8]
	accounts := make([]account, 0, n)

	for i := 0; i < n; i++ {
		req := authRequest{
			Action:   "register",
			Username: fmt.Sprintf("load_%s_%d", run, i),
			Password: "load-test-password",
			FullName: fmt.Sprintf("Load Test %d", i),
		}

		var resp authResponse
		status, err := postJSON(client, baseURL+"/auth", req, &resp)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("register %s: HTTP %d", req.Username, status)
		}
		accounts = append(accounts, account{ID: resp.User.ID, Username: resp.User.Username})
	}

	return accounts, nil
}

func sendTransfer(client *http.Client, baseURL string, accounts []account, rnd *rand.Rand, maxAmount int) TestResult {
	from := rnd.Intn(len(accounts))
	to := rnd.Intn(len(accounts) - 1)
	if to >= from {
		to++
	}

	amount := decimal.New(int64(rnd.Intn(maxAmount*100)+1), -2)
	req := transferRequest{
		FromUserID:  accounts[from].ID,
		ToUsername:  accounts[to].Username,
		Amount:      amount,
		Description: "load test",
	}

	var body errorResponse
	start := time.Now()
	status, err := postJSON(client, baseURL+"/transactions", req, &body)
	return TestResult{
		StatusCode:   status,
		Code:         body.Code,
		ResponseTime: time.Since(start),
		Err:          err,
	}
}

// verifyConservation checks that transfers only moved money between accounts
func verifyConservation(client *http.Client, baseURL string, accounts []account) error {
	total := decimal.Zero
	for _, a := range accounts {
		resp, err := client.Get(fmt.Sprintf("%s/balance?user_id=%d", baseURL, a.ID))
		if err != nil {
			return err
		}

		var body struct {
			Balance decimal.Decimal `json:"balance"`
		}
		err = json.NewDecoder(resp.Body).Decode(&body)
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("balance of %s: %w", a.Username, err)
		}
		if body.Balance.IsNegative() {
			return fmt.Errorf("balance of %s is negative: %s", a.Username, body.Balance.StringFixed(2))
		}
		total = total.Add(body.Balance)
	}

	want := startingBalance.Mul(decimal.NewFromInt(int64(len(accounts))))
	if !total.Equal(want) {
		return fmt.Errorf("total balance %s, expected %s", total.StringFixed(2), want.StringFixed(2))
	}
	return nil
}

func postJSON(client *http.Client, url string, payload, out any) (int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, errors.New("undecodable response body")
	}
	return resp.StatusCode, nil
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)*p/100]
}

func printResults(stats *TestStats) {
	times := make([]time.Duration, len(stats.ResponseTimes))
	copy(times, stats.ResponseTimes)
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	var sum time.Duration
	for _, d := range times {
		sum += d
	}
	var avg time.Duration
	if len(times) > 0 {
		avg = sum / time.Duration(len(times))
	}

	tps := float64(len(times)) / stats.TotalTime.Seconds()

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Transfers:     %d\n", stats.Total)
	fmt.Printf("Succeeded:           %d\n", stats.Succeeded)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:          %.2f requests/s\n", tps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avg)
	fmt.Printf("P50 Response:        %v\n", percentile(times, 50))
	fmt.Printf("P90 Response:        %v\n", percentile(times, 90))
	fmt.Printf("P99 Response:        %v\n", percentile(times, 99))
	if len(times) > 0 {
		fmt.Printf("Maximum Response:    %v\n", times[len(times)-1])
	}

	if len(stats.Rejected) > 0 {
		fmt.Println("\n----------------- REJECTIONS BY CODE -----------------")
		for code, count := range stats.Rejected {
			fmt.Printf("%-6d: %d\n", code, count)
		}
	}

	if len(stats.Failed) > 0 {
		fmt.Println("\n----------------- TRANSPORT ERRORS -----------------")
		for msg, count := range stats.Failed {
			fmt.Printf("%-40s: %d\n", msg, count)
		}
	}
	fmt.Println("================================================")
}
