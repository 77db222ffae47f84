package main

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

var (
	emailPattern   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	outcomePattern = regexp.MustCompile(`Transaction \S+ for order \d+ finished: (\w+)`)
	messagePattern = regexp.MustCompile(`msg="([^"]*)"`)
	digitsPattern  = regexp.MustCompile(`\d+`)
)

// LogStats aggregates one day of log lines
type LogStats struct {
	TotalErrors     int
	LoginSuccess    int
	LoginFailures   int
	SSOLogins       int
	Registrations   int
	OrdersCreated   int
	MonitorsStarted int
	MonitorFailures int
	RateLimited     int
	MonitorOutcomes map[string]int
	UserActivities  map[string]int
	ErrorPatterns   map[string]int
}

// NewLogStats returns empty stats
func NewLogStats() *LogStats {
	return &LogStats{
		MonitorOutcomes: make(map[string]int),
		UserActivities:  make(map[string]int),
		ErrorPatterns:   make(map[string]int),
	}
}

func analyzeErrorLogs(r io.Reader, stats *LogStats) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.TotalErrors++

		if strings.Contains(line, "Login attempt failed") {
			stats.LoginFailures++
			extractUserActivity(line, stats)
		}
		if strings.Contains(line, "monitoring could not start") ||
			strings.Contains(line, "Receipt lookup failed") ||
			strings.Contains(line, "Transaction lookup failed") {
			stats.MonitorFailures++
		}

		extractErrorPattern(line, stats)
	}
	return scanner.Err()
}

func analyzeInfoLogs(r io.Reader, stats *LogStats) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.Contains(line, "User logged in"):
			stats.LoginSuccess++
		case strings.Contains(line, "signed in through Privy"), strings.Contains(line, "signed in with Google"):
			stats.SSOLogins++
		case strings.Contains(line, "User registered"):
			stats.Registrations++
			extractUserActivity(line, stats)
		case strings.Contains(line, "Login attempt failed"):
			stats.LoginFailures++
			extractUserActivity(line, stats)
		case strings.Contains(line, "Rate limit exceeded"):
			stats.RateLimited++
		case strings.Contains(line, "Started monitoring transaction"):
			stats.MonitorsStarted++
		}

		if strings.Contains(line, "Order ") && strings.Contains(line, " created for user ") {
			stats.OrdersCreated++
		}
		if m := outcomePattern.FindStringSubmatch(line); m != nil {
			stats.MonitorOutcomes[m[1]]++
		}
	}
	return scanner.Err()
}

func extractUserActivity(line string, stats *LogStats) {
	if email := emailPattern.FindString(line); email != "" {
		stats.UserActivities[strings.ToLower(email)]++
	}
}

// extractErrorPattern groups errors by message with ids and hashes masked
func extractErrorPattern(line string, stats *LogStats) {
	msg := line
	if m := messagePattern.FindStringSubmatch(line); m != nil {
		msg = m[1]
	}
	if i := strings.Index(msg, ":"); i > 0 {
		msg = msg[:i]
	}
	msg = emailPattern.ReplaceAllString(msg, "<email>")
	msg = digitsPattern.ReplaceAllString(msg, "N")
	stats.ErrorPatterns[strings.TrimSpace(msg)]++
}

type ranked struct {
	key   string
	count int
}

func topN(counts map[string]int, limit int) []ranked {
	list := make([]ranked, 0, len(counts))
	for k, v := range counts {
		list = append(list, ranked{k, v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].key < list[j].key
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func printReport(w io.Writer, day string, stats *LogStats) {
	fmt.Fprintln(w, "\n=== Log Analysis Report ===")
	fmt.Fprintln(w, "Day:", day)

	fmt.Fprintln(w, "\n1. Authentication:")
	fmt.Fprintf(w, "   Password Logins: %d\n", stats.LoginSuccess)
	fmt.Fprintf(w, "   SSO Logins: %d\n", stats.SSOLogins)
	fmt.Fprintf(w, "   Failed Logins: %d\n", stats.LoginFailures)
	fmt.Fprintf(w, "   Registrations: %d\n", stats.Registrations)
	fmt.Fprintf(w, "   Rate Limited Requests: %d\n", stats.RateLimited)

	fmt.Fprintln(w, "\n2. Orders:")
	fmt.Fprintf(w, "   Orders Created: %d\n", stats.OrdersCreated)
	fmt.Fprintf(w, "   Transactions Monitored: %d\n", stats.MonitorsStarted)
	fmt.Fprintf(w, "   Monitor Errors: %d\n", stats.MonitorFailures)
	for _, o := range topN(stats.MonitorOutcomes, len(stats.MonitorOutcomes)) {
		fmt.Fprintf(w, "   Outcome %s: %d\n", o.key, o.count)
	}

	fmt.Fprintln(w, "\n3. Errors:")
	fmt.Fprintf(w, "   Total Errors: %d\n", stats.TotalErrors)

	fmt.Fprintln(w, "\n4. Most Active Users:")
	for _, u := range topN(stats.UserActivities, 5) {
		fmt.Fprintf(w, "   %s: %d activities\n", u.key, u.count)
	}

	fmt.Fprintln(w, "\n5. Most Common Errors:")
	for _, e := range topN(stats.ErrorPatterns, 5) {
		fmt.Fprintf(w, "   %s: %d occurrences\n", e.key, e.count)
	}
}
