package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoLog = `time="2026/10/18 09:00:01" level=info msg="User logged in: 7"
time="2026/10/18 09:00:05" level=info msg="User 9 signed in through Privy (privy_wallet)"
time="2026/10/18 09:01:00" level=info msg="User registered: 12 (New@Example.com)"
time="2026/10/18 09:02:00" level=info msg="Login attempt failed - Invalid password for user: new@example.com"
time="2026/10/18 09:03:00" level=info msg="Order ORD-1-1 created for user 7: subtotal=1.5 fee=0.0375 total=1.5375"
time="2026/10/18 09:03:00" level=info msg="Started monitoring transaction 0xab for order 1"
time="2026/10/18 09:04:00" level=info msg="Transaction 0xab for order 1 finished: confirmed"
time="2026/10/18 09:30:00" level=info msg="Transaction 0xcd for order 2 finished: timeout"
time="2026/10/18 09:31:00" level=info msg="Transaction 0xef for order 3 finished: confirmed"
time="2026/10/18 09:32:00" level=warning msg="Rate limit exceeded" client=10.0.0.1 method=POST path=/api/auth/login
`

const errorLog = `time="2026/10/18 09:00:02" level=error msg="Login attempt failed - Invalid request format: EOF"
time="2026/10/18 09:05:00" level=error msg="Receipt lookup failed for transaction 0xab (order 1): timeout"
time="2026/10/18 09:06:00" level=error msg="Receipt lookup failed for transaction 0xcd (order 2): timeout"

time="2026/10/18 09:07:00" level=error msg="Order 4 created but monitoring could not start: no chain"
`

func TestAnalyzeInfoLogs(t *testing.T) {
	stats := NewLogStats()
	require.NoError(t, analyzeInfoLogs(strings.NewReader(infoLog), stats))

	assert.Equal(t, 1, stats.LoginSuccess)
	assert.Equal(t, 1, stats.SSOLogins)
	assert.Equal(t, 1, stats.Registrations)
	assert.Equal(t, 1, stats.LoginFailures)
	assert.Equal(t, 1, stats.OrdersCreated)
	assert.Equal(t, 1, stats.MonitorsStarted)
	assert.Equal(t, 1, stats.RateLimited)
	assert.Equal(t, map[string]int{"confirmed": 2, "timeout": 1}, stats.MonitorOutcomes)
	assert.Equal(t, 2, stats.UserActivities["new@example.com"])
}

func TestAnalyzeErrorLogs(t *testing.T) {
	stats := NewLogStats()
	require.NoError(t, analyzeErrorLogs(strings.NewReader(errorLog), stats))

	assert.Equal(t, 4, stats.TotalErrors)
	assert.Equal(t, 1, stats.LoginFailures)
	assert.Equal(t, 3, stats.MonitorFailures)
	assert.Equal(t, 1, stats.ErrorPatterns["Login attempt failed - Invalid request format"])
	assert.Equal(t, 1, stats.ErrorPatterns["Order N created but monitoring could not start"])
}

func TestTopN(t *testing.T) {
	top := topN(map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}, 3)
	require.Len(t, top, 3)
	assert.Equal(t, []ranked{{"c", 5}, {"a", 2}, {"b", 2}}, top)
}

func TestPrintReport(t *testing.T) {
	stats := NewLogStats()
	require.NoError(t, analyzeInfoLogs(strings.NewReader(infoLog), stats))

	var out bytes.Buffer
	printReport(&out, "2026-10-18", stats)

	report := out.String()
	assert.Contains(t, report, "Day: 2026-10-18")
	assert.Contains(t, report, "Orders Created: 1")
	assert.Contains(t, report, "Outcome confirmed: 2")
	assert.Contains(t, report, "new@example.com: 2 activities")
}
