// Command analyze_logs summarises one day of MintSphere log files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

func main() {
	logDir := flag.String("dir", "./logs", "directory holding the daily log files")
	day := flag.String("day", time.Now().Format("2006-01-02"), "day to analyze (YYYY-MM-DD)")
	flag.Parse()

	stats := NewLogStats()
	analyzeFile(filepath.Join(*logDir, fmt.Sprintf("error-%s.log", *day)), stats, analyzeErrorLogs)
	analyzeFile(filepath.Join(*logDir, fmt.Sprintf("info-%s.log", *day)), stats, analyzeInfoLogs)

	printReport(os.Stdout, *day, stats)
}

func analyzeFile(path string, stats *LogStats, analyze func(io.Reader, *LogStats) error) {
	file, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", path, err)
		return
	}
	defer file.Close()

	if err := analyze(file, stats); err != nil {
		fmt.Printf("Error reading log file %s: %v\n", path, err)
	}
}
