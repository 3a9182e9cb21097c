package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	synchub "masterplan/internal/sync"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP sync server address")
	raw := flag.Bool("raw", false, "print events as received")
	flag.Parse()

	for {
		if err := run(*addr, *raw); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr string, raw bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()
		if raw {
			fmt.Println(string(line))
			continue
		}
		fmt.Println(describe(line))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

// describe renders one feed line for humans, falling back to the raw text.
func describe(line []byte) string {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(line, &head); err != nil {
		return string(line)
	}

	switch head.Type {
	case synchub.EventWelcome:
		var ev synchub.WelcomeEvent
		if err := json.Unmarshal(line, &ev); err == nil {
			return fmt.Sprintf("welcome over %s (%d clients)", ev.Transport, ev.Clients)
		}
	case synchub.EventPlotsUpdated:
		var ev synchub.PlotsEvent
		if err := json.Unmarshal(line, &ev); err == nil {
			ids := "all"
			if len(ev.PlotIDs) > 0 {
				ids = strings.Join(ev.PlotIDs, ",")
			}
			return fmt.Sprintf("%s plots updated: %s (revision %s)", ev.At.Format(time.RFC3339), ids, ev.Revision)
		}
	}
	return string(line)
}
