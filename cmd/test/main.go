// Manual smoke harness. Subscribes a symbol through the REST API of a
// running instance, attaches to the websocket stream and prints whatever
// candles arrive. Not part of the automated test suite.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	// 1. Parse command line flags
	host := flag.String("host", "127.0.0.1:8000", "host:port of a running instance")
	symbol := flag.String("symbol", "BTCUSDT", "symbol to subscribe")
	duration := flag.Duration("duration", 30*time.Second, "how long to listen")
	flag.Parse()

	// 2. Subscribe the symbol via REST
	body, _ := json.Marshal(map[string]string{"symbol": *symbol})
	resp, err := http.Post(fmt.Sprintf("http://%s/add_symbol", *host), "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error subscribing %s: %v\n", *symbol, err)
		os.Exit(1)
	}
	resp.Body.Close()
	fmt.Printf("Subscribed %s (status %d)\n", *symbol, resp.StatusCode)

	// 3. Attach to the candle stream
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws", *host), nil)
	if err != nil {
		fmt.Printf("Error connecting to stream: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	deadline := time.Now().Add(*duration)
	conn.SetReadDeadline(deadline)

	fmt.Printf("Listening for %s...\n", *duration)
	count := 0
	for time.Now().Before(deadline) {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}
		count++
		fmt.Printf("%s\n", message)
	}

	fmt.Printf("Received %d candles.\n", count)
}
