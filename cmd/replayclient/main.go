// Replay client: drives a canned sales conversation through the HTTP API so
// the pipeline can be exercised locally without a live call feed.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

type chunk struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Canned conversation: a prospect with real pain and urgency but heavy price
// fixation, so both the scorer and the objection ranker light up.
var conversation = []chunk{
	{Speaker: "closer", Text: "Thanks for jumping on. What made you book this call?"},
	{Speaker: "prospect", Text: "Honestly this problem is killing my business, we are losing customers and revenue every month."},
	{Speaker: "closer", Text: "What happens if it stays unsolved for another year?"},
	{Speaker: "prospect", Text: "If nothing changes we will have to shut down, I need this fixed immediately, cannot wait any longer."},
	{Speaker: "closer", Text: "And if the fit is right, is the investment a constraint?"},
	{Speaker: "prospect", Text: "Well, how much does it cost? Is there a discount or a cheaper plan? Anything over a few hundred dollars feels expensive to me."},
	{Speaker: "prospect", Text: "I take full responsibility for where I am, my results are entirely on me, and this is completely my decision."},
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "service base URL")
	name := flag.String("name", "Alex", "customer name")
	delay := flag.Duration("delay", 500*time.Millisecond, "delay between chunks")
	flag.Parse()

	sessionID := createSession(*baseURL, *name)
	log.Printf("session created: %s", sessionID)

	for i, c := range conversation {
		result := postChunk(*baseURL, sessionID, c)
		log.Printf("chunk %d/%d sent (%s)", i+1, len(conversation), c.Speaker)
		if result != nil {
			log.Printf("  zone=%v finalScore=%v truthIndex=%v",
				result["lubometer"].(map[string]any)["readinessZone"],
				result["lubometer"].(map[string]any)["finalScore"],
				result["truthIndex"].(map[string]any)["score"])
		}
		time.Sleep(*delay)
	}

	printScript(*baseURL, sessionID, "price")
	endSession(*baseURL, sessionID)
	log.Printf("session ended")
}

func createSession(baseURL, name string) string {
	body, _ := json.Marshal(map[string]string{"customerName": name})
	resp, err := http.Post(baseURL+"/v1/sessions", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("create session: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatalf("decode session response: %v", err)
	}
	return out.SessionID
}

func postChunk(baseURL, sessionID string, c chunk) map[string]any {
	body, _ := json.Marshal(map[string]any{
		"timestamp": time.Now().UnixMilli(),
		"speaker":   c.Speaker,
		"text":      c.Text,
	})
	resp, err := http.Post(baseURL+"/v1/sessions/"+sessionID+"/chunks", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("post chunk: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		log.Fatalf("post chunk: status %d: %s", resp.StatusCode, raw)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatalf("decode analysis: %v", err)
	}
	return result
}

func printScript(baseURL, sessionID, objectionID string) {
	resp, err := http.Get(baseURL + "/v1/sessions/" + sessionID + "/objections/" + objectionID + "/script")
	if err != nil {
		log.Fatalf("get script: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("no script for %q (status %d)", objectionID, resp.StatusCode)
		return
	}
	raw, _ := io.ReadAll(resp.Body)
	fmt.Printf("rebuttal script for %q:\n%s\n", objectionID, raw)
}

func endSession(baseURL, sessionID string) {
	req, _ := http.NewRequest(http.MethodPost, baseURL+"/v1/sessions/"+sessionID+"/end", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("end session: %v", err)
	}
	resp.Body.Close()
}
