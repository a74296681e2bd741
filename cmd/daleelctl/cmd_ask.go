// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/daleel-ai/daleel/services/answers"
	"github.com/daleel-ai/daleel/services/answers/engine"
)

// askServerURL and askInteractive hold flag values for the ask command.
var (
	askServerURL   string
	askInteractive bool
)

// asker resolves one question and returns the outcome plus the session ID
// for the next turn. Local and remote resolution share this shape so the
// interactive loop does not care which one it drives.
type asker func(question, sessionID string) (kind string, result any, nextSession string, err error)

func runAskCommand(_ *cobra.Command, args []string) {
	question := strings.TrimSpace(strings.Join(args, " "))
	if !askInteractive && question == "" {
		log.Fatalf("Usage: daleelctl ask [question]\n       daleelctl ask --interactive\n       daleelctl ask --server http://localhost:8080 [question]")
	}

	var resolve asker
	if askServerURL != "" {
		resolve = remoteAsker(askServerURL)
	} else {
		resolve = localAsker()
	}

	scanner := bufio.NewScanner(os.Stdin)
	sessionID := ""
	for {
		if question == "" {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			question = strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}
			if question == "exit" || question == "quit" || question == "q" {
				fmt.Println("مع السلامة")
				break
			}
		}

		kind, result, next, err := resolve(question, sessionID)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		sessionID = next
		printResult(kind, result)

		if !askInteractive {
			break
		}
		question = ""
	}
}

// localAsker loads the catalogs and corpus in-process and resolves against
// them directly, no server needed.
func localAsker() asker {
	svc, err := answers.NewService(context.Background(), answers.ServiceConfig{
		CatalogDir: catalogDir,
		DataDir:    dataDir,
		SessionTTL: time.Hour,
	})
	if err != nil {
		log.Fatalf("Failed to load service: %v", err)
	}

	return func(question, sessionID string) (string, any, string, error) {
		result, next := svc.Ask(context.Background(), question, sessionID, nil)
		return result.Kind(), result, next, nil
	}
}

// remoteAsker resolves via POST /v1/ask on a running server.
func remoteAsker(baseURL string) asker {
	client := &http.Client{Timeout: 30 * time.Second}
	askURL := fmt.Sprintf("%s/v1/ask", strings.TrimRight(baseURL, "/"))

	return func(question, sessionID string) (string, any, string, error) {
		body, err := json.Marshal(answers.AskRequest{Question: question, SessionID: sessionID})
		if err != nil {
			return "", nil, "", fmt.Errorf("building request body: %w", err)
		}

		resp, err := client.Post(askURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return "", nil, "", fmt.Errorf("server unavailable at %s: %w", askURL, err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", nil, "", fmt.Errorf("reading response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return "", nil, "", fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(raw))
		}

		var parsed struct {
			SessionID string          `json:"session_id"`
			Kind      string          `json:"kind"`
			Result    json.RawMessage `json:"result"`
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return "", nil, "", fmt.Errorf("parsing response: %w", err)
		}
		return parsed.Kind, parsed.Result, parsed.SessionID, nil
	}
}

// printResult renders one outcome for the terminal. Remote results arrive as
// raw JSON and are re-decoded into the engine shapes so both paths print the
// same way.
func printResult(kind string, result any) {
	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode result: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	if raw, ok := result.(json.RawMessage); ok {
		result = decodeRemote(kind, raw)
	}

	switch r := result.(type) {
	case engine.Answer:
		printAnswer(r)
	case *engine.Answer:
		printAnswer(*r)
	case engine.DefinitionBundle:
		for i, d := range r.Definitions {
			if i > 0 {
				fmt.Println("---")
			}
			fmt.Printf("%s: %s\n", d.Keyword, d.Answer)
			for _, ref := range d.Ref {
				fmt.Printf("  الدليل: %s\n", ref)
			}
		}
	case engine.SplitBundle:
		fmt.Println(r.Message)
		for i, a := range r.Answers {
			if i > 0 {
				fmt.Println("---")
			}
			fmt.Printf("س: %s\n", a.Question)
			fmt.Printf("ج: %s\n", a.Answer)
			for _, p := range a.Proof {
				fmt.Printf("  الدليل: %s\n", p)
			}
		}
	case engine.Clarification:
		fmt.Println(r.Message)
	default:
		// Unknown shape, fall back to JSON.
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
	}
}

func printAnswer(a engine.Answer) {
	fmt.Println(a.Answer)
	for _, p := range a.Proof {
		fmt.Printf("  الدليل: %s\n", p)
	}
	if a.Score > 0 {
		fmt.Printf("  [%s / %s, score %.1f]\n", a.Intent, a.Keyword, a.Score)
	}
}

// decodeRemote maps a server result back onto the engine types by kind.
func decodeRemote(kind string, raw json.RawMessage) any {
	var target any
	switch {
	case kind == "answer":
		target = &engine.Answer{}
	case kind == "definitions":
		target = &engine.DefinitionBundle{}
	case kind == "split":
		target = &engine.SplitBundle{}
	case strings.HasPrefix(kind, "clarify:"):
		target = &engine.Clarification{}
	default:
		return raw
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return raw
	}
	switch t := target.(type) {
	case *engine.Answer:
		return *t
	case *engine.DefinitionBundle:
		return *t
	case *engine.SplitBundle:
		return *t
	case *engine.Clarification:
		return *t
	}
	return raw
}
