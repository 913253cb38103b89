// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
	"github.com/AleutianAI/AleutianCoach/services/planner/handlers"
)

// httpClient allows a generous window: plan generation waits on the model.
var httpClient = &http.Client{Timeout: 120 * time.Second}

func runPlanCommand(cmd *cobra.Command, args []string) {
	facts, err := readStringMap(factsFile)
	if err != nil {
		log.Fatalf("Failed to read facts file: %v", err)
	}
	records, err := readRecords(recordsFile)
	if err != nil {
		log.Fatalf("Failed to read records file: %v", err)
	}

	body, err := json.Marshal(handlers.GeneratePlanRequest{
		UserID:  userID,
		Premium: premium,
		Facts:   facts,
		Cohort: datatypes.Cohort{
			TrainingFocus:   focus,
			ExperienceLevel: experience,
			DaysPerWeek:     daysPerWeek,
		},
		PersonalRecords: records,
	})
	if err != nil {
		log.Fatalf("Failed to encode request: %v", err)
	}

	resp, err := httpClient.Post(serverURL+"/v1/plans", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Planner request failed: %v", err)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func runHistoryCommand(cmd *cobra.Command, args []string) {
	endpoint := fmt.Sprintf("%s/v1/plans/history/%s", serverURL, url.PathEscape(args[0]))
	if historyLimit > 0 {
		endpoint += "?limit=" + strconv.Itoa(historyLimit)
	}

	resp, err := httpClient.Get(endpoint)
	if err != nil {
		log.Fatalf("History request failed: %v", err)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func runHealthCommand(cmd *cobra.Command, args []string) {
	resp, err := httpClient.Get(serverURL + "/health")
	if err != nil {
		log.Fatalf("Health request failed: %v", err)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

// printResponse pretty-prints a JSON body and exits non-zero on HTTP errors.
func printResponse(resp *http.Response) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		pretty.Write(raw)
	}
	fmt.Println(pretty.String())

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func readStringMap(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func readRecords(path string) (datatypes.PersonalRecords, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := datatypes.PersonalRecords{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
