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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	serverURL    string
	userID       string
	premium      bool
	focus        string
	experience   string
	daysPerWeek  int
	factsFile    string
	recordsFile  string
	historyLimit int

	rootCmd = &cobra.Command{
		Use:   "coachctl",
		Short: "A cli for the AleutianCoach training plan service",
		Long: `Coachctl talks to a running planner service: request a weekly
				training plan, list a user's plan history, or check health.`,
	}

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Request a weekly training plan for a user",
		Run:   runPlanCommand,
	}

	historyCmd = &cobra.Command{
		Use:   "history [user-id]",
		Short: "List a user's plan history, newest first",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryCommand,
	}

	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check planner service health",
		Run:   runHealthCommand,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:12310",
		"Base URL of the planner service")

	planCmd.Flags().StringVar(&userID, "user", "", "User id (required)")
	planCmd.Flags().BoolVar(&premium, "premium", false, "Request the premium generation tier")
	planCmd.Flags().StringVar(&focus, "focus", "general_fitness",
		"Training focus: hypertrophy, strength, powerlifting, general_fitness")
	planCmd.Flags().StringVar(&experience, "experience", "beginner",
		"Experience level: beginner, intermediate, advanced")
	planCmd.Flags().IntVar(&daysPerWeek, "days", 3, "Training days per week (1-7)")
	planCmd.Flags().StringVar(&factsFile, "facts", "",
		"Path to a JSON file of athlete facts (string map)")
	planCmd.Flags().StringVar(&recordsFile, "records", "",
		"Path to a JSON file of one-rep maxes (lift -> weight)")
	_ = planCmd.MarkFlagRequired("user")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum records to return (0 = server default)")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(healthCmd)
}
