// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pipeline

import "errors"

// Sentinel errors classifying every failure GeneratePlan can return. The
// HTTP layer maps these onto status codes; everything else in this package
// wraps one of them.
var (
	// ErrBadRequest marks requests rejected before any work happens, such
	// as an empty user id.
	ErrBadRequest = errors.New("invalid plan request")

	// ErrGateway marks a generation backend failure. The request may be
	// retried by the caller.
	ErrGateway = errors.New("generation backend failure")

	// ErrValidation marks a draft the generator produced but the planner
	// refuses to correct. Retrying may succeed since generation is not
	// deterministic.
	ErrValidation = errors.New("generated draft failed validation")

	// ErrPersistence marks a history append failure. The program is not
	// returned in this case: a plan the system of record never saw must
	// not reach the user.
	ErrPersistence = errors.New("history persistence failure")
)
