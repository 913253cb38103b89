// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package signature derives the cache key for a training-plan request from
// the user's relevant facts.
//
// # Description
//
// The key is content-addressed: two requests carrying the same user, tier
// flag and onboarding facts always produce the same key regardless of the
// insertion order of the fact map. The key embeds the user id and tier in
// clear text so operators can trace a cache entry back to a user without
// reversing the digest.
//
// # Thread Safety
//
// Build is a pure function with no shared state; safe for concurrent use.
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// keyVersion is bumped whenever the canonical serialization changes, so
// stale entries written under an older scheme can never collide with new
// ones.
const keyVersion = "v1"

// ErrEmptyUserID is returned when a key is requested for a blank user id.
// This is a configuration error: it is reported before any network call.
var ErrEmptyUserID = errors.New("user id must not be empty")

// Build computes the cache key for a plan request.
//
// # Description
//
// Facts are canonicalized by sorting fact names, serializing each pair as
// name=value joined with ';', and hashing the result with SHA-256. The
// final key is "plan:<version>:<userID>:<tier>:<digest>".
//
// # Inputs
//
//   - userID: Owner of the request. Must be non-blank.
//   - premium: Tier flag; premium and standard users never share entries.
//   - facts: Onboarding fact mapping. May be empty; order is irrelevant.
//
// # Outputs
//
//   - string: The cache key. Stable for identical inputs.
//   - error: ErrEmptyUserID when userID is blank.
func Build(userID string, premium bool, facts map[string]string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrEmptyUserID
	}

	names := make([]string, 0, len(facts))
	for name := range facts {
		names = append(names, name)
	}
	sort.Strings(names)

	var canonical strings.Builder
	for i, name := range names {
		if i > 0 {
			canonical.WriteByte(';')
		}
		canonical.WriteString(name)
		canonical.WriteByte('=')
		canonical.WriteString(facts[name])
	}

	digest := sha256.Sum256([]byte(canonical.String()))

	tier := "standard"
	if premium {
		tier = "premium"
	}

	return fmt.Sprintf("plan:%s:%s:%s:%s",
		keyVersion, userID, tier, hex.EncodeToString(digest[:])), nil
}
