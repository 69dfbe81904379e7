package matching

import (
	"strings"
	"time"

	"retrouvaille/internal/domain"
)

const (
	categoryWeight = 0.5
	locationWeight = 0.3
	dateWeight     = 0.2
)

func score(decl, cand *domain.Declaration, dateWindow time.Duration) (float64, []string) {
	var confidence float64
	var reasons []string

	if strings.EqualFold(strings.TrimSpace(decl.Category), strings.TrimSpace(cand.Category)) {
		confidence += categoryWeight
		reasons = append(reasons, "même catégorie : "+cand.Category)
	}

	if sim := locationSimilarity(decl.Location, cand.Location); sim > 0 {
		confidence += locationWeight * sim
		if sim >= 1 {
			reasons = append(reasons, "même lieu : "+cand.Location)
		} else {
			reasons = append(reasons, "lieux proches : "+cand.Location)
		}
	}

	if prox := dateProximity(decl.Date, cand.Date, dateWindow); prox > 0 {
		confidence += dateWeight * prox
		reasons = append(reasons, "dates rapprochées")
	}

	if confidence > 1 {
		confidence = 1
	}
	return confidence, reasons
}

// locationSimilarity returns 1 for an exact or containing match and
// otherwise the share of tokens the two free-text locations have in
// common.
func locationSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b || strings.Contains(a, b) || strings.Contains(b, a) {
		return 1
	}

	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	set := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		set[t] = true
	}

	common := 0
	for _, t := range tokensB {
		if set[t] {
			common++
		}
	}

	smaller := len(tokensA)
	if len(tokensB) < smaller {
		smaller = len(tokensB)
	}
	return float64(common) / float64(smaller)
}

// dateProximity decays linearly from 1 (same day) to 0 at the edge of
// the window.
func dateProximity(a, b time.Time, window time.Duration) float64 {
	if window <= 0 {
		return 0
	}

	gap := a.Sub(b)
	if gap < 0 {
		gap = -gap
	}
	if gap >= window {
		return 0
	}
	return 1 - float64(gap)/float64(window)
}
