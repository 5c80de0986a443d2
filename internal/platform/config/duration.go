// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Duration is a [time.Duration] that also accepts a day suffix ("7d") and bare
// seconds ("3600"), the formats operators already use for token lifetimes.
type Duration time.Duration

// UnmarshalText implements [encoding.TextUnmarshaler] so env can decode it.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a [time.Duration].
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ParseDuration parses "7d", "12h", "90m" or "3600". Zero and negative values are rejected.
func ParseDuration(raw string) (time.Duration, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("config: empty duration")
	}

	var parsed time.Duration
	switch {
	case strings.HasSuffix(value, "d"):
		days, err := strconv.ParseInt(strings.TrimSuffix(value, "d"), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("config: invalid duration %q", raw)
		}
		if days > math.MaxInt64/int64(24*time.Hour) {
			return 0, fmt.Errorf("config: duration %q is too large", raw)
		}
		parsed = time.Duration(days) * 24 * time.Hour
	default:
		if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
			if seconds > math.MaxInt64/int64(time.Second) {
				return 0, fmt.Errorf("config: duration %q is too large", raw)
			}
			parsed = time.Duration(seconds) * time.Second
			break
		}
		stdDuration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("config: invalid duration %q", raw)
		}
		parsed = stdDuration
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("config: duration %q must be positive", raw)
	}
	return parsed, nil
}
