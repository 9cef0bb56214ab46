package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Domain constants
const (
	// XPFCurrency is the currency code for the franc pacifique
	XPFCurrency = "XPF"

	// MinSurface is the smallest surface (m²) accepted for an estimation
	MinSurface = 10.0

	// MaxPhotoSizeBytes is the upload limit for property photos (5MB)
	MaxPhotoSizeBytes = int64(5 * 1024 * 1024)

	// MaxExtraPhotos caps the supplementary photos attached to one record
	MaxExtraPhotos = 6

	// ValuationCacheTTL bounds how long an external estimate may be
	// served from cache for an identical request
	ValuationCacheTTL = 15 * time.Minute

	// TrendCacheTTL bounds the commune trend cache
	TrendCacheTTL = 6 * time.Hour
)
