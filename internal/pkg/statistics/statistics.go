package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/Emmanu-hec2a/bass42/app/models"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/cache"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/database"
)

const (
	CacheKeyDonationsTotal     = "statistics:donations:total_amount"
	CacheKeyDonationsCompleted = "statistics:donations:completed"
	CacheKeyDonationsPending   = "statistics:donations:pending"
	CacheKeyDonationsAttempts  = "statistics:donations:attempts"
	CacheKeyAlumniTotal        = "statistics:alumni:total"
	CacheExpiration            = 30 * time.Minute
)

// DashboardStats holds the aggregates shown on the admin dashboard
type DashboardStats struct {
	TotalAmount     float64 `json:"total_amount"`
	SuccessfulCount int64   `json:"successful_count"`
	PendingCount    int64   `json:"pending_count"`
	TotalAttempts   int64   `json:"total_attempts"`
	TotalAlumni     int64   `json:"total_alumni"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache checks whether the cached aggregates are stale
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached aggregates when stale
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Failed to update statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// UpdateStatisticsCache recomputes the aggregates from the database and
// stores them in the cache
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalAmount float64
	if err := db.Model(&models.Donation{}).
		Where("status = ?", models.DonationStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalAmount).Error; err != nil {
		return err
	}

	var completed, pending, attempts, alumni int64
	if err := db.Model(&models.Donation{}).Where("status = ?", models.DonationStatusCompleted).Count(&completed).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Donation{}).Where("status = ?", models.DonationStatusPending).Count(&pending).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Donation{}).Count(&attempts).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Alumni{}).Count(&alumni).Error; err != nil {
		return err
	}

	entries := map[string]string{
		CacheKeyDonationsTotal:     strconv.FormatFloat(totalAmount, 'f', 2, 64),
		CacheKeyDonationsCompleted: strconv.FormatInt(completed, 10),
		CacheKeyDonationsPending:   strconv.FormatInt(pending, 10),
		CacheKeyDonationsAttempts:  strconv.FormatInt(attempts, 10),
		CacheKeyAlumniTotal:        strconv.FormatInt(alumni, 10),
	}
	for key, value := range entries {
		if err := cache.Set(key, value, CacheExpiration); err != nil {
			return err
		}
	}
	return nil
}

// GetDashboardStats returns the cached aggregates, refreshing the cache
// first when stale. Cache misses fall back to zero values; the dashboard
// tolerates briefly stale numbers.
func GetDashboardStats() DashboardStats {
	UpdateCacheIfNeeded()

	stats := DashboardStats{}
	if v, err := cache.Get(CacheKeyDonationsTotal); err == nil {
		stats.TotalAmount, _ = strconv.ParseFloat(v, 64)
	}
	if v, err := cache.Get(CacheKeyDonationsCompleted); err == nil {
		stats.SuccessfulCount, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, err := cache.Get(CacheKeyDonationsPending); err == nil {
		stats.PendingCount, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, err := cache.Get(CacheKeyDonationsAttempts); err == nil {
		stats.TotalAttempts, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, err := cache.Get(CacheKeyAlumniTotal); err == nil {
		stats.TotalAlumni, _ = strconv.ParseInt(v, 10, 64)
	}
	return stats
}
