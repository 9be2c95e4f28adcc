package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StaffSessionKey returns the cache key holding the active token ID of a staff account.
func (r *CacheKeyStruct) StaffSessionKey(staffID string) string {
	return fmt.Sprintf("login:%s", staffID)
}

// ReportInFlightKey returns the lock key guarding one report generation per
// user, route and output format.
func (r *CacheKeyStruct) ReportInFlightKey(userID, routeID, format string) string {
	return fmt.Sprintf("report:%s:route:%s:%s:inflight", userID, routeID, format)
}

// DashboardStatsKey returns the cache key for the admin dashboard counters.
func (r *CacheKeyStruct) DashboardStatsKey() string {
	return "dashboard:stats"
}

// RouteDashboardStatsKey returns the cache key for a driver's route counters.
func (r *CacheKeyStruct) RouteDashboardStatsKey(routeID string) string {
	return fmt.Sprintf("dashboard:route:%s:stats", routeID)
}

var CacheKey = NewCacheKeyStruct()
