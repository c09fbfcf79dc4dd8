package utils

import (
	"github.com/Rahat-721/GiveBD/models"
)

// PointsPerUnit is the donation amount in BDT that earns one loyalty point.
// Every point-awarding path must use PointsEarned; the rate is defined only
// here.
const PointsPerUnit = 100

// Loyalty level thresholds on cumulative points
const (
	silverThreshold   = 1000
	goldThreshold     = 5000
	platinumThreshold = 10000
)

// PointsEarned returns the loyalty points awarded for a donation amount.
func PointsEarned(amount float64) int {
	if amount <= 0 {
		return 0
	}
	return int(amount / PointsPerUnit)
}

// DeriveLevel maps cumulative points to a loyalty level. This is the single
// implementation used both when settling a donation and anywhere a level is
// displayed, so the stored and displayed levels cannot drift apart.
func DeriveLevel(points int) string {
	switch {
	case points >= platinumThreshold:
		return models.LevelPlatinum
	case points >= goldThreshold:
		return models.LevelGold
	case points >= silverThreshold:
		return models.LevelSilver
	default:
		return models.LevelBronze
	}
}
