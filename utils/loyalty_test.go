package utils

import (
	"testing"

	"github.com/Rahat-721/GiveBD/models"
	"github.com/stretchr/testify/assert"
)

func TestPointsEarned(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
		points int
	}{
		{"small donation", 2500, 25},
		{"large donation", 50000, 500},
		{"below one unit", 99, 0},
		{"exactly one unit", 100, 1},
		{"fraction rounds down", 199.99, 1},
		{"zero", 0, 0},
		{"negative", -500, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.points, PointsEarned(tc.amount))
		})
	}
}

func TestDeriveLevel(t *testing.T) {
	cases := []struct {
		points int
		level  string
	}{
		{0, models.LevelBronze},
		{825, models.LevelBronze},
		{999, models.LevelBronze},
		{1000, models.LevelSilver},
		{1400, models.LevelSilver},
		{4999, models.LevelSilver},
		{5000, models.LevelGold},
		{9999, models.LevelGold},
		{10000, models.LevelPlatinum},
		{25000, models.LevelPlatinum},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, DeriveLevel(tc.points), "points=%d", tc.points)
	}
}
