package utils

import (
	"errors"

	"github.com/Rahat-721/GiveBD/gateways"
	"github.com/Rahat-721/GiveBD/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDonationNotFound is returned when the donation id passed to
// SettleDonation does not exist.
var ErrDonationNotFound = errors.New("donation not found")

// SettleDonation applies the verified outcome of a payment to a donation
// exactly once. Inside a single database transaction it:
//
//  1. locks the donation row and checks it is still pending — a donation
//     that already left pending was settled by an earlier callback, so the
//     call is a no-op and returns applied=false;
//  2. on success, marks the donation, increments the campaign's raised
//     total, and awards loyalty points to a non-anonymous donor, deriving
//     the level from the post-increment points;
//  3. on failed/cancelled, only marks the donation.
//
// Raised and points are mutated with column-expression increments, never
// read-modify-write, so concurrent settlements against the same campaign or
// donor cannot lose updates. A pending outcome performs no writes at all;
// the provider's retry will resolve it later.
func SettleDonation(db *gorm.DB, donationID uint, outcome gateways.Outcome, providerTxnID string) (bool, *models.Donation, error) {
	if outcome == gateways.OutcomePending {
		return false, nil, nil
	}

	var donation models.Donation
	applied := false

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&donation, donationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDonationNotFound
			}
			return err
		}

		// idempotency guard: first settlement wins, duplicates are no-ops
		if donation.Status != models.DonationStatusPending {
			return nil
		}

		switch outcome {
		case gateways.OutcomeSuccess:
			if err := tx.Model(&donation).Updates(map[string]interface{}{
				"status":         models.DonationStatusSuccess,
				"transaction_id": providerTxnID,
			}).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.Campaign{}).
				Where("id = ?", donation.CampaignID).
				Update("raised", gorm.Expr("raised + ?", donation.Amount)).Error; err != nil {
				return err
			}

			if donation.UserID != nil && !donation.Anonymous {
				points := PointsEarned(donation.Amount)
				if points > 0 {
					if err := tx.Model(&models.User{}).
						Where("id = ?", *donation.UserID).
						Update("points", gorm.Expr("points + ?", points)).Error; err != nil {
						return err
					}

					var donor models.User
					if err := tx.Select("points").First(&donor, *donation.UserID).Error; err != nil {
						return err
					}
					if err := tx.Model(&models.User{}).
						Where("id = ?", *donation.UserID).
						Update("level", DeriveLevel(donor.Points)).Error; err != nil {
						return err
					}
				}
			}

		case gateways.OutcomeFailed:
			if err := tx.Model(&donation).Updates(map[string]interface{}{
				"status":         models.DonationStatusFailed,
				"transaction_id": providerTxnID,
			}).Error; err != nil {
				return err
			}

		case gateways.OutcomeCancelled:
			if err := tx.Model(&donation).
				Update("status", models.DonationStatusCancelled).Error; err != nil {
				return err
			}
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, nil, err
	}

	return applied, &donation, nil
}
