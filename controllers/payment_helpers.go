package controllers

import (
	"github.com/Rahat-721/GiveBD/config"
	"github.com/Rahat-721/GiveBD/gateways"
	"github.com/Rahat-721/GiveBD/models"
	"github.com/Rahat-721/GiveBD/utils"
)

func bkashClient() *gateways.BkashClient {
	cfg := config.AppConfig
	return gateways.NewBkashClient(gateways.BkashConfig{
		BaseURL:   cfg.BkashBaseURL,
		AppKey:    cfg.BkashAppKey,
		AppSecret: cfg.BkashAppSecret,
		Username:  cfg.BkashUsername,
		Password:  cfg.BkashPassword,
	}, gateways.NewRedisTokenCache(config.RedisClient, "gateways:bkash:token"))
}

func sslcommerzClient() *gateways.SSLCommerzClient {
	cfg := config.AppConfig
	return gateways.NewSSLCommerzClient(gateways.SSLCommerzConfig{
		BaseURL:       cfg.SSLCommerzBaseURL,
		StoreID:       cfg.SSLCommerzStoreID,
		StorePassword: cfg.SSLCommerzStorePwd,
	})
}

func shurjopayClient() *gateways.ShurjoPayClient {
	cfg := config.AppConfig
	return gateways.NewShurjoPayClient(gateways.ShurjoPayConfig{
		BaseURL:  cfg.ShurjoPayBaseURL,
		Username: cfg.ShurjoPayUsername,
		Password: cfg.ShurjoPayPassword,
		Prefix:   cfg.ShurjoPayPrefix,
	}, gateways.NewRedisTokenCache(config.RedisClient, "gateways:shurjopay:token"))
}

// resolveTerminalOutcome decides what to settle when a client-side callback
// claims a terminal state. Callback parameters are forgeable, so the
// provider's verdict wins; the claimed state is applied only when the
// provider confirms the payment never completed.
func resolveTerminalOutcome(verified, claimed gateways.Outcome) gateways.Outcome {
	if verified == gateways.OutcomePending {
		return claimed
	}
	return verified
}

// settleAndNotify runs the settlement and, when this call was the one that
// settled a successful donation, sends the receipt email. Email failures
// are logged and swallowed; the money is already settled.
func settleAndNotify(donationID uint, outcome gateways.Outcome, providerTxnID string) (bool, *models.Donation, error) {
	applied, donation, err := utils.SettleDonation(config.DB, donationID, outcome, providerTxnID)
	if err != nil || !applied || donation == nil {
		return applied, donation, err
	}

	if outcome == gateways.OutcomeSuccess && donation.DonorEmail != "" {
		var campaign models.Campaign
		title := ""
		if err := config.DB.First(&campaign, donation.CampaignID).Error; err == nil {
			title = campaign.Title
		}
		if err := utils.SendDonationReceipt(donation.DonorEmail, donation.DonorName, title, donation); err != nil {
			utils.LogError("Failed to send receipt for donation ID: %d: %v", donation.ID, err)
		}
	}

	return applied, donation, nil
}
