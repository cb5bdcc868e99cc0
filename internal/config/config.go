/**
 * @description
 * This package handles the configuration management for the billing-service.
 * It uses the Viper library to read configuration from environment variables,
 * providing a centralized and straightforward way to manage application
 * settings, including the table of known PayPal plan ids per tier and
 * billing period.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the billing-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	ClerkJWKSURL string `mapstructure:"CLERK_JWKS_URL"`

	PayPalAPIBaseURL    string `mapstructure:"PAYPAL_API_BASE_URL"`
	PayPalClientID      string `mapstructure:"PAYPAL_CLIENT_ID"`
	PayPalClientSecret  string `mapstructure:"PAYPAL_CLIENT_SECRET"`
	PayPalWebhookID     string `mapstructure:"PAYPAL_WEBHOOK_ID"`
	SkipSignatureVerify bool   `mapstructure:"SKIP_SIGNATURE_VERIFICATION"`

	SyncCronSpec string `mapstructure:"SYNC_CRON_SPEC"`

	// Known PayPal plan ids per tier/billing period. Empty entries are
	// skipped by the resolver.
	PlanIDBronzeMonthly        string `mapstructure:"PAYPAL_PLAN_ID_BRONZE_MONTHLY"`
	PlanIDBronzeYearly         string `mapstructure:"PAYPAL_PLAN_ID_BRONZE_YEARLY"`
	PlanIDGoldMonthly          string `mapstructure:"PAYPAL_PLAN_ID_GOLD_MONTHLY"`
	PlanIDGoldYearly           string `mapstructure:"PAYPAL_PLAN_ID_GOLD_YEARLY"`
	PlanIDDiamondMonthly       string `mapstructure:"PAYPAL_PLAN_ID_DIAMOND_MONTHLY"`
	PlanIDDiamondYearly        string `mapstructure:"PAYPAL_PLAN_ID_DIAMOND_YEARLY"`
	PlanIDMegastarMonthly      string `mapstructure:"PAYPAL_PLAN_ID_MEGASTAR_MONTHLY"`
	PlanIDMegastarYearly       string `mapstructure:"PAYPAL_PLAN_ID_MEGASTAR_YEARLY"`
	PlanIDResumeBasicMonthly   string `mapstructure:"PAYPAL_PLAN_ID_RESUME_BASIC_MONTHLY"`
	PlanIDResumeBasicYearly    string `mapstructure:"PAYPAL_PLAN_ID_RESUME_BASIC_YEARLY"`
	PlanIDResumePremiumMonthly string `mapstructure:"PAYPAL_PLAN_ID_RESUME_PREMIUM_MONTHLY"`
	PlanIDResumePremiumYearly  string `mapstructure:"PAYPAL_PLAN_ID_RESUME_PREMIUM_YEARLY"`
}

// LoadConfig reads configuration from environment variables from the given
// path. It uses Viper to automatically bind environment variables to the
// Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8086")
	viper.SetDefault("PAYPAL_API_BASE_URL", "https://api-m.paypal.com")
	viper.SetDefault("SKIP_SIGNATURE_VERIFICATION", false)
	viper.SetDefault("SYNC_CRON_SPEC", "@every 6h")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("CLERK_JWKS_URL")
	_ = viper.BindEnv("PAYPAL_API_BASE_URL")
	_ = viper.BindEnv("PAYPAL_CLIENT_ID")
	_ = viper.BindEnv("PAYPAL_CLIENT_SECRET")
	_ = viper.BindEnv("PAYPAL_WEBHOOK_ID")
	_ = viper.BindEnv("SKIP_SIGNATURE_VERIFICATION")
	_ = viper.BindEnv("SYNC_CRON_SPEC")
	_ = viper.BindEnv("PAYPAL_PLAN_ID_BRONZE_MONTHLY")
	_ = viper.BindEnv("PAYPAL_PLAN_ID_BRONZE_YEARLY")
	_ = viper.BindEnv("PAYPAL_PLAN_ID_GOLD_MONTHLY")
	_ = viper.BindEnv("PAYPAL_PLAN_ID_GOLD_YEARLY")
	_ = viper.BindEnv("PAYPAL_PLAN_ID_DIAMOND_MONTHLY")
	_ = viper.BindEnv("PAYPAL_PLAN_ID_DIAMOND_YEARLY")
	_ = viper.BindEnv("PAYPAL_PLAN_ID_MEGASTAR_MONTHLY")
	_ = viper.BindEnv("PAYPAL_PLAN_ID_MEGASTAR_YEARLY")
	_ = viper.BindEnv("PAYPAL_PLAN_ID_RESUME_BASIC_MONTHLY")
	_ = viper.BindEnv("PAYPAL_PLAN_ID_RESUME_BASIC_YEARLY")
	_ = viper.BindEnv("PAYPAL_PLAN_ID_RESUME_PREMIUM_MONTHLY")
	_ = viper.BindEnv("PAYPAL_PLAN_ID_RESUME_PREMIUM_YEARLY")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	config.PayPalAPIBaseURL = strings.TrimRight(strings.TrimSpace(config.PayPalAPIBaseURL), "/")
	config.PayPalClientID = strings.TrimSpace(config.PayPalClientID)
	config.PayPalClientSecret = strings.TrimSpace(config.PayPalClientSecret)
	config.PayPalWebhookID = strings.TrimSpace(config.PayPalWebhookID)
	if strings.TrimSpace(config.SyncCronSpec) == "" {
		config.SyncCronSpec = "@every 6h"
	}

	return
}

// InterviewPlanIDs returns the configured plan-id -> tier table for the
// interview family. Empty config entries are omitted.
func (c Config) InterviewPlanIDs() map[string]string {
	table := map[string]string{}
	add := func(planID, tier string) {
		if id := strings.TrimSpace(planID); id != "" {
			table[id] = tier
		}
	}
	add(c.PlanIDBronzeMonthly, "bronze")
	add(c.PlanIDBronzeYearly, "bronze")
	add(c.PlanIDGoldMonthly, "gold")
	add(c.PlanIDGoldYearly, "gold")
	add(c.PlanIDDiamondMonthly, "diamond")
	add(c.PlanIDDiamondYearly, "diamond")
	add(c.PlanIDMegastarMonthly, "megastar")
	add(c.PlanIDMegastarYearly, "megastar")
	return table
}

// ResumePlanIDs returns the configured plan-id -> tier table for the resume
// family.
func (c Config) ResumePlanIDs() map[string]string {
	table := map[string]string{}
	add := func(planID, tier string) {
		if id := strings.TrimSpace(planID); id != "" {
			table[id] = tier
		}
	}
	add(c.PlanIDResumeBasicMonthly, "resume_basic")
	add(c.PlanIDResumeBasicYearly, "resume_basic")
	add(c.PlanIDResumePremiumMonthly, "resume_premium")
	add(c.PlanIDResumePremiumYearly, "resume_premium")
	return table
}
