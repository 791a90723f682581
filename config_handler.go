package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"drerwrk/builder"
	"drerwrk/config"
	"drerwrk/respond"
)

// GetConfigHandler returns the settings the frontend needs: currency,
// placeholder image and the builder's required slot set.
func GetConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := config.GetConfig()
		respond.JSON(w, http.StatusOK, map[string]interface{}{
			"currencyTag":         cfg.CurrencyTag,
			"buildPlaceholderUrl": cfg.BuildPlaceholderURL,
			"requiredBuildSlots":  cfg.RequiredBuildSlots,
		})
	}
}

func SaveConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var newCfg config.Config
		if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		if err := validateRequiredSlots(newCfg.RequiredBuildSlots); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := config.SaveConfig(newCfg); err != nil {
			log.Printf("Error saving config: %v", err)
			respond.Error(w, http.StatusInternalServerError, "Failed to save configuration.")
			return
		}

		respond.Message(w, http.StatusOK, "Configuration saved.")
	}
}

// validateRequiredSlots rejects slot names outside the builder's closed
// category set. CPUs and Motherboards stay required: every later category
// derives its compatibility from them.
func validateRequiredSlots(slots []string) error {
	if len(slots) == 0 {
		return nil
	}
	known := map[string]bool{}
	for _, category := range builder.Categories {
		known[category] = true
	}
	seen := map[string]bool{}
	for _, slot := range slots {
		if !known[slot] {
			return fmt.Errorf("unknown build slot: %s", slot)
		}
		seen[slot] = true
	}
	if !seen[builder.CategoryCPUs] || !seen[builder.CategoryMotherboards] {
		return errors.New("CPUs and Motherboards must remain required build slots")
	}
	return nil
}
