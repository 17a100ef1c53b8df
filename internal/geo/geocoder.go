// Package geo resolves a user's last sign-in address to a human-readable
// location through an external provider. Resolution is opportunistic: an
// unresolvable address leaves the location empty and is not retried.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/datatypes"
)

const defaultProviderURL = "http://ip-api.com/json"

type lookupResponse struct {
	Status      string `json:"status"`
	City        string `json:"city"`
	RegionName  string `json:"regionName"`
	CountryCode string `json:"countryCode"`
}

// LocateUser resolves ip and stores the derived location on the user record,
// keeping the raw provider payload alongside it. Provider misses are not
// errors; the location simply stays unset.
func LocateUser(ctx context.Context, userID uint, ip string) error {
	if ip == "" {
		return nil
	}

	providerURL := os.Getenv("GEOCODER_URL")
	if providerURL == "" {
		providerURL = defaultProviderURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, providerURL+"/"+ip, nil)
	if err != nil {
		return fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read geocode response: %w", err)
	}

	var lookup lookupResponse
	if err := json.Unmarshal(raw, &lookup); err != nil {
		return fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if lookup.Status != "success" || lookup.City == "" {
		return nil
	}

	location := fmt.Sprintf("%s, %s, %s", lookup.City, lookup.RegionName, lookup.CountryCode)

	updates := map[string]interface{}{
		"location":       location,
		"geocode_result": datatypes.JSON(raw),
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to store location for user %d: %w", userID, err)
	}

	return nil
}
