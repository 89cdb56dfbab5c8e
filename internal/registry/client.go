package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fleetdesk/internal"
	"fleetdesk/internal/config"
	"fleetdesk/internal/util"
)

// ErrNotFound means the registry has no vehicle for the plate. The
// plate-list pipeline turns it into a per-item failure; every other
// error aborts the operation.
var ErrNotFound = errors.New("plate not found in vehicle registry")

type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *throttle
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

type vehiclePayload struct {
	LicensePlate     string `json:"licensePlate"`
	Brand            string `json:"brand"`
	Model            string `json:"model"`
	VehicleType      string `json:"vehicleType"`
	Fuel             string `json:"fuel"`
	RegistrationDate string `json:"registrationDate"`
	ChassisNumber    string `json:"chassisNumber"`
	APKExpiryDate    string `json:"apkExpiryDate"`
	FirstAdmission   string `json:"firstAdmissionDate"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.RegistryTimeoutMs) * time.Millisecond},
		limiter:    newThrottle(cfg.RegistryRateLimitRPS),
	}
}

// LookupPlate fetches the registry's record for one plate. The plate
// is normalized to its registry key before the request; the returned
// facts carry the registry's own plate formatting when present.
func (c *Client) LookupPlate(ctx context.Context, plate string) (internal.VehicleFacts, error) {
	key := util.NormalizePlate(plate)
	if key == "" {
		return internal.VehicleFacts{}, errors.New("empty license plate")
	}

	body, err := c.fetchJSON(ctx, "vehicle/"+url.PathEscape(key))
	if err != nil {
		return internal.VehicleFacts{}, err
	}

	var payload vehiclePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return internal.VehicleFacts{}, err
	}

	facts := internal.VehicleFacts{
		LicensePlate:     payload.LicensePlate,
		Brand:            payload.Brand,
		Model:            payload.Model,
		VehicleType:      payload.VehicleType,
		Fuel:             payload.Fuel,
		RegistrationDate: payload.RegistrationDate,
		ChassisNumber:    payload.ChassisNumber,
		APKDate:          payload.APKExpiryDate,
		ProductionDate:   payload.FirstAdmission,
	}
	if strings.TrimSpace(facts.LicensePlate) == "" {
		facts.LicensePlate = strings.TrimSpace(plate)
	}
	return facts, nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string) ([]byte, error) {
	if strings.TrimSpace(c.cfg.RegistryAPIToken) == "" {
		return nil, errors.New("missing REGISTRY_API_TOKEN")
	}

	baseURL := strings.TrimRight(c.cfg.RegistryAPIBaseURL, "/") + "/"
	u, err := url.Parse(baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.wait()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.RegistryAPIToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("registry status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("registry api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		var apiResp apiResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return nil, err
		}
		if !apiResp.Success {
			if strings.EqualFold(apiResp.Message, "not_found") {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("registry api unsuccessful: %s", string(apiResp.Errors))
		}
		return apiResp.Data, nil
	}

	if lastErr == nil {
		lastErr = errors.New("registry request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
