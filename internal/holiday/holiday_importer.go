package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// City identifies one municipality to pull holidays for.
type City struct {
	Name     string
	State    string
	IBGECode string
}

// ImporterConfig wires the external holidays API.
type ImporterConfig struct {
	BaseURL string
	Token   string
	Cities  []City
}

// Importer pulls the year's holiday calendar per city from the public
// holidays API and upserts it into the registry.
type Importer struct {
	cfg     ImporterConfig
	client  *http.Client
	service Service
	logger  *zap.Logger
}

func NewImporter(cfg ImporterConfig, service Service, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.L()
	}
	return &Importer{
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		service: service,
		logger:  logger.Named("holiday.importer"),
	}
}

type apiHoliday struct {
	Date string `json:"data"`
	Name string `json:"nome"`
	Type string `json:"tipo"`
}

type apiResponse struct {
	Holidays []apiHoliday `json:"feriados"`
}

// ImportYear fetches and stores the calendar for every configured
// city. A failing city is logged and skipped so one outage does not
// void the whole run; the per-city errors are reported in the summary.
func (im *Importer) ImportYear(ctx context.Context, year int) (imported int, failures []string, err error) {
	for _, city := range im.cfg.Cities {
		n, cityErr := im.importCity(ctx, city, year)
		imported += n
		if cityErr != nil {
			im.logger.Error("holiday import failed for city",
				zap.String("city", city.Name),
				zap.String("state", city.State),
				zap.Int("year", year),
				zap.Error(cityErr))
			failures = append(failures, city.Name)
			continue
		}
		im.logger.Info("holiday import done for city",
			zap.String("city", city.Name),
			zap.Int("year", year),
			zap.Int("count", n))
	}
	if imported == 0 && len(failures) > 0 {
		return 0, failures, fmt.Errorf("holiday import failed for all %d cities", len(failures))
	}
	return imported, failures, nil
}

func (im *Importer) importCity(ctx context.Context, city City, year int) (int, error) {
	url := fmt.Sprintf("%s/api/v1/feriados/cidade/%s?ano=%d", im.cfg.BaseURL, city.IBGECode, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+im.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := im.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("holidays api returned status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decoding holidays api response: %w", err)
	}

	count := 0
	for _, item := range body.Holidays {
		date, err := time.Parse("2006-01-02", item.Date)
		if err != nil {
			im.logger.Warn("skipping holiday with bad date",
				zap.String("date", item.Date),
				zap.String("name", item.Name))
			continue
		}
		h := &Holiday{
			Date:  date,
			Name:  item.Name,
			City:  city.Name,
			State: city.State,
		}
		// National holidays apply everywhere regardless of city.
		if item.Type == "nacional" {
			h.City = ""
			h.State = ""
		}
		if err := im.service.Save(ctx, h); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
