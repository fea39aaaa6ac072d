// Package backend obtiene los logs de comportamiento desde el backend REST
// principal cuando el servicio de análisis no comparte su base de datos.
package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
	"pet-behavior-analysis/internal/platform/httpclient"
)

type Client struct {
	http *httpclient.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	c, err := httpclient.New(baseURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("backend log source: %w", err)
	}
	return &Client{http: c}, nil
}

// logDTO es el formato que expone GET /pets/{petID}/behavior-logs.
type logDTO struct {
	ID             string   `json:"id"`
	PetID          string   `json:"pet_id"`
	LogDate        string   `json:"log_date"`
	ActivityLevel  string   `json:"activity_level"`
	FoodIntake     string   `json:"food_intake"`
	WaterIntake    string   `json:"water_intake"`
	BathroomHabits string   `json:"bathroom_habits"`
	Symptoms       []string `json:"symptoms"`
}

// Fetch implementa el contrato fetch_logs. Un 404 upstream = mascota sin logs.
func (c *Client) Fetch(ctx context.Context, petID string, limit, daysBack int) ([]behaviorlogs.BehaviorLog, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, behaviorlogs.ErrInvalidInput
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("days_back", strconv.Itoa(daysBack))

	var items []logDTO
	err := c.http.GetJSON(ctx, "/pets/"+url.PathEscape(petID)+"/behavior-logs", q, &items)
	if err != nil {
		if httpclient.IsNotFound(err) {
			return []behaviorlogs.BehaviorLog{}, nil
		}
		return nil, fmt.Errorf("fetch behavior logs: %w", err)
	}

	out := make([]behaviorlogs.BehaviorLog, 0, len(items))
	for _, it := range items {
		l, ok := toBehaviorLog(petID, it)
		if !ok {
			continue
		}
		out = append(out, behaviorlogs.Normalize(l))
	}
	behaviorlogs.SortByDate(out)
	return out, nil
}

// ListPetIDs usa GET /behavior-logs/pets; 404 = ninguna mascota.
func (c *Client) ListPetIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.http.GetJSON(ctx, "/behavior-logs/pets", nil, &ids); err != nil {
		if httpclient.IsNotFound(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list pets with logs: %w", err)
	}
	return ids, nil
}

func toBehaviorLog(petID string, it logDTO) (behaviorlogs.BehaviorLog, bool) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(it.LogDate))
	if err != nil {
		// también aceptamos RFC3339 (el backend viejo serializa datetime)
		d, err = time.Parse(time.RFC3339, strings.TrimSpace(it.LogDate))
		if err != nil {
			return behaviorlogs.BehaviorLog{}, false
		}
	}

	symptoms := behaviorlogs.EmptySymptoms
	if len(it.Symptoms) > 0 {
		if b, err := json.Marshal(it.Symptoms); err == nil {
			symptoms = string(b)
		}
	}

	return behaviorlogs.BehaviorLog{
		ID:             it.ID,
		PetID:          petID,
		LogDate:        d.UTC(),
		ActivityLevel:  it.ActivityLevel,
		FoodIntake:     it.FoodIntake,
		WaterIntake:    it.WaterIntake,
		BathroomHabits: it.BathroomHabits,
		Symptoms:       symptoms,
	}, true
}
