package census

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"alice-pipeline/config"
	"alice-pipeline/geo"
	"alice-pipeline/models"
	"alice-pipeline/services"
	"alice-pipeline/utils"
)

const baseURL = "https://api.census.gov/data"

// Fetcher pulls ACS 5-year estimates from the Census Bureau API, one
// state at a time, county-resolution rows for the age, household, and
// race variable sets.
type Fetcher struct {
	cfg     *config.Config
	logger  *utils.Logger
	client  *resty.Client
	pool    *utils.WorkerPool
	fetched *utils.KeySet
	retry   *utils.RetryConfig

	mu     sync.Mutex
	blocks []models.StateBlock
}

// New creates a ready-to-use Census Fetcher.
func New(cfg *config.Config, logger *utils.Logger) *Fetcher {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("user-agent", "alice-pipeline/1.0")

	return &Fetcher{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		pool:    utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		fetched: utils.NewKeySet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// FetchAll retrieves demographics for every known state and returns
// the blocks in FIPS order. A state whose fetches all fail still gets
// a block with nil row arrays, so downstream accounting sees it.
func (f *Fetcher) FetchAll(ctx context.Context) models.DemographicsFile {
	states := geo.States()
	f.logger.Info("[census] Fetching ACS %d demographics for %d states", f.cfg.CensusYear, len(states))

	for _, st := range states {
		st := st
		if !f.fetched.Add(st.FIPS) {
			continue
		}
		f.pool.Submit(func() {
			block := f.FetchState(ctx, st)
			f.mu.Lock()
			f.blocks = append(f.blocks, block)
			f.mu.Unlock()
		})
	}
	f.pool.Wait()

	sort.Slice(f.blocks, func(i, j int) bool {
		return f.blocks[i].StateFIPS < f.blocks[j].StateFIPS
	})

	return models.DemographicsFile{
		Created:      time.Now().Format(time.RFC3339),
		Source:       fmt.Sprintf("US Census Bureau ACS 5-Year Estimates (%d)", f.cfg.CensusYear),
		Demographics: f.blocks,
	}
}

// FetchState retrieves the three variable sets for one state. Each set
// fails independently; a failed set leaves its row array nil.
func (f *Fetcher) FetchState(ctx context.Context, st geo.State) models.StateBlock {
	block := models.StateBlock{State: st.Name, StateFIPS: st.FIPS}

	sets := []struct {
		name string
		vars []string
		dst  *[]models.RawVariableRow
	}{
		{"age", services.AgeVariables(), &block.Age},
		{"household", services.HouseholdVariables(), &block.Household},
		{"race", services.RaceVariables(), &block.Race},
	}

	for _, set := range sets {
		rows, err := f.fetchVariables(ctx, st, set.vars)
		if err != nil {
			f.logger.Error("[census] %s %s fetch failed: %v", st.Name, set.name, err)
			continue
		}
		*set.dst = rows
		f.logger.Debug("[census] %s: %d %s rows", st.Name, len(rows), set.name)
	}

	return block
}

// fetchVariables queries one variable set for every county in a state
// and decodes the Census array-of-arrays payload: a header row
// followed by one value row per county.
func (f *Fetcher) fetchVariables(ctx context.Context, st geo.State, vars []string) ([]models.RawVariableRow, error) {
	var rows []models.RawVariableRow

	err := f.retry.Do(fmt.Sprintf("census-%s", st.FIPS), func() error {
		req := f.client.R().
			SetContext(ctx).
			SetQueryParam("get", strings.Join(vars, ",")).
			SetQueryParam("for", "county:*").
			SetQueryParam("in", "state:"+st.FIPS)
		if f.cfg.CensusAPIKey != "" {
			req.SetQueryParam("key", f.cfg.CensusAPIKey)
		}

		res, err := req.Get(fmt.Sprintf("%s/%d/acs/acs5", baseURL, f.cfg.CensusYear))
		if err != nil {
			return fmt.Errorf("census request: %w", err)
		}
		if res.StatusCode() != 200 {
			return fmt.Errorf("census API returned %d", res.StatusCode())
		}

		decoded, err := DecodeTable(res.Body())
		if err != nil {
			return err
		}
		rows = decoded
		return nil
	})

	return rows, err
}

// DecodeTable turns the Census JSON table, a header row followed by
// value rows ([["B01001_001E","state","county"],["123","12","057"]]),
// into flat variable rows. Null cells are omitted so the aggregator
// treats them as missing.
func DecodeTable(body []byte) ([]models.RawVariableRow, error) {
	var table [][]*string
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, fmt.Errorf("decode census table: %w", err)
	}
	if len(table) < 2 {
		return nil, fmt.Errorf("census table has no data rows")
	}

	headers := table[0]
	rows := make([]models.RawVariableRow, 0, len(table)-1)
	for _, raw := range table[1:] {
		row := make(models.RawVariableRow, len(headers))
		for i, h := range headers {
			if h == nil || i >= len(raw) || raw[i] == nil {
				continue
			}
			row[*h] = *raw[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
