package api

import (
	"context"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

const maxProfileConcurrency = 4

func (c *Client) GetProfiles(ctx context.Context, mids []string) (*ProfileBatch, error) {
	query := url.Values{}
	query.Set("mids", strings.Join(mids, ","))

	var batch ProfileBatch
	if err := c.do(ctx, http.MethodGet, c.profileEndpoint, query, nil, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// GetProfilesMap indexes GetProfiles by mid. Contacts without a mid are
// skipped and a repeated mid keeps the last contact.
func (c *Client) GetProfilesMap(ctx context.Context, mids []string) (map[string]Profile, error) {
	batch, err := c.GetProfiles(ctx, mids)
	if err != nil {
		return nil, err
	}

	profiles := make(map[string]Profile, len(batch.Contacts))
	for _, contact := range batch.Contacts {
		if contact.MID != "" {
			profiles[contact.MID] = contact
		}
	}
	return profiles, nil
}

// GetProfilesMapBatched splits mids into batches of batchSize and looks them
// up concurrently. The first failing batch cancels the rest.
func (c *Client) GetProfilesMapBatched(ctx context.Context, mids []string, batchSize int) (map[string]Profile, error) {
	if batchSize <= 0 || len(mids) <= batchSize {
		return c.GetProfilesMap(ctx, mids)
	}

	batches := slices.Collect(slices.Chunk(mids, batchSize))
	results := make([]map[string]Profile, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxProfileConcurrency)
	for i, batch := range batches {
		g.Go(func() error {
			m, err := c.GetProfilesMap(gctx, batch)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profiles := make(map[string]Profile, len(mids))
	for _, m := range results {
		maps.Copy(profiles, m)
	}
	return profiles, nil
}
