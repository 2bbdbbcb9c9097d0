package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/polarplant/ecboard/pkg/catalog"
	"github.com/polarplant/ecboard/pkg/dataset"
	"github.com/polarplant/ecboard/pkg/kit"
)

// Shared request/response types used by both HTTP and MCP transports.

// errNotFound marks an unknown group or an unavailable dataset; the HTTP
// layer maps it to 404.
var errNotFound = errors.New("not found")

type environmentReq struct {
	Group string // "" = summaries for all groups
}

type environmentResponse struct {
	Summaries []dataset.EnvSummary `json:"summaries"`
	Warnings  []dataset.Warning    `json:"warnings,omitempty"`
}

type environmentSeriesResponse struct {
	Summary dataset.EnvSummary `json:"summary"`
	Series  *dataset.EnvSeries `json:"series"`
}

type growthResponse struct {
	Summaries []dataset.GrowthSummary `json:"summaries"`
	Warnings  []dataset.Warning       `json:"warnings,omitempty"`
}

type datasetsResponse struct {
	Datasets []catalog.Record `json:"datasets"`
}

// Endpoint factories backed by the dataset store. Degraded loads surface as
// warnings on the response; only total absence of data is an error.

func overviewEndpoint(store *dataset.Store) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		if store.DatasetCount() == 0 {
			return nil, dataset.ErrNoData
		}
		return store.Overview(), nil
	}
}

func environmentEndpoint(store *dataset.Store) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req, _ := request.(*environmentReq)
		if req == nil || req.Group == "" {
			summaries := store.EnvironmentSummaries()
			if len(summaries) == 0 {
				return nil, dataset.ErrNoData
			}
			return environmentResponse{
				Summaries: summaries,
				Warnings:  store.Warnings(),
			}, nil
		}

		g, ok := store.Group(req.Group)
		if !ok {
			return nil, fmt.Errorf("%w: unknown group %q", errNotFound, req.Group)
		}
		series, ok := store.Environment(g.ID)
		if !ok {
			return nil, fmt.Errorf("%w: environment dataset for %s unavailable", errNotFound, g.ID)
		}
		return environmentSeriesResponse{
			Summary: series.Summary(g),
			Series:  series,
		}, nil
	}
}

func growthEndpoint(store *dataset.Store) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		summaries := store.GrowthSummaries()
		if len(summaries) == 0 {
			return nil, dataset.ErrNoData
		}
		return growthResponse{
			Summaries: summaries,
			Warnings:  store.Warnings(),
		}, nil
	}
}

func datasetsEndpoint(cat *catalog.DB) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		if cat == nil {
			return datasetsResponse{Datasets: []catalog.Record{}}, nil
		}
		records, err := cat.List()
		if err != nil {
			return nil, err
		}
		if records == nil {
			records = []catalog.Record{}
		}
		return datasetsResponse{Datasets: records}, nil
	}
}
