package client

import (
	"context"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/meshlearn/pkg/config"
	"github.com/charlie0129/meshlearn/pkg/meshstats"
)

func (c *Client) GetAnalysis(ctx context.Context) ([]meshstats.BucketReport, error) {
	ret, err := c.Get(ctx, "/analysis")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get analysis")
	}

	var reports []meshstats.BucketReport
	if err := json.Unmarshal([]byte(ret), &reports); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal analysis")
	}
	return reports, nil
}

func (c *Client) GetMesh(ctx context.Context, temp int) (*meshstats.SynthesizedMesh, error) {
	ret, err := c.Get(ctx, fmt.Sprintf("/mesh/%d", temp))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get mesh for %d°C", temp)
	}

	var mesh meshstats.SynthesizedMesh
	if err := json.Unmarshal([]byte(ret), &mesh); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal mesh")
	}
	return &mesh, nil
}

func (c *Client) GetMeshExport(ctx context.Context, temp int) (string, error) {
	ret, err := c.Get(ctx, fmt.Sprintf("/mesh/%d/export", temp))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to export mesh for %d°C", temp)
	}
	return ret, nil
}

func (c *Client) GetConfig(ctx context.Context) (*config.RawFileConfig, error) {
	ret, err := c.Get(ctx, "/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}
	return &conf, nil
}

func (c *Client) GetVersion(ctx context.Context) (string, error) {
	ret, err := c.Get(ctx, "/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}

	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}
	return v, nil
}
