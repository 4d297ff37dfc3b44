package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type RenderingService struct {
	Options []RequestOption
}

func NewRenderingService(opts ...RequestOption) RenderingService {
	return RenderingService{
		Options: opts,
	}
}

type RenderingRequest struct {
	Mode string

	Input string
}

type Rendering struct {
	Content     []byte
	ContentType string
}

func (r *RenderingService) New(ctx context.Context, input RenderingRequest, opts ...RequestOption) (*Rendering, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	values := url.Values{}
	values.Set("text", input.Input)

	if input.Mode != "" {
		values.Set("mode", input.Mode)
	}

	req, _ := http.NewRequestWithContext(ctx, "POST", c.URL+"/v1/render", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	return &Rendering{
		Content:     data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
